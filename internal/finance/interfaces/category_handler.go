package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

type CategoryServiceInterface interface {
	GetAllCategories(ctx context.Context, userID int) ([]domain.Category, error)
	GetCategory(ctx context.Context, userID, categoryID int) (*domain.Category, error)
	CreateCategory(ctx context.Context, userID int, title, description string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID int, title, description string) error
	DeleteCategory(ctx context.Context, userID, categoryID int) error
}

type categoryRequest struct {
	Title       string `json:"title" validate:"required,max=20"`
	Description string `json:"description" validate:"max=50"`
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	validate     *validator.Validate
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		validate:     validator.New(),
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categories, err := h.service.GetAllCategories(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"message":    "Categories retrieved successfully.",
		"categories": categories,
	})
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := h.owner(w, r)
	if !ok {
		return
	}

	category, err := h.service.GetCategory(r.Context(), userID, categoryID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"message":  "Category retrieved successfully.",
		"category": category,
	})
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":   "success",
		"message":  "Category created successfully.",
		"category": category,
	})
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := h.owner(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.UpdateCategory(r.Context(), userID, categoryID, req.Title, req.Description); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Category updated successfully.",
	})
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := h.owner(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), userID, categoryID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Category deleted successfully.",
	})
}

func (h *CategoryHandler) owner(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, 0, false
	}
	categoryID, ok := categoryIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusBadRequest, "CategoryID is required")
		return 0, 0, false
	}
	return userID, categoryID, true
}

func (h *CategoryHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (categoryRequest, bool) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}

	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			h.respondError(w, http.StatusBadRequest, "Invalid request body")
			return req, false
		}
		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fieldMessage(fieldErr))
		}
		h.respondError(w, http.StatusBadRequest, "Validation failed", messages)
		return req, false
	}
	return req, true
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid", fieldErr.Field())
	}
}

// respondServiceError maps an error kind to its HTTP status. Only the fixed
// message of the error is written to the client.
func (h *CategoryHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors *financeErrors.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		h.respondError(w, http.StatusBadRequest, "Validation failed", validationErrors.Messages())
	case financeErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case financeErrors.IsResourceNotFound(err):
		h.respondError(w, http.StatusNotFound, err.Error())
	case financeErrors.IsBadRequest(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case financeErrors.IsStorageUnavailable(err):
		h.respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unexpected category service error")
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
