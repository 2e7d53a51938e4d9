package interfaces

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(handler *CategoryHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/categories", handler.GetCategories)
	mux.HandleFunc("POST /api/categories", handler.CreateCategory)
	mux.Handle("GET /api/categories/{categoryID}", handler.ValidateCategoryIDMiddleware(http.HandlerFunc(handler.GetCategory)))
	mux.Handle("PUT /api/categories/{categoryID}", handler.ValidateCategoryIDMiddleware(http.HandlerFunc(handler.UpdateCategory)))
	mux.Handle("DELETE /api/categories/{categoryID}", handler.ValidateCategoryIDMiddleware(http.HandlerFunc(handler.DeleteCategory)))
	return mux
}

func doRequest(t *testing.T, service *MockCategoryService, method, target string, body io.Reader) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	req = req.WithContext(auth.WithUserID(req.Context(), 1))
	w := httptest.NewRecorder()

	newTestMux(NewCategoryHandler(service, RespondJSON, RespondError)).ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	return res.StatusCode, response
}

func TestGetCategories_Success(t *testing.T) {
	service := &MockCategoryService{
		categories: []domain.Category{
			{ID: 1, UserID: 1, Title: "Food", TotalExpense: decimal.RequireFromString("15.75")},
			{ID: 2, UserID: 1, Title: "Rent", TotalExpense: decimal.Zero},
		},
	}

	status, response := doRequest(t, service, http.MethodGet, "/api/categories", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, service.lastUserID)
	categories, ok := response["categories"].([]interface{})
	require.True(t, ok)
	assert.Len(t, categories, 2)
	first := categories[0].(map[string]interface{})
	assert.Equal(t, "Food", first["title"])
	assert.Equal(t, "15.75", first["total_expense"])
}

func TestGetCategories_Unauthorized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()

	NewCategoryHandler(&MockCategoryService{}, RespondJSON, RespondError).GetCategories(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCategory_Success(t *testing.T) {
	service := &MockCategoryService{
		categories: []domain.Category{{ID: 5, UserID: 1, Title: "Food", Description: "Meals"}},
	}

	status, response := doRequest(t, service, http.MethodGet, "/api/categories/5", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, service.lastCategoryID)
	category := response["category"].(map[string]interface{})
	assert.Equal(t, float64(5), category["category_id"])
	assert.Equal(t, "Meals", category["description"])
}

func TestGetCategory_InvalidID(t *testing.T) {
	service := &MockCategoryService{}

	status, response := doRequest(t, service, http.MethodGet, "/api/categories/abc", nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Category not found", response["message"])
	assert.Zero(t, service.lastUserID)
}

func TestCategoryHandler_ErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", financeErrors.NewResourceNotFoundError("Category not found", nil), http.StatusNotFound, "Category not found"},
		{"bad request", financeErrors.NewBadRequestError("Invalid Request", errors.New("syntax error at or near")), http.StatusBadRequest, "Invalid Request"},
		{"unavailable", financeErrors.NewStorageUnavailableError("Invalid UserId", errors.New("connection refused")), http.StatusServiceUnavailable, "Invalid UserId"},
		{"validation", financeErrors.NewValidationError("Title is required"), http.StatusBadRequest, "Title is required"},
		{"validation list", &financeErrors.ValidationErrors{Errors: []error{financeErrors.NewFieldValidationError("Title", "is required")}}, http.StatusBadRequest, "Validation failed"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, response := doRequest(t, &MockCategoryService{err: tt.err}, http.MethodGet, "/api/categories/3", nil)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, response["message"])
		})
	}
}

func TestCreateCategory_Success(t *testing.T) {
	service := &MockCategoryService{}
	body := strings.NewReader(`{"title":"Food","description":"Meals"}`)

	status, response := doRequest(t, service, http.MethodPost, "/api/categories", body)

	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Food", service.lastTitle)
	category := response["category"].(map[string]interface{})
	assert.Equal(t, "Food", category["title"])
	assert.Equal(t, float64(1), category["user_id"])
}

func TestCreateCategory_InvalidBody(t *testing.T) {
	status, response := doRequest(t, &MockCategoryService{}, http.MethodPost, "/api/categories", strings.NewReader(`{`))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", response["message"])
}

func TestCreateCategory_ValidationFailed(t *testing.T) {
	service := &MockCategoryService{}
	body := strings.NewReader(`{"title":"","description":"` + strings.Repeat("d", 51) + `"}`)

	status, response := doRequest(t, service, http.MethodPost, "/api/categories", body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", response["message"])
	assert.ElementsMatch(t, []interface{}{
		"Title is required",
		"Description must be at most 50 characters",
	}, response["errors"])
	assert.Zero(t, service.lastUserID)
}

func TestUpdateCategory(t *testing.T) {
	service := &MockCategoryService{}
	body := strings.NewReader(`{"title":"Groceries","description":""}`)

	status, response := doRequest(t, service, http.MethodPut, "/api/categories/9", body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Category updated successfully.", response["message"])
	assert.Equal(t, 9, service.lastCategoryID)
	assert.Equal(t, "Groceries", service.lastTitle)
}

func TestUpdateCategory_NotFound(t *testing.T) {
	service := &MockCategoryService{err: financeErrors.NewResourceNotFoundError("Category not found", nil)}
	body := strings.NewReader(`{"title":"Groceries"}`)

	status, _ := doRequest(t, service, http.MethodPut, "/api/categories/9", body)

	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteCategory(t *testing.T) {
	service := &MockCategoryService{}

	status, response := doRequest(t, service, http.MethodDelete, "/api/categories/4", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Category deleted successfully.", response["message"])
	assert.Equal(t, 4, service.lastCategoryID)
}

func TestNewCategoryHandler_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() {
		NewCategoryHandler(nil, RespondJSON, RespondError)
	})
}

func TestUpdateCategory_DomainValidationErrorsListed(t *testing.T) {
	ve := &financeErrors.ValidationErrors{}
	ve.Add(financeErrors.NewFieldValidationError("Title", "is required"))
	ve.Add(financeErrors.NewFieldValidationError("Description", "must be at most 50 characters"))
	service := &MockCategoryService{err: ve}

	status, response := doRequest(t, service, http.MethodPut, "/api/categories/2", strings.NewReader(`{"title":"Rent"}`))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", response["message"])
	assert.Equal(t, []interface{}{"Title is required", "Description must be at most 50 characters"}, response["errors"])
}
