package interfaces

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

type categoryIDKey struct{}

// ValidateCategoryIDMiddleware parses the {categoryID} path value and stores it
// in the request context. Non-numeric ids can never match a row, so they get a
// 404 like any other unknown category.
func (h *CategoryHandler) ValidateCategoryIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paramValue := r.PathValue("categoryID")
		if paramValue == "" {
			h.respondError(w, http.StatusBadRequest, "CategoryID is required")
			return
		}

		categoryID, err := strconv.Atoi(paramValue)
		if err != nil || categoryID <= 0 {
			zerolog.Ctx(r.Context()).Debug().Str("category_id", paramValue).Msg("invalid category id in path")
			h.respondError(w, http.StatusNotFound, "Category not found")
			return
		}

		ctx := context.WithValue(r.Context(), categoryIDKey{}, categoryID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func categoryIDFromContext(ctx context.Context) (int, bool) {
	categoryID, ok := ctx.Value(categoryIDKey{}).(int)
	return categoryID, ok
}
