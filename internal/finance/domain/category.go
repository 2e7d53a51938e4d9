package domain

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const (
	maxCategoryTitleLength       = 20
	maxCategoryDescriptionLength = 50
)

// Category is an expense category owned by a single user. TotalExpense is the
// sum of the amounts of its transactions and is computed on every read.
type Category struct {
	ID           int             `json:"category_id"`
	UserID       int             `json:"user_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}

type CategoryRepository interface {
	FetchAll(ctx context.Context, userID int) ([]Category, error)
	FindByID(ctx context.Context, userID, categoryID int) (*Category, error)
	Create(ctx context.Context, userID int, title, description string) (int, error)
	Update(ctx context.Context, userID, categoryID int, category Category) (int64, error)
	RemoveByID(ctx context.Context, userID, categoryID int) (int64, error)
}

// Validate reports every invalid field at once. Lengths are counted in
// characters, matching the varchar column widths.
func (c *Category) Validate() error {
	ve := &errors.ValidationErrors{}
	if strings.TrimSpace(c.Title) == "" {
		ve.Add(errors.NewFieldValidationError("Title", "is required"))
	}
	if utf8.RuneCountInString(c.Title) > maxCategoryTitleLength {
		ve.Add(errors.NewFieldValidationError("Title", fmt.Sprintf("must be at most %d characters", maxCategoryTitleLength)))
	}
	if utf8.RuneCountInString(c.Description) > maxCategoryDescriptionLength {
		ve.Add(errors.NewFieldValidationError("Description", fmt.Sprintf("must be at most %d characters", maxCategoryDescriptionLength)))
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
