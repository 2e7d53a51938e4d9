package interfaces

import (
	"context"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
)

// MockCategoryService records the last owner and category ids it was called
// with. err, when set, is returned by every method.
type MockCategoryService struct {
	categories []domain.Category
	created    *domain.Category
	err        error

	lastUserID     int
	lastCategoryID int
	lastTitle      string
}

func (m *MockCategoryService) GetAllCategories(_ context.Context, userID int) ([]domain.Category, error) {
	m.lastUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *MockCategoryService) GetCategory(_ context.Context, userID, categoryID int) (*domain.Category, error) {
	m.lastUserID, m.lastCategoryID = userID, categoryID
	if m.err != nil {
		return nil, m.err
	}
	for _, category := range m.categories {
		if category.ID == categoryID {
			return &category, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryService) CreateCategory(_ context.Context, userID int, title, description string) (*domain.Category, error) {
	m.lastUserID, m.lastTitle = userID, title
	if m.err != nil {
		return nil, m.err
	}
	if m.created != nil {
		return m.created, nil
	}
	return &domain.Category{ID: 1, UserID: userID, Title: title, Description: description}, nil
}

func (m *MockCategoryService) UpdateCategory(_ context.Context, userID, categoryID int, title, _ string) error {
	m.lastUserID, m.lastCategoryID, m.lastTitle = userID, categoryID, title
	return m.err
}

func (m *MockCategoryService) DeleteCategory(_ context.Context, userID, categoryID int) error {
	m.lastUserID, m.lastCategoryID = userID, categoryID
	return m.err
}
