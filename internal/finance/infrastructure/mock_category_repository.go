package infrastructure

import (
	"context"
	"sort"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

// MockCategoryRepository keeps categories and expense amounts in memory.
// Err, when set, is returned by every method.
type MockCategoryRepository struct {
	Categories map[int]domain.Category
	Expenses   map[int][]decimal.Decimal
	Err        error
	nextID     int
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int]domain.Category),
		Expenses:   make(map[int][]decimal.Decimal),
	}
}

func (m *MockCategoryRepository) AddExpense(categoryID int, amount decimal.Decimal) {
	m.Expenses[categoryID] = append(m.Expenses[categoryID], amount)
}

func (m *MockCategoryRepository) withTotal(category domain.Category) domain.Category {
	category.TotalExpense = decimal.Zero
	for _, amount := range m.Expenses[category.ID] {
		category.TotalExpense = category.TotalExpense.Add(amount)
	}
	return category
}

func (m *MockCategoryRepository) FetchAll(_ context.Context, userID int) ([]domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	categories := []domain.Category{}
	for _, category := range m.Categories {
		if category.UserID == userID {
			categories = append(categories, m.withTotal(category))
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (m *MockCategoryRepository) FindByID(_ context.Context, userID, categoryID int) (*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	category, ok := m.Categories[categoryID]
	if !ok || category.UserID != userID {
		return nil, financeErrors.NewResourceNotFoundError(msgCategoryNotFound, nil)
	}
	category = m.withTotal(category)
	return &category, nil
}

func (m *MockCategoryRepository) Create(_ context.Context, userID int, title, description string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.nextID++
	m.Categories[m.nextID] = domain.Category{ID: m.nextID, UserID: userID, Title: title, Description: description}
	return m.nextID, nil
}

func (m *MockCategoryRepository) Update(_ context.Context, userID, categoryID int, category domain.Category) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	existing, ok := m.Categories[categoryID]
	if !ok || existing.UserID != userID {
		return 0, nil
	}
	existing.Title = category.Title
	existing.Description = category.Description
	m.Categories[categoryID] = existing
	return 1, nil
}

func (m *MockCategoryRepository) RemoveByID(_ context.Context, userID, categoryID int) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	existing, ok := m.Categories[categoryID]
	if !ok || existing.UserID != userID {
		return 0, nil
	}
	delete(m.Expenses, categoryID)
	delete(m.Categories, categoryID)
	return 1, nil
}
