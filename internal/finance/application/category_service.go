package application

import (
	"context"
	stderrors "errors"

	"github.com/rs/zerolog"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

var ErrCategoryNotFound = financeErrors.NewResourceNotFoundError("Category not found", nil)

type CategoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) GetAllCategories(ctx context.Context, userID int) ([]domain.Category, error) {
	categories, err := s.repo.FetchAll(ctx, userID)
	if err != nil {
		logFailure(ctx, err, "fetch categories", userID, 0)
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, userID, categoryID int) (*domain.Category, error) {
	category, err := s.repo.FindByID(ctx, userID, categoryID)
	if err != nil {
		logFailure(ctx, err, "find category", userID, categoryID)
		return nil, err
	}
	return category, nil
}

// CreateCategory stores a new category and returns it as read back from the
// repository.
func (s *CategoryService) CreateCategory(ctx context.Context, userID int, title, description string) (*domain.Category, error) {
	category := domain.Category{UserID: userID, Title: title, Description: description}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, userID, title, description)
	if err != nil {
		logFailure(ctx, err, "create category", userID, 0)
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Int("user_id", userID).Int("category_id", id).Msg("category created")

	created, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		logFailure(ctx, err, "read back created category", userID, id)
		return nil, err
	}
	return created, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID int, title, description string) error {
	category := domain.Category{ID: categoryID, UserID: userID, Title: title, Description: description}
	if err := category.Validate(); err != nil {
		return err
	}

	affected, err := s.repo.Update(ctx, userID, categoryID, category)
	if err != nil {
		logFailure(ctx, err, "update category", userID, categoryID)
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes the category together with all of its transactions.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID int) error {
	removed, err := s.repo.RemoveByID(ctx, userID, categoryID)
	if err != nil {
		logFailure(ctx, err, "delete category", userID, categoryID)
		return err
	}
	if removed == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// logFailure records the driver error kept behind a repository error; callers
// only ever see the fixed message.
func logFailure(ctx context.Context, err error, op string, userID, categoryID int) {
	event := zerolog.Ctx(ctx).Warn().
		Str("op", op).
		Str("kind", financeErrors.KindOf(err).String()).
		Int("user_id", userID)
	if categoryID != 0 {
		event = event.Int("category_id", categoryID)
	}

	var repoErr *financeErrors.RepositoryError
	if stderrors.As(err, &repoErr) && repoErr.Err != nil {
		event = event.Str("cause", repoErr.Cause())
	}
	event.Msg(err.Error())
}
