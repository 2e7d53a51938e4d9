package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

const (
	sqlFindAllCategories = `
		SELECT c.category_id, c.user_id, c.title, COALESCE(c.description, ''),
		       COALESCE(SUM(t.amount), 0) AS total_expense
		FROM et_categories c
		LEFT OUTER JOIN et_transactions t ON t.category_id = c.category_id
		WHERE c.user_id = $1
		GROUP BY c.category_id
		ORDER BY c.category_id`

	sqlFindCategoryByID = `
		SELECT c.category_id, c.user_id, c.title, COALESCE(c.description, ''),
		       COALESCE(SUM(t.amount), 0) AS total_expense
		FROM et_categories c
		LEFT OUTER JOIN et_transactions t ON t.category_id = c.category_id
		WHERE c.user_id = $1 AND c.category_id = $2
		GROUP BY c.category_id`

	sqlCreateCategory = `
		INSERT INTO et_categories (category_id, user_id, title, description)
		VALUES (NEXTVAL('et_categories_seq'), $1, $2, $3)
		RETURNING category_id`

	sqlUpdateCategory = `
		UPDATE et_categories
		SET title = $1, description = $2
		WHERE user_id = $3 AND category_id = $4`

	sqlDeleteCategory = `DELETE FROM et_categories WHERE user_id = $1 AND category_id = $2`

	sqlDeleteCategoryTransactions = `DELETE FROM et_transactions WHERE category_id = $1`
)

const (
	msgInvalidUserID                 = "Invalid UserId"
	msgCategoryNotFound              = "Category not found"
	msgInvalidRequest                = "Invalid Request"
	msgInvalidDeleteCategory         = "Invalid request for delete category"
	msgInvalidDeleteCategoryExpenses = "Invalid request for delete transactions of a category"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategories(rows *sql.Rows) ([]domain.Category, error) {
	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Title, &category.Description, &category.TotalExpense); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FetchAll(ctx context.Context, userID int) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, sqlFindAllCategories, userID)
	if err != nil {
		return nil, readError(msgInvalidUserID, err)
	}
	defer rows.Close()

	categories, err := scanCategories(rows)
	if err != nil {
		return nil, readError(msgInvalidUserID, err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, userID, categoryID int) (*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, sqlFindCategoryByID, userID, categoryID)
	if err != nil {
		return nil, readError(msgCategoryNotFound, err)
	}
	defer rows.Close()

	categories, err := scanCategories(rows)
	if err != nil {
		return nil, readError(msgCategoryNotFound, err)
	}
	if len(categories) != 1 {
		return nil, financeErrors.NewResourceNotFoundError(msgCategoryNotFound,
			fmt.Errorf("expected 1 category row, got %d", len(categories)))
	}
	return &categories[0], nil
}

func (r *CategoryRepository) Create(ctx context.Context, userID int, title, description string) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, sqlCreateCategory, userID, title, description).Scan(&id)
	if err != nil {
		return 0, writeError(msgInvalidRequest, err)
	}
	return id, nil
}

// Update changes title and description of the category and reports how many
// rows matched. Zero means the category does not exist for this user.
func (r *CategoryRepository) Update(ctx context.Context, userID, categoryID int, category domain.Category) (int64, error) {
	result, err := r.db.ExecContext(ctx, sqlUpdateCategory, category.Title, category.Description, userID, categoryID)
	if err != nil {
		return 0, writeError(msgInvalidRequest, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, writeError(msgInvalidRequest, err)
	}
	return affected, nil
}

// RemoveByID deletes every transaction of the category and then the category
// itself in one database transaction. When no category row matches
// (userID, categoryID) nothing is committed and 0 is returned.
func (r *CategoryRepository) RemoveByID(ctx context.Context, userID, categoryID int) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, writeError(msgInvalidDeleteCategory, err)
	}

	if err := r.removeCategoryTransactions(ctx, tx, categoryID); err != nil {
		safeRollback(tx)
		return 0, err
	}

	result, err := tx.ExecContext(ctx, sqlDeleteCategory, userID, categoryID)
	if err != nil {
		safeRollback(tx)
		return 0, writeError(msgInvalidDeleteCategory, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		safeRollback(tx)
		return 0, writeError(msgInvalidDeleteCategory, err)
	}
	if affected == 0 {
		safeRollback(tx)
		return 0, nil
	}

	if err := tx.Commit(); err != nil {
		return 0, writeError(msgInvalidDeleteCategory, err)
	}
	return affected, nil
}

func (r *CategoryRepository) removeCategoryTransactions(ctx context.Context, tx *sql.Tx, categoryID int) error {
	if _, err := tx.ExecContext(ctx, sqlDeleteCategoryTransactions, categoryID); err != nil {
		return writeError(msgInvalidDeleteCategoryExpenses, err)
	}
	return nil
}

func safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		log.Warn().Err(err).Msg("category delete rollback failed")
	}
}
