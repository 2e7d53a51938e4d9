package infrastructure

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"conn done", sql.ErrConnDone, true},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), true},
		{"connection failure sqlstate", &pgconn.PgError{Code: "08006"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"not null violation", &pgconn.PgError{Code: "23502"}, false},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"no rows", sql.ErrNoRows, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConnectivityError(tt.err))
		})
	}
}

func TestReadError(t *testing.T) {
	err := readError(msgCategoryNotFound, sql.ErrNoRows)
	assert.True(t, financeErrors.IsResourceNotFound(err))
	assert.EqualError(t, err, "Category not found")
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	err = readError(msgCategoryNotFound, driver.ErrBadConn)
	assert.True(t, financeErrors.IsStorageUnavailable(err))
	assert.EqualError(t, err, "Category not found")
}

func TestWriteError(t *testing.T) {
	err := writeError(msgInvalidRequest, &pgconn.PgError{Code: "23502", ColumnName: "title"})
	assert.True(t, financeErrors.IsBadRequest(err))
	assert.EqualError(t, err, "Invalid Request")

	err = writeError(msgInvalidDeleteCategory, &pgconn.PgError{Code: "08003"})
	assert.True(t, financeErrors.IsStorageUnavailable(err))
}
