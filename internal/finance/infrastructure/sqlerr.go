package infrastructure

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

// SQLSTATE codes outside class 08 that still mean the server cannot serve us.
var unavailableCodes = map[string]bool{
	"53300": true, // too_many_connections
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
}

// isConnectivityError reports whether err means the database could not be
// reached, as opposed to the statement itself being rejected.
func isConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	// A cancelled or timed out request never reached a verdict from the server.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || unavailableCodes[pgErr.Code]
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return pgconn.Timeout(err)
}

// readError maps a failed read to ResourceNotFound, or StorageUnavailable when
// the database could not be reached.
func readError(msg string, err error) error {
	if isConnectivityError(err) {
		return financeErrors.NewStorageUnavailableError(msg, err)
	}
	return financeErrors.NewResourceNotFoundError(msg, err)
}

// writeError maps a failed write to BadRequest, or StorageUnavailable when
// the database could not be reached.
func writeError(msg string, err error) error {
	if isConnectivityError(err) {
		return financeErrors.NewStorageUnavailableError(msg, err)
	}
	return financeErrors.NewBadRequestError(msg, err)
}
