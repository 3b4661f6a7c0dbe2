package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
)

// errQuantityLimit is returned when a line would exceed domain.MaxQuantity.
var errQuantityLimit = fmt.Errorf(
	"quantity exceeds %d: %w", domain.MaxQuantity, domain.ErrInvalidRequest,
)

type sqldb interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}
