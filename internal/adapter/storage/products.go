package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.Catalog = (*ProductsRepository)(nil)
var _ port.CatalogSeeder = (*ProductsRepository)(nil)

const productColumns = `
	p.id, p.name, p.description, p.price, p.category,
	p.image, p.unit, p.in_stock`

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductsRepository.ListAll"

	query := `SELECT ` + productColumns + ` FROM products p ORDER BY p.seq;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ps := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) Get(
	ctx context.Context, productID string,
) (domain.Product, bool, error) {
	const op = "ProductsRepository.Get"

	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1;`

	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, false, nil
		}
		return domain.Product{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return p, true, nil
}

// SeedProducts inserts ps when the products table is empty and reports how
// many rows were inserted.
//
// Products without an ID get a new UUID.
func (r ProductsRepository) SeedProducts(
	ctx context.Context, ps []domain.Product,
) (inserted int, seedErr error) {
	const op = "ProductsRepository.SeedProducts"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if seedErr == nil {
			if err := tx.Commit(); err != nil {
				inserted = 0
				seedErr = fmt.Errorf("%s: failed to commit %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	// concurrent seeders must not both observe an empty table
	_, err = tx.ExecContext(ctx, `LOCK TABLE products IN SHARE ROW EXCLUSIVE MODE;`)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to lock table: %w", op, err)
	}

	var count int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count: %w", op, err)
	}
	if count != 0 {
		return 0, nil
	}

	query := `
		INSERT INTO products (
			id, name, description, price, category, image, unit, in_stock
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, p := range ps {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		_, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Description, p.Price, p.Category,
			p.Image, p.Unit, p.InStock,
		)
		if err != nil {
			return 0, fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return len(ps), nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Image, &p.Unit, &p.InStock,
	)
	return p, err
}
