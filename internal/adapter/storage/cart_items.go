package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartStore = (*CartItemsRepository)(nil)

// A CartItemsRepository is the PostgreSQL cart store.
//
// Each operation is a single statement, merge-on-add relies on the
// (product_id, owner_id) unique index.
type CartItemsRepository struct {
	sqldb sqldb
}

func NewCartItemsRepository(sqldb sqldb) CartItemsRepository {
	return CartItemsRepository{sqldb}
}

func (r CartItemsRepository) List(
	ctx context.Context, owner string,
) ([]domain.CartItemWithProduct, error) {
	const op = "CartItemsRepository.List"

	query := `
		SELECT ci.id, ci.product_id, ci.quantity, ci.owner_id,` + productColumns + `
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE $1::text = '' OR ci.owner_id = $1
		ORDER BY ci.seq;`

	rows, err := r.sqldb.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]domain.CartItemWithProduct, 0)
	for rows.Next() {
		var v domain.CartItemWithProduct
		p := &v.Product
		err := rows.Scan(
			&v.ID, &v.ProductID, &v.Quantity, &v.Owner,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
			&p.Image, &p.Unit, &p.InStock,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (r CartItemsRepository) Add(
	ctx context.Context, owner, productID string, quantity int,
) (domain.CartItem, error) {
	const op = "CartItemsRepository.Add"

	if quantity <= 0 {
		quantity = 1
	}
	if quantity > domain.MaxQuantity {
		return domain.CartItem{}, fmt.Errorf("%s: %w", op, errQuantityLimit)
	}

	// A merge past the limit updates nothing and returns no row.
	query := `
		INSERT INTO cart_items (id, product_id, quantity, owner_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, owner_id) DO UPDATE SET
			quantity = cart_items.quantity + EXCLUDED.quantity
		WHERE cart_items.quantity::bigint + EXCLUDED.quantity <= $5
		RETURNING id, product_id, quantity, owner_id;`

	row := r.sqldb.QueryRowContext(
		ctx, query, uuid.NewString(), productID, quantity, owner,
		int64(domain.MaxQuantity),
	)
	v, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartItem{}, fmt.Errorf("%s: %w", op, errQuantityLimit)
		}
		return domain.CartItem{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (r CartItemsRepository) Update(
	ctx context.Context, owner, productID string, quantity int,
) (domain.CartItem, bool, error) {
	const op = "CartItemsRepository.Update"

	if quantity <= 0 {
		if _, err := r.Remove(ctx, owner, productID); err != nil {
			return domain.CartItem{}, false, fmt.Errorf("%s: %w", op, err)
		}
		return domain.CartItem{}, false, nil
	}

	if quantity > domain.MaxQuantity {
		return domain.CartItem{}, false, fmt.Errorf("%s: %w", op, errQuantityLimit)
	}

	query := `
		UPDATE cart_items SET quantity = $3
		WHERE product_id = $1 AND owner_id = $2
		RETURNING id, product_id, quantity, owner_id;`

	row := r.sqldb.QueryRowContext(ctx, query, productID, owner, quantity)
	v, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartItem{}, false, nil
		}
		return domain.CartItem{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return v, true, nil
}

func (r CartItemsRepository) Remove(
	ctx context.Context, owner, productID string,
) (bool, error) {
	const op = "CartItemsRepository.Remove"

	query := `DELETE FROM cart_items WHERE product_id = $1 AND owner_id = $2;`

	res, err := r.sqldb.ExecContext(ctx, query, productID, owner)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

func (r CartItemsRepository) Clear(ctx context.Context, owner string) error {
	const op = "CartItemsRepository.Clear"

	query := `DELETE FROM cart_items WHERE $1::text = '' OR owner_id = $1;`

	if _, err := r.sqldb.ExecContext(ctx, query, owner); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanCartItem(row rowScanner) (domain.CartItem, error) {
	var v domain.CartItem
	err := row.Scan(&v.ID, &v.ProductID, &v.Quantity, &v.Owner)
	return v, err
}
