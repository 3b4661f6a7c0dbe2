package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.Catalog = (*MemoryCatalog)(nil)
var _ port.CatalogSeeder = (*MemoryCatalog)(nil)
var _ port.CartStore = (*MemoryCart)(nil)

// A MemoryCatalog keeps products in insertion order.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int
}

func NewMemoryCatalog(ps ...domain.Product) *MemoryCatalog {
	c := &MemoryCatalog{index: make(map[string]int, len(ps))}
	c.insert(ps)
	return c
}

func (c *MemoryCatalog) ListAll(ctx context.Context) ([]domain.Product, error) {
	const op = "MemoryCatalog.ListAll"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products), nil
}

func (c *MemoryCatalog) Get(
	ctx context.Context, productID string,
) (domain.Product, bool, error) {
	const op = "MemoryCatalog.Get"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, false, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[productID]
	if !ok {
		return domain.Product{}, false, nil
	}
	return c.products[i], true, nil
}

func (c *MemoryCatalog) SeedProducts(
	ctx context.Context, ps []domain.Product,
) (int, error) {
	const op = "MemoryCatalog.SeedProducts"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.products) != 0 {
		return 0, nil
	}
	c.insert(ps)
	return len(ps), nil
}

func (c *MemoryCatalog) insert(ps []domain.Product) {
	for _, p := range ps {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
}

type cartKey struct {
	owner     string
	productID string
}

// A MemoryCart is the in-process cart store.
//
// One mutex serializes every operation, so merge-on-add never races.
type MemoryCart struct {
	mu      sync.Mutex
	catalog port.Catalog
	items   map[string]domain.CartItem
	keys    map[cartKey]string
	order   []string
	newID   func() string
}

func NewMemoryCart(catalog port.Catalog) *MemoryCart {
	return &MemoryCart{
		catalog: catalog,
		items:   make(map[string]domain.CartItem),
		keys:    make(map[cartKey]string),
		newID:   uuid.NewString,
	}
}

// List joins the owner's lines with the catalog.
//
// Lines whose product is gone are skipped.
func (c *MemoryCart) List(
	ctx context.Context, owner string,
) ([]domain.CartItemWithProduct, error) {
	const op = "MemoryCart.List"

	snapshot := c.snapshot(owner)

	items := make([]domain.CartItemWithProduct, 0, len(snapshot))
	for _, item := range snapshot {
		p, ok, err := c.catalog.Get(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			continue
		}
		items = append(items, domain.CartItemWithProduct{CartItem: item, Product: p})
	}
	return items, nil
}

func (c *MemoryCart) Add(
	ctx context.Context, owner, productID string, quantity int,
) (domain.CartItem, error) {
	const op = "MemoryCart.Add"

	if err := ctx.Err(); err != nil {
		return domain.CartItem{}, fmt.Errorf("%s: %w", op, err)
	}

	if quantity <= 0 {
		quantity = 1
	}
	if quantity > domain.MaxQuantity {
		return domain.CartItem{}, fmt.Errorf("%s: %w", op, errQuantityLimit)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cartKey{owner, productID}
	if id, ok := c.keys[key]; ok {
		item := c.items[id]
		if item.Quantity > domain.MaxQuantity-quantity {
			return domain.CartItem{}, fmt.Errorf("%s: %w", op, errQuantityLimit)
		}
		item.Quantity += quantity
		c.items[id] = item
		return item, nil
	}

	item := domain.CartItem{
		ID:        c.newID(),
		ProductID: productID,
		Quantity:  quantity,
		Owner:     owner,
	}
	c.items[item.ID] = item
	c.keys[key] = item.ID
	c.order = append(c.order, item.ID)
	return item, nil
}

func (c *MemoryCart) Update(
	ctx context.Context, owner, productID string, quantity int,
) (domain.CartItem, bool, error) {
	const op = "MemoryCart.Update"

	if err := ctx.Err(); err != nil {
		return domain.CartItem{}, false, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cartKey{owner, productID}
	id, ok := c.keys[key]
	if !ok {
		return domain.CartItem{}, false, nil
	}

	if quantity <= 0 {
		c.delete(key, id)
		return domain.CartItem{}, false, nil
	}
	if quantity > domain.MaxQuantity {
		return domain.CartItem{}, false, fmt.Errorf("%s: %w", op, errQuantityLimit)
	}

	item := c.items[id]
	item.Quantity = quantity
	c.items[id] = item
	return item, true, nil
}

func (c *MemoryCart) Remove(
	ctx context.Context, owner, productID string,
) (bool, error) {
	const op = "MemoryCart.Remove"

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cartKey{owner, productID}
	id, ok := c.keys[key]
	if !ok {
		return false, nil
	}
	c.delete(key, id)
	return true, nil
}

func (c *MemoryCart) Clear(ctx context.Context, owner string) error {
	const op = "MemoryCart.Clear"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if owner == "" {
		clear(c.items)
		clear(c.keys)
		c.order = nil
		return nil
	}

	c.order = slices.DeleteFunc(c.order, func(id string) bool {
		item := c.items[id]
		if item.Owner != owner {
			return false
		}
		delete(c.items, id)
		delete(c.keys, cartKey{item.Owner, item.ProductID})
		return true
	})
	return nil
}

func (c *MemoryCart) snapshot(owner string) []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.CartItem, 0, len(c.order))
	for _, id := range c.order {
		item := c.items[id]
		if owner == "" || item.Owner == owner {
			items = append(items, item)
		}
	}
	return items
}

// delete must be called with mu held.
func (c *MemoryCart) delete(key cartKey, id string) {
	delete(c.items, id)
	delete(c.keys, key)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
}
