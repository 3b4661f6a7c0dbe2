package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.ProductsReader = (*Service)(nil)
var _ port.CartManager = (*Service)(nil)
var _ port.PopularityReader = (*Service)(nil)

// DefaultEventTimeout bounds a single cart event publish.
const DefaultEventTimeout = 5 * time.Second

// A Service is the boundary between transports and the cart and catalog
// stores.
//
// It checks request shape first, product existence second and only then
// touches the cart store.
type Service struct {
	catalog    port.Catalog
	cart       port.CartStore
	events     port.CartEventsProducer
	popularity port.PopularityView
	taxRate    decimal.Decimal
	now        func() time.Time

	eventTimeout time.Duration
	pending      *sync.WaitGroup
}

// New returns a [Service].
//
// events and popularity are optional, nil disables cart events and
// popularity reads.
func New(
	catalog port.Catalog,
	cart port.CartStore,
	events port.CartEventsProducer,
	popularity port.PopularityView,
	taxRate decimal.Decimal,
) Service {
	return Service{
		catalog:    catalog,
		cart:       cart,
		events:     events,
		popularity: popularity,
		taxRate:    taxRate,
		now:        time.Now,

		eventTimeout: DefaultEventTimeout,
		pending:      new(sync.WaitGroup),
	}
}

// Wait blocks until every cart event in flight is published or dropped.
func (s Service) Wait() {
	s.pending.Wait()
}

func (s Service) ListProducts(
	ctx context.Context, f domain.ProductFilter,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	ps, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if f == (domain.ProductFilter{}) {
		return ps, nil
	}

	filtered := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if f.Match(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s Service) GetProduct(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "Service.GetProduct"

	p, ok, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	return p, nil
}

func (s Service) ListCategories(ctx context.Context) ([]string, error) {
	const op = "Service.ListCategories"

	ps, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.Categories(ps), nil
}

func (s Service) ListCart(
	ctx context.Context, owner string,
) ([]domain.CartItemWithProduct, error) {
	const op = "Service.ListCart"

	items, err := s.cart.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (s Service) CartSummary(
	ctx context.Context, owner string,
) (domain.CartSummary, error) {
	const op = "Service.CartSummary"

	items, err := s.cart.List(ctx, owner)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.Summarize(items, s.taxRate), nil
}

func (s Service) AddToCart(
	ctx context.Context, owner string, in domain.AddCartItem,
) (domain.CartItem, error) {
	const op = "Service.AddToCart"

	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return domain.CartItem{}, fmt.Errorf(
			"%s: product id is required: %w", op, domain.ErrInvalidRequest,
		)
	}

	quantity := 1
	if in.Quantity != nil {
		if *in.Quantity <= 0 || *in.Quantity > domain.MaxQuantity {
			return domain.CartItem{}, fmt.Errorf(
				"%s: quantity out of range: %w", op, domain.ErrInvalidRequest,
			)
		}
		quantity = *in.Quantity
	}

	_, ok, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return domain.CartItem{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}

	item, err := s.cart.Add(ctx, owner, productID, quantity)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("%s: %w", op, err)
	}

	s.notify(ctx, domain.CartEvent{
		Type:      domain.CartItemAdded,
		Owner:     owner,
		ProductID: productID,
		Quantity:  item.Quantity,
		Delta:     quantity,
	})
	return item, nil
}

// UpdateCartItem sets the exact quantity of a cart line.
//
// Zero quantity removes the line, in that case the returned flag is false and
// the item is zero.
func (s Service) UpdateCartItem(
	ctx context.Context, owner, productID string, quantity *int,
) (domain.CartItem, bool, error) {
	const op = "Service.UpdateCartItem"

	if quantity == nil || *quantity < 0 || *quantity > domain.MaxQuantity {
		return domain.CartItem{}, false, fmt.Errorf(
			"%s: invalid quantity: %w", op, domain.ErrInvalidRequest,
		)
	}

	if *quantity == 0 {
		if err := s.RemoveCartItem(ctx, owner, productID); err != nil {
			return domain.CartItem{}, false, fmt.Errorf("%s: %w", op, err)
		}
		return domain.CartItem{}, false, nil
	}

	item, ok, err := s.cart.Update(ctx, owner, productID, *quantity)
	if err != nil {
		return domain.CartItem{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return domain.CartItem{}, false, fmt.Errorf(
			"%s: %w", op, domain.ErrCartItemNotFound,
		)
	}

	s.notify(ctx, domain.CartEvent{
		Type:      domain.CartItemUpdated,
		Owner:     owner,
		ProductID: productID,
		Quantity:  item.Quantity,
	})
	return item, true, nil
}

func (s Service) RemoveCartItem(
	ctx context.Context, owner, productID string,
) error {
	const op = "Service.RemoveCartItem"

	removed, err := s.cart.Remove(ctx, owner, productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !removed {
		return fmt.Errorf("%s: %w", op, domain.ErrCartItemNotFound)
	}

	s.notify(ctx, domain.CartEvent{
		Type:      domain.CartItemRemoved,
		Owner:     owner,
		ProductID: productID,
	})
	return nil
}

func (s Service) ClearCart(ctx context.Context, owner string) error {
	const op = "Service.ClearCart"

	if err := s.cart.Clear(ctx, owner); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notify(ctx, domain.CartEvent{Type: domain.CartCleared, Owner: owner})
	return nil
}

func (s Service) ProductPopularity(
	ctx context.Context, productID string,
) (domain.ProductPopularity, error) {
	const op = "Service.ProductPopularity"

	if s.popularity == nil {
		return domain.ProductPopularity{}, fmt.Errorf(
			"%s: popularity view is disabled: %w", op, domain.ErrUnavailable,
		)
	}

	if _, err := s.GetProduct(ctx, productID); err != nil {
		return domain.ProductPopularity{}, fmt.Errorf("%s: %w", op, err)
	}

	n, err := s.popularity.AddedUnits(productID)
	if err != nil {
		return domain.ProductPopularity{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.ProductPopularity{ProductID: productID, AddedUnits: n}, nil
}

// notify publishes a cart event in the background. The mutation is already
// applied, so a failed publish is only logged.
//
// The publish outlives the request context and is bounded by eventTimeout.
func (s Service) notify(ctx context.Context, evt domain.CartEvent) {
	const op = "Service.notify"

	if s.events == nil {
		return
	}

	evt.OccurredAt = s.now()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.eventTimeout)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()

		if err := s.events.ProduceCartEvents(ctx, evt); err != nil {
			slog.Warn(
				"failed to produce cart event",
				"op", op, "type", evt.Type, "productID", evt.ProductID, "err", err,
			)
		}
	}()
}
