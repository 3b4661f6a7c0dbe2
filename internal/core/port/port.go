package port

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// A Catalog is read-only access to products.
type Catalog interface {
	ListAll(context.Context) ([]domain.Product, error)
	Get(ctx context.Context, productID string) (domain.Product, bool, error)
}

// A CatalogSeeder loads products into an empty catalog.
type CatalogSeeder interface {
	SeedProducts(context.Context, []domain.Product) (int, error)
}

// A CartStore owns quantity-per-product state of carts.
//
// Empty owner lists or clears every cart, for other operations it is the
// shared cart. Only storage failures are returned as errors.
type CartStore interface {
	List(ctx context.Context, owner string) ([]domain.CartItemWithProduct, error)
	Add(ctx context.Context, owner, productID string, quantity int) (domain.CartItem, error)
	Update(ctx context.Context, owner, productID string, quantity int) (domain.CartItem, bool, error)
	Remove(ctx context.Context, owner, productID string) (bool, error)
	Clear(ctx context.Context, owner string) error
}

type ProductsReader interface {
	ListProducts(context.Context, domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListCategories(context.Context) ([]string, error)
}

type CartManager interface {
	ListCart(ctx context.Context, owner string) ([]domain.CartItemWithProduct, error)
	CartSummary(ctx context.Context, owner string) (domain.CartSummary, error)
	AddToCart(ctx context.Context, owner string, in domain.AddCartItem) (domain.CartItem, error)
	UpdateCartItem(ctx context.Context, owner, productID string, quantity *int) (domain.CartItem, bool, error)
	RemoveCartItem(ctx context.Context, owner, productID string) error
	ClearCart(ctx context.Context, owner string) error
}

type PopularityReader interface {
	ProductPopularity(ctx context.Context, productID string) (domain.ProductPopularity, error)
}

type CartEventsProducer interface {
	ProduceCartEvents(context.Context, ...domain.CartEvent) error
}

type PopularityView interface {
	AddedUnits(productID string) (int64, error)
}

type ProductPopularityProcessor interface {
	runnerContextWg
	closer
}
