package domain

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRequest   = errors.New("invalid request data")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrUnavailable      = errors.New("unavailable")
)

// MaxQuantity bounds a cart line quantity, it matches the INTEGER column of
// the SQL store.
const MaxQuantity = math.MaxInt32

// DefaultTaxRate is the flat tax rate applied to a cart subtotal.
var DefaultTaxRate = decimal.NewFromFloat(0.08)

// A CartItem is a single line of a cart.
//
// Owner scopes the line to a session, empty Owner is the shared cart.
type CartItem struct {
	ID        string
	ProductID string
	Quantity  int
	Owner     string
}

// A CartItemWithProduct is a read model joining a line with its product.
type CartItemWithProduct struct {
	CartItem
	Product Product
}

func (i CartItemWithProduct) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// An AddCartItem is the add-to-cart request payload.
//
// Nil Quantity means one unit.
type AddCartItem struct {
	ProductID string
	Quantity  *int
}

type CartSummary struct {
	Items     []CartItemWithProduct
	ItemCount int
	Subtotal  decimal.Decimal
	TaxRate   decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// Summarize computes cart totals with a flat tax rate.
//
// Tax is rounded half away from zero to cents before it is added to the total.
func Summarize(items []CartItemWithProduct, taxRate decimal.Decimal) CartSummary {
	s := CartSummary{
		Items:    items,
		Subtotal: decimal.Zero,
		TaxRate:  taxRate,
	}
	for _, item := range items {
		s.ItemCount += item.Quantity
		s.Subtotal = s.Subtotal.Add(item.LineTotal())
	}
	s.Tax = s.Subtotal.Mul(taxRate).Round(2)
	s.Total = s.Subtotal.Add(s.Tax)
	return s
}

type CartEventType string

const (
	CartItemAdded   CartEventType = "item_added"
	CartItemUpdated CartEventType = "item_updated"
	CartItemRemoved CartEventType = "item_removed"
	CartCleared     CartEventType = "cart_cleared"
)

// A CartEvent describes a completed cart mutation.
//
// Quantity is the line quantity after the mutation and Delta the requested
// change, both are zero for removals and clears.
type CartEvent struct {
	Type       CartEventType
	Owner      string
	ProductID  string
	Quantity   int
	Delta      int
	OccurredAt time.Time
}

// A ProductPopularity is the number of units added to carts for a product.
type ProductPopularity struct {
	ProductID  string
	AddedUnits int64
}
