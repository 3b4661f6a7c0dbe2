package httphandler

import "github.com/niksmo/storefront/internal/core/domain"

// Money is rendered as fixed two-decimal strings.
type (
	Product struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Price       string `json:"price"`
		Category    string `json:"category"`
		Image       string `json:"image"`
		Unit        string `json:"unit"`
		InStock     int    `json:"inStock"`
	}

	CartItem struct {
		ID        string `json:"id"`
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}

	CartItemWithProduct struct {
		CartItem
		Product Product `json:"product"`
	}

	CartSummary struct {
		Items     []CartItemWithProduct `json:"items"`
		ItemCount int                   `json:"itemCount"`
		Subtotal  string                `json:"subtotal"`
		TaxRate   string                `json:"taxRate"`
		Tax       string                `json:"tax"`
		Total     string                `json:"total"`
	}

	ProductPopularity struct {
		ProductID  string `json:"productId"`
		AddedUnits int64  `json:"addedUnits"`
	}

	AddCartItemRequest struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}

	UpdateCartItemRequest struct {
		Quantity *int `json:"quantity"`
	}

	ErrorResponse struct {
		Error string `json:"error"`
	}
)

func fromDomainProduct(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Category:    p.Category,
		Image:       p.Image,
		Unit:        p.Unit,
		InStock:     p.InStock,
	}
}

func fromDomainProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = fromDomainProduct(p)
	}
	return out
}

func fromDomainCartItem(v domain.CartItem) CartItem {
	return CartItem{
		ID:        v.ID,
		ProductID: v.ProductID,
		Quantity:  v.Quantity,
	}
}

func fromDomainCartItems(vs []domain.CartItemWithProduct) []CartItemWithProduct {
	out := make([]CartItemWithProduct, len(vs))
	for i, v := range vs {
		out[i] = CartItemWithProduct{
			CartItem: fromDomainCartItem(v.CartItem),
			Product:  fromDomainProduct(v.Product),
		}
	}
	return out
}

func fromDomainSummary(s domain.CartSummary) CartSummary {
	return CartSummary{
		Items:     fromDomainCartItems(s.Items),
		ItemCount: s.ItemCount,
		Subtotal:  s.Subtotal.StringFixed(2),
		TaxRate:   s.TaxRate.String(),
		Tax:       s.Tax.StringFixed(2),
		Total:     s.Total.StringFixed(2),
	}
}
