package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// A Product is a catalog entry available for purchase.
//
// Products are immutable for the lifetime of a cart session.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
	Unit        string
	InStock     int
}

// A ProductFilter narrows the catalog listing.
//
// Zero value matches every product.
type ProductFilter struct {
	Category string
	Search   string
}

func (f ProductFilter) Match(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// Categories returns distinct product categories in first-seen order.
func Categories(ps []Product) []string {
	seen := make(map[string]struct{}, len(ps))
	categories := make([]string, 0)
	for _, p := range ps {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}
