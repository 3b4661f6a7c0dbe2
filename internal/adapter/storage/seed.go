package storage

import (
	"context"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

// CatalogFixture returns the grocery catalog loaded into an empty store.
// IDs are left empty and assigned on insert.
func CatalogFixture() []domain.Product {
	return []domain.Product{
		{
			Name:        "Fresh Red Apples",
			Description: "Crisp and sweet organic apples, perfect for snacking or baking",
			Price:       decimal.RequireFromString("3.99"),
			Category:    "Fruits",
			Image:       "/generated_images/Fresh_red_apples_31cad875.png",
			Unit:        "lb",
			InStock:     150,
		},
		{
			Name:        "Organic Bananas",
			Description: "Naturally ripened bananas, rich in potassium and fiber",
			Price:       decimal.RequireFromString("2.49"),
			Category:    "Fruits",
			Image:       "/generated_images/Fresh_yellow_bananas_41c4417c.png",
			Unit:        "lb",
			InStock:     200,
		},
		{
			Name:        "Fresh Broccoli",
			Description: "Farm-fresh broccoli crowns, packed with vitamins and nutrients",
			Price:       decimal.RequireFromString("2.99"),
			Category:    "Vegetables",
			Image:       "/generated_images/Fresh_green_broccoli_d4f900ea.png",
			Unit:        "lb",
			InStock:     100,
		},
		{
			Name:        "Organic Carrots",
			Description: "Sweet and crunchy carrots, great for snacking or cooking",
			Price:       decimal.RequireFromString("1.99"),
			Category:    "Vegetables",
			Image:       "/generated_images/Fresh_orange_carrots_e4368fc1.png",
			Unit:        "lb",
			InStock:     180,
		},
		{
			Name:        "Fresh Whole Milk",
			Description: "Farm-fresh whole milk, rich and creamy",
			Price:       decimal.RequireFromString("4.99"),
			Category:    "Dairy",
			Image:       "/generated_images/Fresh_dairy_products_27b2da11.png",
			Unit:        "gallon",
			InStock:     75,
		},
		{
			Name:        "Greek Yogurt",
			Description: "Creamy Greek yogurt, high in protein and probiotics",
			Price:       decimal.RequireFromString("5.99"),
			Category:    "Dairy",
			Image:       "/generated_images/Fresh_dairy_products_27b2da11.png",
			Unit:        "32oz",
			InStock:     120,
		},
		{
			Name:        "Artisan Sourdough Bread",
			Description: "Freshly baked sourdough with a crispy crust and soft interior",
			Price:       decimal.RequireFromString("6.99"),
			Category:    "Bakery",
			Image:       "/generated_images/Fresh_bakery_bread_ad44bb5a.png",
			Unit:        "loaf",
			InStock:     50,
		},
		{
			Name:        "Whole Wheat Bread",
			Description: "Nutritious whole wheat bread, perfect for sandwiches",
			Price:       decimal.RequireFromString("4.49"),
			Category:    "Bakery",
			Image:       "/generated_images/Fresh_bakery_bread_ad44bb5a.png",
			Unit:        "loaf",
			InStock:     80,
		},
		{
			Name:        "Fresh Strawberries",
			Description: "Sweet and juicy strawberries, locally grown",
			Price:       decimal.RequireFromString("5.99"),
			Category:    "Fruits",
			Image:       "/generated_images/Fresh_fruits_category_a491df4e.png",
			Unit:        "lb",
			InStock:     90,
		},
		{
			Name:        "Blueberries",
			Description: "Plump and flavorful blueberries, rich in antioxidants",
			Price:       decimal.RequireFromString("6.99"),
			Category:    "Fruits",
			Image:       "/generated_images/Fresh_fruits_category_a491df4e.png",
			Unit:        "pint",
			InStock:     110,
		},
		{
			Name:        "Cherry Tomatoes",
			Description: "Sweet cherry tomatoes, perfect for salads and snacking",
			Price:       decimal.RequireFromString("3.49"),
			Category:    "Vegetables",
			Image:       "/generated_images/Fresh_vegetables_category_92dc0b00.png",
			Unit:        "lb",
			InStock:     130,
		},
		{
			Name:        "Organic Spinach",
			Description: "Fresh organic spinach leaves, nutrient-dense and versatile",
			Price:       decimal.RequireFromString("3.99"),
			Category:    "Vegetables",
			Image:       "/generated_images/Fresh_vegetables_category_92dc0b00.png",
			Unit:        "bunch",
			InStock:     95,
		},
		{
			Name:        "Sharp Cheddar Cheese",
			Description: "Aged cheddar cheese with a bold, tangy flavor",
			Price:       decimal.RequireFromString("7.99"),
			Category:    "Dairy",
			Image:       "/generated_images/Dairy_products_category_4c0e7657.png",
			Unit:        "8oz",
			InStock:     85,
		},
		{
			Name:        "Organic Eggs",
			Description: "Farm-fresh organic eggs from free-range chickens",
			Price:       decimal.RequireFromString("5.49"),
			Category:    "Dairy",
			Image:       "/generated_images/Dairy_products_category_4c0e7657.png",
			Unit:        "dozen",
			InStock:     140,
		},
		{
			Name:        "Croissants",
			Description: "Buttery and flaky French croissants, freshly baked daily",
			Price:       decimal.RequireFromString("8.99"),
			Category:    "Bakery",
			Image:       "/generated_images/Fresh_bakery_bread_ad44bb5a.png",
			Unit:        "6-pack",
			InStock:     60,
		},
		{
			Name:        "Bagels Variety Pack",
			Description: "Assorted bagels including plain, sesame, and everything",
			Price:       decimal.RequireFromString("5.99"),
			Category:    "Bakery",
			Image:       "/generated_images/Fresh_bakery_bread_ad44bb5a.png",
			Unit:        "6-pack",
			InStock:     70,
		},
		{
			Name:        "Red Bell Peppers",
			Description: "Crunchy sweet bell peppers, great raw or roasted",
			Price:       decimal.RequireFromString("4.29"),
			Category:    "Vegetables",
			Image:       "/generated_images/Fresh_vegetables_category_92dc0b00.png",
			Unit:        "lb",
			InStock:     65,
		},
	}
}

// SeedCatalog loads [CatalogFixture] once, it is a no-op on a non-empty
// catalog.
func SeedCatalog(ctx context.Context, s port.CatalogSeeder) (int, error) {
	const op = "SeedCatalog"

	n, err := s.SeedProducts(ctx, CatalogFixture())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
