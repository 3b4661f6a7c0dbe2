package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartItemWithProductLineTotal(t *testing.T) {
	item := CartItemWithProduct{
		CartItem: CartItem{ID: "c1", ProductID: "p1", Quantity: 2},
		Product:  Product{ID: "p1", Price: decimal.RequireFromString("3.99")},
	}
	assert.Equal(t, "7.98", item.LineTotal().StringFixed(2))
}

func TestSummarize(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		s := Summarize(nil, DefaultTaxRate)
		assert.Equal(t, 0, s.ItemCount)
		assert.True(t, s.Subtotal.IsZero())
		assert.True(t, s.Tax.IsZero())
		assert.True(t, s.Total.IsZero())
	})

	t.Run("FlatRate", func(t *testing.T) {
		items := []CartItemWithProduct{
			{
				CartItem: CartItem{ProductID: "p1", Quantity: 2},
				Product:  Product{ID: "p1", Price: decimal.RequireFromString("3.99")},
			},
			{
				CartItem: CartItem{ProductID: "p2", Quantity: 1},
				Product:  Product{ID: "p2", Price: decimal.RequireFromString("2.49")},
			},
		}

		s := Summarize(items, DefaultTaxRate)
		assert.Equal(t, 3, s.ItemCount)
		assert.Equal(t, "10.47", s.Subtotal.StringFixed(2))
		// 10.47 * 0.08 = 0.8376
		assert.Equal(t, "0.84", s.Tax.StringFixed(2))
		assert.Equal(t, "11.31", s.Total.StringFixed(2))
	})

	t.Run("ZeroRate", func(t *testing.T) {
		items := []CartItemWithProduct{
			{
				CartItem: CartItem{ProductID: "p1", Quantity: 3},
				Product:  Product{ID: "p1", Price: decimal.RequireFromString("1.99")},
			},
		}
		s := Summarize(items, decimal.Zero)
		assert.Equal(t, "5.97", s.Total.StringFixed(2))
	})
}

func TestProductFilter(t *testing.T) {
	apples := Product{Name: "Fresh Red Apples", Description: "Crisp", Category: "Fruits"}
	milk := Product{Name: "Fresh Whole Milk", Description: "Rich and creamy", Category: "Dairy"}

	testCases := []struct {
		name   string
		filter ProductFilter
		want   []bool
	}{
		{"Empty", ProductFilter{}, []bool{true, true}},
		{"Category", ProductFilter{Category: "Dairy"}, []bool{false, true}},
		{"SearchName", ProductFilter{Search: "APPLE"}, []bool{true, false}},
		{"SearchDescription", ProductFilter{Search: "creamy"}, []bool{false, true}},
		{"CategoryAndSearch", ProductFilter{Category: "Fruits", Search: "milk"}, []bool{false, false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want[0], tc.filter.Match(apples))
			assert.Equal(t, tc.want[1], tc.filter.Match(milk))
		})
	}
}

func TestCategories(t *testing.T) {
	ps := []Product{
		{Category: "Fruits"}, {Category: "Dairy"}, {Category: "Fruits"}, {Category: "Bakery"},
	}
	assert.Equal(t, []string{"Fruits", "Dairy", "Bakery"}, Categories(ps))
	assert.Empty(t, Categories(nil))
}
