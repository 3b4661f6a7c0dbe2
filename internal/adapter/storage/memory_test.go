package storage

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCatalog(t *testing.T) {
	t.Run("ListAllKeepsOrder", func(t *testing.T) {
		ps := testProducts()
		c := NewMemoryCatalog(ps...)

		got, err := c.ListAll(t.Context())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ps[0].ID, got[0].ID)
		assert.Equal(t, ps[1].ID, got[1].ID)

		got[0].Name = "changed"
		again, err := c.ListAll(t.Context())
		require.NoError(t, err)
		assert.Equal(t, ps[0].Name, again[0].Name)
	})

	t.Run("Get", func(t *testing.T) {
		ps := testProducts()
		c := NewMemoryCatalog(ps...)

		p, ok, err := c.Get(t.Context(), ps[1].ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, ps[1].Name, p.Name)

		_, ok, err = c.Get(t.Context(), "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSeedCatalog(t *testing.T) {
	t.Run("EmptyCatalog", func(t *testing.T) {
		c := NewMemoryCatalog()

		n, err := SeedCatalog(t.Context(), c)
		require.NoError(t, err)
		assert.Equal(t, 17, n)

		ps, err := c.ListAll(t.Context())
		require.NoError(t, err)
		require.Len(t, ps, 17)

		ids := make(map[string]struct{}, len(ps))
		for _, p := range ps {
			assert.NotEmpty(t, p.ID)
			ids[p.ID] = struct{}{}
		}
		assert.Len(t, ids, 17)

		assert.ElementsMatch(t,
			[]string{"Fruits", "Vegetables", "Dairy", "Bakery"},
			domain.Categories(ps),
		)
	})

	t.Run("SeedsOnce", func(t *testing.T) {
		c := NewMemoryCatalog()

		_, err := SeedCatalog(t.Context(), c)
		require.NoError(t, err)

		n, err := SeedCatalog(t.Context(), c)
		require.NoError(t, err)
		assert.Zero(t, n)

		ps, err := c.ListAll(t.Context())
		require.NoError(t, err)
		assert.Len(t, ps, 17)
	})

	t.Run("NonEmptyCatalog", func(t *testing.T) {
		c := NewMemoryCatalog(testProducts()...)

		n, err := SeedCatalog(t.Context(), c)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestCatalogFixturePrices(t *testing.T) {
	for _, p := range CatalogFixture() {
		assert.True(t, p.Price.IsPositive(), p.Name)
		assert.Equal(t, int32(-2), p.Price.Exponent(), p.Name)
		assert.Positive(t, p.InStock, p.Name)
	}
}
