package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/tester"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCartEventsTopic = "cart-events"
	testPopularityGroup = "product-popularity"
)

func TestCartEventCodec(t *testing.T) {
	c := newCartEventCodec(newAvroSerde())

	t.Run("RoundTrip", func(t *testing.T) {
		v := schema.CartEventV1{
			Type: "item_added", Owner: "o", ProductID: "p1",
			Quantity: 1, Delta: 1, OccurredAt: occurredAt,
		}
		b, err := c.Encode(v)
		require.NoError(t, err)

		got, err := c.Decode(b)
		require.NoError(t, err)
		decoded, ok := got.(schema.CartEventV1)
		require.True(t, ok)
		assert.Equal(t, v.ProductID, decoded.ProductID)
		assert.Equal(t, v.Delta, decoded.Delta)
	})

	t.Run("InvalidType", func(t *testing.T) {
		_, err := c.Encode("item_added")
		assert.ErrorIs(t, err, ErrInvalidValueType)
	})

	t.Run("InvalidData", func(t *testing.T) {
		_, err := c.Decode([]byte{0xff})
		assert.Error(t, err)
	})
}

func TestProductPopularity(t *testing.T) {
	gkt := tester.New(t)

	proc, err := NewProductPopularityProc(
		nil, testCartEventsTopic, testPopularityGroup, newAvroSerde(),
		goka.WithTester(gkt),
	)
	require.NoError(t, err)

	view, err := NewProductPopularityView(
		nil, testPopularityGroup, goka.WithViewTester(gkt),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	proc.Run(ctx, cancel, &wg)
	view.Run(ctx, cancel, &wg)
	wg.Wait()

	event := func(typ, productID string, delta int) schema.CartEventV1 {
		return schema.CartEventV1{
			Type: typ, Owner: "o", ProductID: productID,
			Delta: delta, OccurredAt: occurredAt,
		}
	}

	gkt.Consume(testCartEventsTopic, "p1", event("item_added", "p1", 2))
	gkt.Consume(testCartEventsTopic, "p1", event("item_added", "p1", 3))
	gkt.Consume(testCartEventsTopic, "p1", event("item_updated", "p1", 10))
	gkt.Consume(testCartEventsTopic, "p1", event("item_removed", "p1", 0))
	gkt.Consume(testCartEventsTopic, "p2", event("item_added", "p2", 1))
	gkt.Consume(testCartEventsTopic, "o", event("cart_cleared", "", 0))

	table := goka.GroupTable(goka.Group(testPopularityGroup))
	assert.Equal(t, int64(5), gkt.TableValue(table, "p1"))
	assert.Equal(t, int64(1), gkt.TableValue(table, "p2"))
	assert.Nil(t, gkt.TableValue(table, "o"))

	assert.Eventually(t, func() bool {
		n, err := view.AddedUnits("p1")
		return err == nil && n == 5
	}, time.Second, 10*time.Millisecond)

	n, err := view.AddedUnits("never-added")
	require.NoError(t, err)
	assert.Zero(t, n)
}
