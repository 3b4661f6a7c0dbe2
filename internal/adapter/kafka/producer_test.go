package kafka

import (
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

var occurredAt = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func newTestProducer(t *testing.T, cl ProducerClient) CartEventsProducer {
	t.Helper()
	p, err := NewCartEventsProducer(
		ProducerTestClientOpt(cl),
		ProducerEncoderOpt(newAvroSerde()),
	)
	require.NoError(t, err)
	return p
}

func TestNewCartEventsProducer(t *testing.T) {
	t.Run("TooFewOpts", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewCartEventsProducer(ProducerEncoderOpt(newAvroSerde()))
		})
	})

	t.Run("NilEncoder", func(t *testing.T) {
		_, err := NewCartEventsProducer(
			ProducerTestClientOpt(new(MockProducerClient)),
			ProducerEncoderOpt(nil),
		)
		assert.Error(t, err)
	})
}

func TestCartEventsProducer(t *testing.T) {
	added := domain.CartEvent{
		Type:       domain.CartItemAdded,
		Owner:      "session-1",
		ProductID:  "p1",
		Quantity:   3,
		Delta:      2,
		OccurredAt: occurredAt,
	}
	cleared := domain.CartEvent{
		Type:       domain.CartCleared,
		Owner:      "session-1",
		OccurredAt: occurredAt,
	}

	t.Run("ProducesRecords", func(t *testing.T) {
		cl := new(MockProducerClient)
		var produced []*kgo.Record
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				produced = args.Get(1).([]*kgo.Record)
			}).
			Return(kgo.ProduceResults{}).Once()

		p := newTestProducer(t, cl)
		require.NoError(t, p.ProduceCartEvents(t.Context(), added, cleared))
		cl.AssertExpectations(t)

		require.Len(t, produced, 2)
		assert.Equal(t, []byte("p1"), produced[0].Key)
		assert.Equal(t, []byte("session-1"), produced[1].Key)
		assert.True(t, occurredAt.Equal(produced[0].Timestamp))

		var v schema.CartEventV1
		require.NoError(t, newAvroSerde().Decode(produced[0].Value, &v))
		assert.Equal(t, "item_added", v.Type)
		assert.Equal(t, "p1", v.ProductID)
		assert.Equal(t, 3, v.Quantity)
		assert.Equal(t, 2, v.Delta)
	})

	t.Run("NoEvents", func(t *testing.T) {
		cl := new(MockProducerClient)
		p := newTestProducer(t, cl)

		require.NoError(t, p.ProduceCartEvents(t.Context()))
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("RetriesRetriable", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: kerr.NotLeaderForPartition}}).Once()
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{}}).Once()

		p := newTestProducer(t, cl)
		require.NoError(t, p.ProduceCartEvents(t.Context(), added))
		cl.AssertNumberOfCalls(t, "ProduceSync", 2)
	})

	t.Run("NonRetriable", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: kerr.MessageTooLarge}})

		p := newTestProducer(t, cl)
		err := p.ProduceCartEvents(t.Context(), added)
		assert.ErrorIs(t, err, kerr.MessageTooLarge)
		cl.AssertNumberOfCalls(t, "ProduceSync", 1)
	})

	t.Run("EncodeFailure", func(t *testing.T) {
		cl := new(MockProducerClient)
		errEncode := errors.New("encode")
		p, err := NewCartEventsProducer(
			ProducerTestClientOpt(cl),
			ProducerEncoderOpt(failingEncoder{errEncode}),
		)
		require.NoError(t, err)

		err = p.ProduceCartEvents(t.Context(), added)
		assert.ErrorIs(t, err, errEncode)
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("Close", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("Close").Return().Once()

		newTestProducer(t, cl).Close()
		cl.AssertExpectations(t)
	})
}

type failingEncoder struct{ err error }

func (e failingEncoder) Encode(any) ([]byte, error) { return nil, e.err }
