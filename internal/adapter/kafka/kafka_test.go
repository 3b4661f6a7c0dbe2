package kafka

import (
	"context"

	"github.com/hamba/avro/v2"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/mock"
	"github.com/twmb/franz-go/pkg/kgo"
)

// avroSerde is the registry-less serde used to exercise codecs.
type avroSerde struct {
	encode func(any) ([]byte, error)
	decode func([]byte, any) error
}

func newAvroSerde() avroSerde {
	s := avro.MustParse(schema.CartEventSchemaTextV1)
	return avroSerde{
		encode: schema.AvroEncodeFn(s),
		decode: schema.AvroDecodeFn(s),
	}
}

func (s avroSerde) Encode(v any) ([]byte, error) { return s.encode(v) }

func (s avroSerde) Decode(b []byte, v any) error { return s.decode(b, v) }

type MockProducerClient struct {
	mock.Mock
}

func (m *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (m *MockProducerClient) Close() {
	m.Called()
}
