package schema

import "time"

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "cart_event",
	"fields": [
		{"name": "type", "type": "string"},
		{"name": "owner", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "delta", "type": "int"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

// CartEventV1 is the value of a cart events topic record.
//
// ProductID is empty for cart_cleared.
type CartEventV1 struct {
	Type       string    `avro:"type"`
	Owner      string    `avro:"owner"`
	ProductID  string    `avro:"product_id"`
	Quantity   int       `avro:"quantity"`
	Delta      int       `avro:"delta"`
	OccurredAt time.Time `avro:"occurred_at"`
}
