package orders

import (
	"encoding/json"
	"time"
)

const EventTypeOrderCreated = "OrderCreated"

// Envelope membungkus semua event order di bus. Payload spesifik per
// event_type.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID       string        `json:"order_id"`
	CustomerID    string        `json:"customer_id"`
	CustomerName  string        `json:"customer_name"`
	TotalPrice    int           `json:"total_price"`
	Postage       int           `json:"postage"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}
