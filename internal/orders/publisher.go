package orders

import (
	"context"
	"time"

	kafkax "github.com/absntcoffee/coffee-orders/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// EventPublisher menerbitkan event order ke Kafka. Pengiriman async
// lewat inbox producer - sukses/gagal delivery tidak mempengaruhi
// operasi bisnis yang sudah commit.
type EventPublisher struct {
	Producer    *kafkax.Producer
	ServiceName string
}

func (p *EventPublisher) OrderCreated(ctx context.Context, payload OrderCreatedPayload, traceID string) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventTypeOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.ServiceName,
		TraceID:       traceID,
		CorrelationID: payload.OrderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Producer.Publish(PartitionKey(payload.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventTypeOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
