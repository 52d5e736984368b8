package push

import (
	"context"
	"encoding/json"
	"log"

	kafkax "github.com/absntcoffee/coffee-orders/internal/kafka"
	"github.com/absntcoffee/coffee-orders/internal/orders"
	kafkago "github.com/segmentio/kafka-go"
)

type Deduper interface {
	SeenOrMark(ctx context.Context, id string) bool
}

type StaffNotifier interface {
	NotifyStaff(ctx context.Context, msg Message) (*Result, error)
}

// Consumer menerima event order.created dari bus dan menjalankan
// fan-out push ke semua device staff. Delivery push tidak pernah
// menggagalkan event bisnisnya - order sudah commit duluan.
type Consumer struct {
	Dispatcher StaffNotifier
	Dedup      Deduper
}

// HandleOrderCreated dipasang sebagai handler consumer kafka.
func (c *Consumer) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventTypeOrderCreated {
		return nil // ignore
	}

	if c.Dedup != nil && c.Dedup.SeenOrMark(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	res, err := c.Dispatcher.NotifyStaff(ctx, NewOrderMessage(p.OrderID, p.CustomerName))
	if err != nil {
		return err
	}
	if res.NoRecipients() {
		log.Printf("push: order %s: tidak ada device staff terdaftar", ShortID(p.OrderID))
		return nil
	}
	log.Printf("push: order %s: sent=%d failed=%d", ShortID(p.OrderID), res.SuccessCount, res.FailureCount)
	return nil
}
