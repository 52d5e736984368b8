package push

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/absntcoffee/coffee-orders/internal/orders"
)

type fakeStaffNotifier struct {
	mu   sync.Mutex
	msgs []Message
	res  *Result
}

func (f *fakeStaffNotifier) NotifyStaff(_ context.Context, msg Message) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	if f.res != nil {
		return f.res, nil
	}
	return &Result{TotalTokens: 1, SuccessCount: 1}, nil
}

type memDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *memDedup) SeenOrMark(_ context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func orderCreatedMessage(t *testing.T, eventID string) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(orders.OrderCreatedPayload{
		OrderID:       "a1b2c3d4-0000-0000-0000-000000000000",
		CustomerID:    "cust-1",
		CustomerName:  "Asep",
		TotalPrice:    25000,
		PaymentMethod: orders.MethodQRIS,
	})
	require.NoError(t, err)
	env := orders.Envelope{
		EventID:      eventID,
		EventType:    orders.EventTypeOrderCreated,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "coffee-api",
		Payload:      payload,
	}
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Value: raw}
}

func TestHandleOrderCreated(t *testing.T) {
	n := &fakeStaffNotifier{}
	c := &Consumer{Dispatcher: n, Dedup: &memDedup{}}

	err := c.HandleOrderCreated(context.Background(), orderCreatedMessage(t, "ev-1"))
	require.NoError(t, err)
	require.Len(t, n.msgs, 1)
	require.Equal(t, "New Order Received! ☕", n.msgs[0].Title)
	require.Contains(t, n.msgs[0].Body, "Order #A1B2C3D4")
	require.Contains(t, n.msgs[0].Body, "Asep")
}

// Redelivery dengan event id sama tidak boleh memicu push kedua.
func TestHandleOrderCreatedDedupesRedelivery(t *testing.T) {
	n := &fakeStaffNotifier{}
	c := &Consumer{Dispatcher: n, Dedup: &memDedup{}}
	ctx := context.Background()

	require.NoError(t, c.HandleOrderCreated(ctx, orderCreatedMessage(t, "ev-1")))
	require.NoError(t, c.HandleOrderCreated(ctx, orderCreatedMessage(t, "ev-1")))
	require.NoError(t, c.HandleOrderCreated(ctx, orderCreatedMessage(t, "ev-2")))
	require.Len(t, n.msgs, 2)
}

func TestHandleOrderCreatedIgnoresOtherEventTypes(t *testing.T) {
	n := &fakeStaffNotifier{}
	c := &Consumer{Dispatcher: n, Dedup: &memDedup{}}

	env := orders.Envelope{EventID: "ev-x", EventType: "OrderShipped"}
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, c.HandleOrderCreated(context.Background(), kafkago.Message{Value: raw}))
	require.Empty(t, n.msgs)
}

func TestHandleOrderCreatedBadJSON(t *testing.T) {
	c := &Consumer{Dispatcher: &fakeStaffNotifier{}, Dedup: &memDedup{}}
	err := c.HandleOrderCreated(context.Background(), kafkago.Message{Value: []byte("{nope")})
	require.Error(t, err)
}

func TestShortID(t *testing.T) {
	require.Equal(t, "A1B2C3D4", ShortID("a1b2c3d4-0000-0000-0000-000000000000"))
	require.Equal(t, "AB", ShortID("ab"))
}
