package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/absntcoffee/coffee-orders/internal/orders"
	"github.com/absntcoffee/coffee-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Notifier menyebarkan perubahan order yang sudah commit lewat redis
// pub/sub. Dua scope: channel per-order (tracking view customer) dan
// channel agregat (dashboard staff). At-least-once dan best-effort:
// subscriber yang koneksinya putus bisa ketinggalan update, jadikan
// notifikasi sebagai sinyal reconcile, bukan source of truth.
type Notifier struct {
	RDB *redis.Client
}

func (n *Notifier) PublishOrderUpdate(ctx context.Context, u orders.OrderUpdate) {
	b, err := json.Marshal(u)
	if err != nil {
		log.Printf("realtime: marshal update order %s: %v", u.OrderID, err)
		return
	}
	// publish inline setelah commit, di goroutine yang sama -> urutan
	// per order mengikuti urutan commit.
	if err := n.RDB.Publish(ctx, fmt.Sprintf(redisx.ChannelOrderEvents, u.OrderID), b).Err(); err != nil {
		log.Printf("realtime: publish order %s: %v", u.OrderID, err)
	}
	if err := n.RDB.Publish(ctx, redisx.ChannelAllOrders, b).Err(); err != nil {
		log.Printf("realtime: publish all-orders: %v", err)
	}
}

// Subscription adalah stream update untuk satu scope. Close (atau
// cancel context waktu subscribe) menghentikan delivery dan melepas
// resource subscription di server; tidak ada kiriman setelah itu.
type Subscription struct {
	C  <-chan orders.OrderUpdate
	ps *redis.PubSub
}

func (s *Subscription) Close() error { return s.ps.Close() }

func (n *Notifier) SubscribeOrder(ctx context.Context, orderID string) *Subscription {
	return n.subscribe(ctx, fmt.Sprintf(redisx.ChannelOrderEvents, orderID))
}

func (n *Notifier) SubscribeAll(ctx context.Context) *Subscription {
	return n.subscribe(ctx, redisx.ChannelAllOrders)
}

func (n *Notifier) subscribe(ctx context.Context, channel string) *Subscription {
	ps := n.RDB.Subscribe(ctx, channel)
	out := make(chan orders.OrderUpdate, 16)

	go func() {
		defer close(out)
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = ps.Close()
				return
			case msg, ok := <-in:
				if !ok {
					return // subscription ditutup
				}
				var u orders.OrderUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &u); err != nil {
					log.Printf("realtime: decode update di %s: %v", channel, err)
					continue
				}
				select {
				case out <- u:
				case <-ctx.Done():
					_ = ps.Close()
					return
				}
			}
		}
	}()

	return &Subscription{C: out, ps: ps}
}
