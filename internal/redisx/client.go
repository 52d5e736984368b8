package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Deduper menandai event yang sudah pernah diproses, per service.
// Dipakai consumer/webhook biar delivery at-least-once tidak jadi push
// dobel.
type Deduper struct {
	RDB     *redis.Client
	Service string
	TTL     time.Duration
}

// SeenOrMark: true kalau id sudah pernah diproses; kalau belum,
// langsung ditandai. Error redis dianggap "belum pernah" - mending
// dobel daripada hilang.
func (d *Deduper) SeenOrMark(ctx context.Context, id string) bool {
	ttl := d.TTL
	if ttl <= 0 {
		ttl = TTLDedup
	}
	key := fmt.Sprintf(KeyDedup, d.Service, id)
	ok, err := d.RDB.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false
	}
	return !ok
}
