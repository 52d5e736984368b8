package redisx

import "time"

const (
	// Realtime: channel pub/sub per order dan channel agregat utk
	// dashboard staff.
	ChannelOrderEvents = "orders:events:%s"
	ChannelAllOrders   = "orders:events:all"

	// Dedup event processing: dedup:{service}:{id}
	KeyDedup = "dedup:%s:%s"
)

var TTLDedup = 48 * time.Hour
