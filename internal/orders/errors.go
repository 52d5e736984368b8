package orders

import "errors"

var (
	// ErrUnauthorized: identity/role check gagal, belum ada mutasi.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition: event tidak valid dari status sekarang.
	ErrInvalidTransition = errors.New("invalid order transition")

	// ErrConflict: conditional write kalah race dengan aktor lain;
	// caller harus re-fetch dan kasih tahu user.
	ErrConflict = errors.New("order was updated concurrently")

	ErrNotFound = errors.New("order not found")

	// ErrStoreClosed: admission gate menolak pembuatan order.
	ErrStoreClosed = errors.New("store is closed")
)
