package orders

import (
	"context"
	"errors"
	"log"
	"time"
)

// Store adalah akses transaksional ke record order. Semua mutasi status
// wajib lewat UpdateStatus (conditional write) - read-then-blind-write
// dilarang karena membuka lagi race antar aktor.
type Store interface {
	Create(ctx context.Context, customerID string, in CreateInput) (*Order, error)
	Get(ctx context.Context, orderID string) (*Order, error)
	UpdateStatus(ctx context.Context, orderID string, expected, next Status, reason string) error
	HasPayment(ctx context.Context, orderID string) (bool, error)
	CustomerName(ctx context.Context, customerID string) (string, error)
	Items(ctx context.Context, orderID string) ([]OrderItem, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	ListAll(ctx context.Context) ([]AdminOrder, error)
}

type Settings interface {
	StoreOpen(ctx context.Context) (bool, error)
	SetStoreOpen(ctx context.Context, open bool) error
}

// Realtime menerima update yang sudah commit. Best-effort: gagal
// publish tidak membatalkan transisi.
type Realtime interface {
	PublishOrderUpdate(ctx context.Context, u OrderUpdate)
}

type Events interface {
	OrderCreated(ctx context.Context, payload OrderCreatedPayload, traceID string)
}

type Service struct {
	Store    Store
	Settings Settings
	Realtime Realtime
	Events   Events
}

// Create: admission check dulu (store hours), baru tulis order+items.
// Kalau setting tidak kebaca, anggap tutup.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput, traceID string) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, errors.New("no items in order")
	}
	open, err := s.Settings.StoreOpen(ctx)
	if err != nil {
		log.Printf("store status read failed (treating as closed): %v", err)
		return nil, ErrStoreClosed
	}
	if !open {
		return nil, ErrStoreClosed
	}

	o, err := s.Store.Create(ctx, actor.UserID, in)
	if err != nil {
		return nil, err
	}

	s.publishUpdate(ctx, o)

	name, err := s.Store.CustomerName(ctx, actor.UserID)
	if err != nil || name == "" {
		name = "Pelanggan"
	}
	s.Events.OrderCreated(ctx, OrderCreatedPayload{
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  name,
		TotalPrice:    o.TotalPrice,
		Postage:       o.Postage,
		PaymentMethod: o.PaymentMethod,
	}, traceID)

	return o, nil
}

func (s *Service) Accept(ctx context.Context, actor Actor, orderID string) (*Order, error) {
	return s.transition(ctx, actor, orderID, EventAccept, "")
}

func (s *Service) Reject(ctx context.Context, actor Actor, orderID, reason string) (*Order, error) {
	return s.transition(ctx, actor, orderID, EventReject, reason)
}

func (s *Service) Complete(ctx context.Context, actor Actor, orderID string) (*Order, error) {
	return s.transition(ctx, actor, orderID, EventComplete, "")
}

func (s *Service) Cancel(ctx context.Context, actor Actor, orderID string) (*Order, error) {
	return s.transition(ctx, actor, orderID, EventCancel, "")
}

// MarkProofUploaded dipanggil proof gate setelah artifact + row payment
// tersimpan. Bisa gagal ErrConflict/ErrInvalidTransition kalau status
// keburu berubah; row payment-nya tetap ada.
func (s *Service) MarkProofUploaded(ctx context.Context, actor Actor, orderID string) (*Order, error) {
	return s.transition(ctx, actor, orderID, EventUploadProof, "")
}

// transition: auth dulu, lalu cek tabel transisi, lalu conditional
// write. Kalau dua aktor balapan, tepat satu yang menang; yang kalah
// dapat ErrConflict dari store.
func (s *Service) transition(ctx context.Context, actor Actor, orderID string, ev Event, reason string) (*Order, error) {
	if StaffEvent(ev) && !actor.IsStaff() {
		return nil, ErrUnauthorized
	}

	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !StaffEvent(ev) && o.CustomerID != actor.UserID {
		return nil, ErrUnauthorized
	}

	next, ok := Next(ev, o.Status, o.PaymentMethod)
	if !ok {
		return nil, ErrInvalidTransition
	}

	// qris: begitu bukti pembayaran masuk, cancel dikunci walaupun
	// status nominalnya masih bisa (belt and braces di atas tabel).
	if ev == EventCancel && o.PaymentMethod == MethodQRIS {
		has, err := s.Store.HasPayment(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if has {
			return nil, ErrInvalidTransition
		}
	}

	if err := s.Store.UpdateStatus(ctx, orderID, o.Status, next, reason); err != nil {
		return nil, err
	}

	o.Status = next
	if next == StatusRejected {
		o.RejectionReason = reason
	}
	s.publishUpdate(ctx, o)
	return o, nil
}

func (s *Service) publishUpdate(ctx context.Context, o *Order) {
	s.Realtime.PublishOrderUpdate(ctx, OrderUpdate{
		OrderID:         o.ID,
		Status:          o.Status,
		RejectionReason: o.RejectionReason,
		UpdatedAt:       time.Now().UTC(),
	})
}

// Get: customer hanya boleh lihat order miliknya, staff boleh semua.
func (s *Service) Get(ctx context.Context, actor Actor, orderID string) (*Order, error) {
	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && o.CustomerID != actor.UserID {
		return nil, ErrUnauthorized
	}
	return o, nil
}

func (s *Service) Items(ctx context.Context, orderID string) ([]OrderItem, error) {
	return s.Store.Items(ctx, orderID)
}

func (s *Service) ListMine(ctx context.Context, actor Actor) ([]Order, error) {
	return s.Store.ListByCustomer(ctx, actor.UserID)
}

func (s *Service) ListAll(ctx context.Context, actor Actor) ([]AdminOrder, error) {
	if !actor.IsStaff() {
		return nil, ErrUnauthorized
	}
	return s.Store.ListAll(ctx)
}

func (s *Service) StoreOpen(ctx context.Context) (bool, error) {
	return s.Settings.StoreOpen(ctx)
}

func (s *Service) SetStoreOpen(ctx context.Context, actor Actor, open bool) error {
	if !actor.IsStaff() {
		return ErrUnauthorized
	}
	return s.Settings.SetStoreOpen(ctx, open)
}
