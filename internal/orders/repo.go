package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ItemInput struct {
	CoffeeID string `json:"coffee_id"`
	Qty      int    `json:"qty"`
}

type CreateInput struct {
	DeliveryAddress string
	PaymentMethod   PaymentMethod
	Postage         int
	Items           []ItemInput
}

type Repo struct{ DB *pgxpool.Pool }

// Create inserts the order plus its items in one tx. Harga diambil dari
// table coffee di dalam tx (snapshot) - jangan trust harga dari client,
// dan perubahan harga katalog tidak boleh mengubah order lama.
func (r *Repo) Create(ctx context.Context, customerID string, in CreateInput) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	params := make([]string, 0, len(in.Items))
	ids := make([]any, 0, len(in.Items))
	for i, it := range in.Items {
		params = append(params, fmt.Sprintf("$%d", i+1))
		ids = append(ids, it.CoffeeID)
	}
	rows, err := tx.Query(ctx, `SELECT id, price FROM coffee WHERE id IN (`+strings.Join(params, ",")+`)`, ids...)
	if err != nil {
		return nil, err
	}
	prices := map[string]int{}
	for rows.Next() {
		var id string
		var price int
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		prices[id] = price
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, it := range in.Items {
		price, ok := prices[it.CoffeeID]
		if !ok {
			return nil, fmt.Errorf("coffee not found: %s", it.CoffeeID)
		}
		if it.Qty <= 0 {
			return nil, fmt.Errorf("invalid qty for coffee %s", it.CoffeeID)
		}
		total += price * it.Qty
	}

	o := &Order{
		ID:              uuid.NewString(),
		CustomerID:      customerID,
		TotalPrice:      total,
		Postage:         in.Postage,
		PaymentMethod:   in.PaymentMethod,
		DeliveryAddress: in.DeliveryAddress,
		Status:          InitialStatus(in.PaymentMethod),
		CreatedAt:       time.Now().UTC(),
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, customer_id, total_price, postage, payment_method, delivery_address, order_status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.CustomerID, o.TotalPrice, o.Postage, o.PaymentMethod, o.DeliveryAddress, o.Status, o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, it := range in.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, coffee_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5)`,
			uuid.NewString(), o.ID, it.CoffeeID, it.Qty, prices[it.CoffeeID],
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) Get(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	var reason *string
	err := r.DB.QueryRow(ctx, `
		SELECT id, customer_id, total_price, postage, payment_method, delivery_address, order_status, rejection_reason, created_at
		FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.CustomerID, &o.TotalPrice, &o.Postage, &o.PaymentMethod, &o.DeliveryAddress, &o.Status, &reason, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if reason != nil {
		o.RejectionReason = *reason
	}
	return &o, nil
}

// UpdateStatus is the conditional write every transition goes through:
// "set status to next where id = order AND status = expected". Nol row
// berarti aktor lain sudah duluan -> ErrConflict (atau ErrNotFound
// kalau ordernya memang tidak ada).
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, expected, next Status, reason string) error {
	var ct pgconn.CommandTag
	var err error
	if next == StatusRejected {
		ct, err = r.DB.Exec(ctx, `
			UPDATE orders SET order_status=$3, rejection_reason=$4
			WHERE id=$1 AND order_status=$2`, orderID, expected, next, reason)
	} else {
		ct, err = r.DB.Exec(ctx, `
			UPDATE orders SET order_status=$3
			WHERE id=$1 AND order_status=$2`, orderID, expected, next)
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, orderID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

// HasPayment: guard cancel utk qris - begitu ada row payment, order
// tidak bisa dibatalkan customer lagi.
func (r *Repo) HasPayment(ctx context.Context, orderID string) (bool, error) {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE order_id=$1`, orderID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) CustomerName(ctx context.Context, customerID string) (string, error) {
	var name string
	err := r.DB.QueryRow(ctx, `SELECT name FROM customers WHERE id=$1`, customerID).Scan(&name)
	if err != nil {
		return "", err
	}
	return name, nil
}

func (r *Repo) Items(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, coffee_id, quantity, price
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.CoffeeID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, customer_id, total_price, postage, payment_method, delivery_address, order_status, rejection_reason, created_at
		FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// ListAll: dashboard staff. Join nama customer + proof pembayaran paling
// baru (payments bisa duplikat, ambil yang terakhir), items di-query
// terpisah per halaman hasil.
func (r *Repo) ListAll(ctx context.Context) ([]AdminOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.customer_id, o.total_price, o.postage, o.payment_method, o.delivery_address,
		       o.order_status, o.rejection_reason, o.created_at,
		       c.name, COALESCE(c.phone, ''),
		       COALESCE(p.proof_path, '')
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		LEFT JOIN LATERAL (
			SELECT proof_path FROM payments WHERE order_id = o.id
			ORDER BY created_at DESC LIMIT 1
		) p ON true
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdminOrder
	index := map[string]int{}
	for rows.Next() {
		var ao AdminOrder
		var reason *string
		if err := rows.Scan(&ao.ID, &ao.CustomerID, &ao.TotalPrice, &ao.Postage, &ao.PaymentMethod, &ao.DeliveryAddress,
			&ao.Status, &reason, &ao.CreatedAt, &ao.CustomerName, &ao.CustomerPhone, &ao.ProofPath); err != nil {
			return nil, err
		}
		if reason != nil {
			ao.RejectionReason = *reason
		}
		index[ao.ID] = len(out)
		out = append(out, ao)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]any, 0, len(out))
	params := make([]string, 0, len(out))
	for i, ao := range out {
		params = append(params, fmt.Sprintf("$%d", i+1))
		ids = append(ids, ao.ID)
	}
	irows, err := r.DB.Query(ctx, `
		SELECT oi.order_id, cf.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN coffee cf ON cf.id = oi.coffee_id
		WHERE oi.order_id IN (`+strings.Join(params, ",")+`)`, ids...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var orderID string
		var b ItemBrief
		if err := irows.Scan(&orderID, &b.CoffeeName, &b.Quantity, &b.Price); err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			out[i].Items = append(out[i].Items, b)
		}
	}
	return out, irows.Err()
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	var out []Order
	for rows.Next() {
		var o Order
		var reason *string
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.TotalPrice, &o.Postage, &o.PaymentMethod, &o.DeliveryAddress,
			&o.Status, &reason, &o.CreatedAt); err != nil {
			return nil, err
		}
		if reason != nil {
			o.RejectionReason = *reason
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
