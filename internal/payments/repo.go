package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentRejected  PaymentStatus = "rejected"
)

type Payment struct {
	ID          string        `json:"id"`
	OrderID     string        `json:"order_id"`
	ProofPath   string        `json:"proof_path"`
	Status      PaymentStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	ConfirmedAt *time.Time    `json:"confirmed_at,omitempty"`
}

type Repo struct{ DB *pgxpool.Pool }

// Insert selalu bikin row baru, tidak pernah overwrite - re-upload
// menghasilkan duplikat dan itu memang ditoleransi, reader ambil yang
// paling baru.
func (r *Repo) Insert(ctx context.Context, orderID, proofPath string) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO payments(id, order_id, proof_path, status, created_at)
		VALUES ($1,$2,$3,$4,now())`,
		id, orderID, proofPath, PaymentPending)
	if err != nil {
		return "", err
	}
	return id, nil
}

// LatestForOrder: (nil, nil) kalau belum ada payment sama sekali.
func (r *Repo) LatestForOrder(ctx context.Context, orderID string) (*Payment, error) {
	var p Payment
	err := r.DB.QueryRow(ctx, `
		SELECT id, order_id, proof_path, status, created_at, confirmed_at
		FROM payments WHERE order_id=$1
		ORDER BY created_at DESC LIMIT 1`, orderID).
		Scan(&p.ID, &p.OrderID, &p.ProofPath, &p.Status, &p.CreatedAt, &p.ConfirmedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
