package payments

import (
	"context"
	"io"
	"time"

	"github.com/absntcoffee/coffee-orders/internal/orders"
)

// OrderState adalah irisan service order yang dibutuhkan gate: baca
// order (sekalian auth ownership) dan event "upload proof".
type OrderState interface {
	Get(ctx context.Context, actor orders.Actor, orderID string) (*orders.Order, error)
	MarkProofUploaded(ctx context.Context, actor orders.Actor, orderID string) (*orders.Order, error)
}

type PaymentRecords interface {
	Insert(ctx context.Context, orderID, proofPath string) (string, error)
}

// Gate menjalankan pipeline submit bukti pembayaran: simpan artifact ->
// insert row payment -> majukan status order. Tiap stage punya tipe
// error sendiri supaya caller tahu persis sampai mana yang tercatat.
type Gate struct {
	Artifacts     ArtifactStore
	Payments      PaymentRecords
	Orders        OrderState
	UploadTimeout time.Duration
}

type SubmitResult struct {
	PaymentID string        `json:"payment_id"`
	ProofPath string        `json:"proof_path"`
	Order     *orders.Order `json:"order"`
}

func (g *Gate) SubmitProof(ctx context.Context, actor orders.Actor, orderID, filename string, file io.Reader) (*SubmitResult, error) {
	// pre-flight: ownership + eksistensi, belum ada side effect.
	if _, err := g.Orders.Get(ctx, actor, orderID); err != nil {
		return nil, err
	}

	uploadCtx := ctx
	if g.UploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, g.UploadTimeout)
		defer cancel()
	}
	path, err := g.Artifacts.Save(uploadCtx, orderID, filename, file)
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	paymentID, err := g.Payments.Insert(ctx, orderID, path)
	if err != nil {
		// artifact nya orphan; tidak apa-apa, retry pakai path baru.
		return nil, &RecordError{Err: err}
	}

	res := &SubmitResult{PaymentID: paymentID, ProofPath: path}
	o, err := g.Orders.MarkProofUploaded(ctx, actor, orderID)
	if err != nil {
		// proof sudah tercatat, cuma statusnya tidak maju.
		return res, &TransitionError{Err: err}
	}
	res.Order = o
	return res, nil
}
