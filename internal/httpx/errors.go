package httpx

import (
	"errors"
	"net/http"

	"github.com/absntcoffee/coffee-orders/internal/orders"
	"github.com/absntcoffee/coffee-orders/internal/payments"
)

// writeOrderErr memetakan taxonomy error domain ke respons HTTP.
// Guard failure jadi pesan user-facing; Conflict disuruh refresh;
// storage/record error dikasih saran retry.
func writeOrderErr(w http.ResponseWriter, err error) {
	var storageErr *payments.StorageError
	var recordErr *payments.RecordError
	var transitionErr *payments.TransitionError

	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, orders.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "you are not allowed to do that"})
	case errors.Is(err, orders.ErrInvalidTransition):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "this action is not valid for the order's current status"})
	case errors.Is(err, orders.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "this order was already updated, please refresh"})
	case errors.Is(err, orders.ErrStoreClosed):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "store is currently closed"})
	case errors.As(err, &storageErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to upload image, please try again"})
	case errors.As(err, &recordErr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save payment record, please try again"})
	case errors.As(err, &transitionErr):
		// proof tercatat tapi status tidak berubah - jangan disamakan
		// dengan gagal total.
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":          "payment proof saved, but the order status was already updated",
			"proof_recorded": true,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
