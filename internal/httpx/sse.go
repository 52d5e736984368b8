package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/absntcoffee/coffee-orders/internal/realtime"
	"github.com/go-chi/chi/v5"
)

// Subscriber membuka stream update order. Subscription ikut lifecycle
// context request: client disconnect -> subscription dilepas.
type Subscriber interface {
	SubscribeOrder(ctx context.Context, orderID string) *realtime.Subscription
	SubscribeAll(ctx context.Context) *realtime.Subscription
}

// streamOrderEvents: SSE untuk tracking view satu order (customer
// pemilik atau staff). Client wajib reconcile lewat GET /orders/{id}
// setelah reconnect - stream ini cuma hint, bukan source of truth.
func (h *OrdersHandler) streamOrderEvents(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if _, err := h.Svc.Get(r.Context(), ActorFrom(r.Context()), orderID); err != nil {
		writeOrderErr(w, err)
		return
	}
	sub := h.Realtime.SubscribeOrder(r.Context(), orderID)
	defer sub.Close()
	streamEvents(w, r, sub)
}

// streamAllOrderEvents: SSE agregat untuk dashboard staff.
func (h *OrdersHandler) streamAllOrderEvents(w http.ResponseWriter, r *http.Request) {
	sub := h.Realtime.SubscribeAll(r.Context())
	defer sub.Close()
	streamEvents(w, r, sub)
}

func streamEvents(w http.ResponseWriter, r *http.Request, sub *realtime.Subscription) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			// comment line sebagai keep-alive
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case u, ok := <-sub.C:
			if !ok {
				return
			}
			b, err := json.Marshal(u)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}
