package httpx

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/absntcoffee/coffee-orders/internal/push"
	"github.com/go-chi/chi/v5"
)

type PushSender interface {
	NotifyStaff(ctx context.Context, msg push.Message) (*push.Result, error)
	NotifyUser(ctx context.Context, userID string, msg push.Message) (*push.Result, error)
}

type TokenStore interface {
	Upsert(ctx context.Context, userID, token, platform string) error
}

type Deduper interface {
	SeenOrMark(ctx context.Context, id string) bool
}

type PushHandler struct {
	Dispatcher PushSender
	Tokens     TokenStore
	Dedup      Deduper

	// secret yang dikirim record store di header webhook
	WebhookSecret string
}

type RegisterTokenReq struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// WebhookEvent adalah notifikasi insert dari record store:
// { event_type, table_name, record }.
type WebhookEvent struct {
	EventType string        `json:"event_type"`
	TableName string        `json:"table_name"`
	Record    WebhookRecord `json:"record"`
}

type WebhookRecord struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer_name"`
}

func (h *PushHandler) Register(r *chi.Mux) {
	// webhook dipanggil record store, bukan user - auth pakai shared
	// secret, di luar middleware identity.
	r.Post("/webhooks/push", h.handleOrderInsertHook)

	r.Group(func(r chi.Router) {
		r.Use(WithIdentity)
		r.Post("/tokens", h.registerToken)

		r.Group(func(r chi.Router) {
			r.Use(RequireStaff)
			r.Post("/admin/test-notification", h.testNotification)
		})
	})
}

func (h *PushHandler) registerToken(w http.ResponseWriter, r *http.Request) {
	var req RegisterTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token required"})
		return
	}
	if req.Platform == "" {
		req.Platform = "web"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Tokens.Upsert(ctx, ActorFrom(r.Context()).UserID, req.Token, req.Platform); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// testNotification: staff mengetes setting push ke device-nya sendiri.
func (h *PushHandler) testNotification(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res, err := h.Dispatcher.NotifyUser(ctx, ActorFrom(r.Context()).UserID, push.TestMessage())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send notification"})
		return
	}
	if res.NoRecipients() {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No device tokens found for your account."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"sent_count":   res.SuccessCount,
		"failed_count": res.FailureCount,
		"total_tokens": res.TotalTokens,
	})
}

// handleOrderInsertHook menerima event insert dari record store dan
// menjalankan fan-out push ke staff. Event selain insert di table
// orders di-ack lalu diabaikan.
func (h *PushHandler) handleOrderInsertHook(w http.ResponseWriter, r *http.Request) {
	if h.WebhookSecret != "" && r.Header.Get("X-Webhook-Secret") != h.WebhookSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bad webhook secret"})
		return
	}

	var ev WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if ev.TableName != "orders" || ev.EventType != "INSERT" || ev.Record.ID == "" {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Ignored event"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// webhook bisa dikirim ulang; jangan push dobel utk order yang sama
	if h.Dedup != nil && h.Dedup.SeenOrMark(ctx, "order:"+ev.Record.ID) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Already processed"})
		return
	}

	name := ev.Record.CustomerName
	if name == "" {
		name = "Pelanggan"
	}
	res, err := h.Dispatcher.NotifyStaff(ctx, push.NewOrderMessage(ev.Record.ID, name))
	if err != nil {
		log.Printf("webhook push: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "push dispatch failed"})
		return
	}
	if res.NoRecipients() {
		writeJSON(w, http.StatusOK, map[string]string{"message": "No tokens found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "sent_count": res.SuccessCount})
}
