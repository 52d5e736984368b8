package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/absntcoffee/coffee-orders/internal/orders"
	"github.com/absntcoffee/coffee-orders/internal/payments"
	"github.com/go-chi/chi/v5"
)

const maxProofUpload = 10 << 20 // 10 MiB

type ProofReader interface {
	LatestForOrder(ctx context.Context, orderID string) (*payments.Payment, error)
}

type OrdersHandler struct {
	Svc      *orders.Service
	Gate     *payments.Gate
	Proofs   ProofReader
	Realtime Subscriber
}

type CreateOrderReq struct {
	DeliveryAddress string             `json:"delivery_address"`
	PaymentMethod   string             `json:"payment_method"`
	Postage         int                `json:"postage"`
	Items           []orders.ItemInput `json:"items"`
}

type RejectReq struct {
	Reason string `json:"reason"`
}

type OrderDetailResp struct {
	Order   *orders.Order      `json:"order"`
	Items   []orders.OrderItem `json:"items"`
	Payment *payments.Payment  `json:"payment,omitempty"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(WithIdentity)

		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listMyOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Post("/orders/{id}/cancel", h.cancelOrder)
		r.Post("/orders/{id}/proof", h.uploadProof)
		r.Get("/orders/{id}/events", h.streamOrderEvents)

		r.Group(func(r chi.Router) {
			r.Use(RequireStaff)
			r.Get("/admin/orders", h.listAllOrders)
			r.Post("/admin/orders/{id}/accept", h.acceptOrder)
			r.Post("/admin/orders/{id}/reject", h.rejectOrder)
			r.Post("/admin/orders/{id}/complete", h.completeOrder)
			r.Get("/admin/orders/events", h.streamAllOrderEvents)
			r.Get("/admin/store-status", h.getStoreStatus)
			r.Put("/admin/store-status", h.setStoreStatus)
		})
	})
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	method := orders.PaymentMethod(req.PaymentMethod)
	if method != orders.MethodCOD && method != orders.MethodQRIS {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_method must be cod or qris"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no items in cart"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Create(ctx, ActorFrom(r.Context()), orders.CreateInput{
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   method,
		Postage:         req.Postage,
		Items:           req.Items,
	}, r.Header.Get("X-Request-Id"))
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orderID := chi.URLParam(r, "id")
	o, err := h.Svc.Get(ctx, ActorFrom(r.Context()), orderID)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	items, err := h.Svc.Items(ctx, orderID)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	p, err := h.Proofs.LatestForOrder(ctx, orderID)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OrderDetailResp{Order: o, Items: items, Payment: p})
}

func (h *OrdersHandler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	os, err := h.Svc.ListMine(ctx, ActorFrom(r.Context()))
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, os)
}

func (h *OrdersHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, actor orders.Actor, id string) (*orders.Order, error) {
		return h.Svc.Cancel(ctx, actor, id)
	})
}

func (h *OrdersHandler) acceptOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, actor orders.Actor, id string) (*orders.Order, error) {
		return h.Svc.Accept(ctx, actor, id)
	})
}

func (h *OrdersHandler) completeOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, actor orders.Actor, id string) (*orders.Order, error) {
		return h.Svc.Complete(ctx, actor, id)
	})
}

func (h *OrdersHandler) rejectOrder(w http.ResponseWriter, r *http.Request) {
	var req RejectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	h.transition(w, r, func(ctx context.Context, actor orders.Actor, id string) (*orders.Order, error) {
		return h.Svc.Reject(ctx, actor, id, req.Reason)
	})
}

func (h *OrdersHandler) transition(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, actor orders.Actor, id string) (*orders.Order, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := fn(ctx, ActorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) uploadProof(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProofUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no file provided"})
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res, err := h.Gate.SubmitProof(ctx, ActorFrom(r.Context()), chi.URLParam(r, "id"), header.Filename, file)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *OrdersHandler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	os, err := h.Svc.ListAll(ctx, ActorFrom(r.Context()))
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, os)
}

func (h *OrdersHandler) getStoreStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	open, err := h.Svc.StoreOpen(ctx)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_store_open": open})
}

func (h *OrdersHandler) setStoreStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Open bool `json:"is_store_open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Svc.SetStoreOpen(ctx, ActorFrom(r.Context()), req.Open); err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_store_open": req.Open})
}
