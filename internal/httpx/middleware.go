package httpx

import (
	"context"
	"net/http"

	"github.com/absntcoffee/coffee-orders/internal/orders"
)

type ctxKey int

const actorKey ctxKey = iota

// WithIdentity membaca identitas yang di-set auth proxy di depan
// service ini (layar login/signup di luar scope service ini). Tanpa
// X-User-ID request ditolak.
func WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			return
		}
		actor := orders.Actor{UserID: userID, Role: r.Header.Get("X-User-Role")}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

func ActorFrom(ctx context.Context) orders.Actor {
	a, _ := ctx.Value(actorKey).(orders.Actor)
	return a
}

// RequireStaff: 403 untuk non-admin. Dipasang setelah WithIdentity.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActorFrom(r.Context()).IsStaff() {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "admins only"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
