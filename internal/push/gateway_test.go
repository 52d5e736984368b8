package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFCMClientSend(t *testing.T) {
	var got fcmRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/send", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":1,"failure":0}`))
	}))
	defer srv.Close()

	c := NewFCMClient(srv.URL, "server-key-123")
	err := c.Send(context.Background(), "tok-1", NewOrderMessage("a1b2c3d4-x", "Asep"))
	require.NoError(t, err)

	require.Equal(t, "key=server-key-123", auth)
	require.Equal(t, "tok-1", got.To)
	require.Equal(t, "New Order Received! ☕", got.Notification.Title)
	require.Equal(t, "/profile", got.Data.URL)
}

func TestFCMClientSendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewFCMClient(srv.URL, "bad-key")
	err := c.Send(context.Background(), "tok-1", TestMessage())
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

// FCM bisa balas 200 tapi menolak tokennya - itu tetap gagal.
func TestFCMClientSendRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":0,"failure":1}`))
	}))
	defer srv.Close()

	c := NewFCMClient(srv.URL, "server-key")
	err := c.Send(context.Background(), "tok-stale", TestMessage())
	require.Error(t, err)
}
