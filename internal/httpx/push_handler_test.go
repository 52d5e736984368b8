package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/absntcoffee/coffee-orders/internal/push"
)

type fakePushSender struct {
	mu    sync.Mutex
	staff []push.Message
	user  []string
	res   *push.Result
}

func (f *fakePushSender) NotifyStaff(_ context.Context, msg push.Message) (*push.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staff = append(f.staff, msg)
	return f.result(), nil
}

func (f *fakePushSender) NotifyUser(_ context.Context, userID string, _ push.Message) (*push.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = append(f.user, userID)
	return f.result(), nil
}

func (f *fakePushSender) result() *push.Result {
	if f.res != nil {
		return f.res
	}
	return &push.Result{TotalTokens: 2, SuccessCount: 2}
}

type fakeTokenStore struct {
	mu       sync.Mutex
	upserted [][3]string
	err      error
}

func (f *fakeTokenStore) Upsert(_ context.Context, userID, token, platform string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, [3]string{userID, token, platform})
	return nil
}

type memDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *memDedup) SeenOrMark(_ context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func newPushServer(sender *fakePushSender, tokens *fakeTokenStore) *httptest.Server {
	h := &PushHandler{
		Dispatcher:    sender,
		Tokens:        tokens,
		Dedup:         &memDedup{},
		WebhookSecret: "hook-secret",
	}
	r := NewRouter()
	h.Register(r)
	return httptest.NewServer(r)
}

func doReq(t *testing.T, method, url, body string, hdr map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestWebhookDispatchesStaffPush(t *testing.T) {
	sender := &fakePushSender{}
	srv := newPushServer(sender, &fakeTokenStore{})
	defer srv.Close()

	body := `{"event_type":"INSERT","table_name":"orders","record":{"id":"a1b2c3d4-0000","customer_name":"Asep"}}`
	resp := doReq(t, http.MethodPost, srv.URL+"/webhooks/push", body,
		map[string]string{"X-Webhook-Secret": "hook-secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, sender.staff, 1)
	require.Contains(t, sender.staff[0].Body, "Order #A1B2C3D4")
	require.Contains(t, sender.staff[0].Body, "Asep")
}

func TestWebhookFallbackCustomerName(t *testing.T) {
	sender := &fakePushSender{}
	srv := newPushServer(sender, &fakeTokenStore{})
	defer srv.Close()

	body := `{"event_type":"INSERT","table_name":"orders","record":{"id":"ffff0000-1"}}`
	resp := doReq(t, http.MethodPost, srv.URL+"/webhooks/push", body,
		map[string]string{"X-Webhook-Secret": "hook-secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, sender.staff[0].Body, "Pelanggan")
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	sender := &fakePushSender{}
	srv := newPushServer(sender, &fakeTokenStore{})
	defer srv.Close()

	for _, body := range []string{
		`{"event_type":"UPDATE","table_name":"orders","record":{"id":"x"}}`,
		`{"event_type":"INSERT","table_name":"payments","record":{"id":"x"}}`,
		`{"event_type":"INSERT","table_name":"orders","record":{}}`,
	} {
		resp := doReq(t, http.MethodPost, srv.URL+"/webhooks/push", body,
			map[string]string{"X-Webhook-Secret": "hook-secret"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	require.Empty(t, sender.staff)
}

func TestWebhookBadSecret(t *testing.T) {
	sender := &fakePushSender{}
	srv := newPushServer(sender, &fakeTokenStore{})
	defer srv.Close()

	body := `{"event_type":"INSERT","table_name":"orders","record":{"id":"x"}}`
	resp := doReq(t, http.MethodPost, srv.URL+"/webhooks/push", body,
		map[string]string{"X-Webhook-Secret": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, sender.staff)
}

// Redelivery webhook dengan order id sama tidak push dua kali.
func TestWebhookDedupesRedelivery(t *testing.T) {
	sender := &fakePushSender{}
	srv := newPushServer(sender, &fakeTokenStore{})
	defer srv.Close()

	body := `{"event_type":"INSERT","table_name":"orders","record":{"id":"same-order","customer_name":"Asep"}}`
	for i := 0; i < 2; i++ {
		resp := doReq(t, http.MethodPost, srv.URL+"/webhooks/push", body,
			map[string]string{"X-Webhook-Secret": "hook-secret"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	require.Len(t, sender.staff, 1)
}

func TestRegisterToken(t *testing.T) {
	tokens := &fakeTokenStore{}
	srv := newPushServer(&fakePushSender{}, tokens)
	defer srv.Close()

	resp := doReq(t, http.MethodPost, srv.URL+"/tokens",
		`{"token":"tok-1"}`, map[string]string{"X-User-ID": "cust-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, tokens.upserted, 1)
	require.Equal(t, [3]string{"cust-1", "tok-1", "web"}, tokens.upserted[0])

	// tanpa identitas ditolak
	resp = doReq(t, http.MethodPost, srv.URL+"/tokens", `{"token":"tok-2"}`, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// tanpa token ditolak
	resp = doReq(t, http.MethodPost, srv.URL+"/tokens", `{}`,
		map[string]string{"X-User-ID": "cust-1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSelfTestNotification(t *testing.T) {
	sender := &fakePushSender{}
	srv := newPushServer(sender, &fakeTokenStore{})
	defer srv.Close()

	admin := map[string]string{"X-User-ID": "admin-1", "X-User-Role": "admin"}

	resp := doReq(t, http.MethodPost, srv.URL+"/admin/test-notification", "", admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"admin-1"}, sender.user)

	// non-staff dilarang
	resp = doReq(t, http.MethodPost, srv.URL+"/admin/test-notification", "",
		map[string]string{"X-User-ID": "cust-1"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSelfTestNotificationNoTokens(t *testing.T) {
	sender := &fakePushSender{res: &push.Result{}}
	srv := newPushServer(sender, &fakeTokenStore{})
	defer srv.Close()

	resp := doReq(t, http.MethodPost, srv.URL+"/admin/test-notification", "",
		map[string]string{"X-User-ID": "admin-1", "X-User-Role": "admin"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
