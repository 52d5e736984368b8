package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Message struct {
	Title string
	Body  string
	Link  string // deep link yang dibuka client pas notifikasi diklik
}

// Gateway mengirim satu payload ke satu device token.
type Gateway interface {
	Send(ctx context.Context, token string, msg Message) error
}

// FCMClient bicara ke endpoint legacy send FCM lewat HTTP. Payload yang
// diterima device: { notification: {title, body}, data: {url} }.
type FCMClient struct {
	BaseURL    string
	ServerKey  string
	HTTPClient *http.Client
}

func NewFCMClient(baseURL, serverKey string) *FCMClient {
	return &FCMClient{
		BaseURL:   baseURL,
		ServerKey: serverKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type fcmRequest struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
	Data         fcmData         `json:"data"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmData struct {
	URL string `json:"url"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

func (c *FCMClient) Send(ctx context.Context, token string, msg Message) error {
	body, err := json.Marshal(fcmRequest{
		To:           token,
		Notification: fcmNotification{Title: msg.Title, Body: msg.Body},
		Data:         fcmData{URL: msg.Link},
	})
	if err != nil {
		return fmt.Errorf("marshal fcm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create fcm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.ServerKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send fcm request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read fcm response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fcm status %d: %s", resp.StatusCode, raw)
	}

	var out fcmResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("parse fcm response: %w", err)
	}
	if out.Failure > 0 || out.Success == 0 {
		return fmt.Errorf("fcm rejected token")
	}
	return nil
}
