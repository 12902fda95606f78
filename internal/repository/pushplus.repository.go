package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"etfgrid/internal/domain"
	"fmt"
	"net/http"
	"time"
)

const (
	pushPlusURL     = "http://www.pushplus.plus/send"
	notifierTimeout = 10 * time.Second
)

func NewPushPlusRepository(token string) NotificationRepository {
	return NewPushPlusRepositoryWithURL(token, pushPlusURL)
}

func NewPushPlusRepositoryWithURL(token, endpoint string) NotificationRepository {
	return &pushPlusRepositoryHandler{
		Client:   &http.Client{Timeout: notifierTimeout},
		Token:    token,
		Endpoint: endpoint,
	}
}

type pushPlusRepositoryHandler struct {
	Client   *http.Client
	Token    string
	Endpoint string
}

type pushPlusRequest struct {
	Token    string `json:"token"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Template string `json:"template"`
}

type pushPlusResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (h pushPlusRepositoryHandler) Channel() string {
	return "pushplus"
}

func (h pushPlusRepositoryHandler) Send(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(pushPlusRequest{
		Token:    h.Token,
		Title:    title,
		Content:  body,
		Template: "txt",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal pushplus request: %w", err)
	}

	resp := pushPlusResponse{}
	if err := postJSON(ctx, h.Client, h.Endpoint, payload, &resp); err != nil {
		return fmt.Errorf("failed to send pushplus message: %w", err)
	}
	if resp.Code != 200 {
		return fmt.Errorf("%w: pushplus returned code %d: %s", domain.ErrDelivery, resp.Code, resp.Msg)
	}
	return nil
}

// postJSON posts payload and decodes the JSON reply into out.
func postJSON(ctx context.Context, client *http.Client, endpoint string, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d", domain.ErrDelivery, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", domain.ErrDelivery, err)
	}
	return nil
}
