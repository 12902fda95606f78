package repository

import (
	"context"
	"encoding/json"
	"etfgrid/internal/domain"
	"fmt"
	"net/http"
	"strings"
)

const telegramAPI = "https://api.telegram.org"

func NewTelegramRepository(botToken, chatID string) NotificationRepository {
	return NewTelegramRepositoryWithURL(botToken, chatID, telegramAPI)
}

func NewTelegramRepositoryWithURL(botToken, chatID, apiURL string) NotificationRepository {
	return &telegramRepositoryHandler{
		Client:   &http.Client{Timeout: notifierTimeout},
		BotToken: botToken,
		ChatID:   chatID,
		ApiURL:   strings.TrimRight(apiURL, "/"),
	}
}

type telegramRepositoryHandler struct {
	Client   *http.Client
	BotToken string
	ChatID   string
	ApiURL   string
}

type telegramResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
}

func (h telegramRepositoryHandler) Channel() string {
	return "telegram"
}

func (h telegramRepositoryHandler) Send(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": h.ChatID,
		"text":    title + "\n\n" + body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", h.ApiURL, h.BotToken)
	resp := telegramResponse{}
	if err := postJSON(ctx, h.Client, endpoint, payload, &resp); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("%w: telegram rejected message: %s", domain.ErrDelivery, resp.Description)
	}
	return nil
}
