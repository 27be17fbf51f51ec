package notify

import (
	"context"
	"fmt"
	"net/http"
)

// Telegram sends messages through the Bot API sendMessage endpoint.
type Telegram struct {
	// BaseURL is overridable for tests.
	BaseURL string

	hc     *http.Client
	token  string
	chatID string
}

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		BaseURL: "https://api.telegram.org",
		hc:      newHTTPClient(),
		token:   token,
		chatID:  chatID,
	}
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Notify(ctx context.Context, message string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.token)
	payload := map[string]string{
		"chat_id": t.chatID,
		"text":    message,
	}
	return postJSON(ctx, t.hc, url, nil, payload)
}
