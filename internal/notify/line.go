package notify

import (
	"context"
	"net/http"

	"github.com/example/toyoko-monitor/internal/toyoko"
)

// Line pushes messages through the LINE Messaging API.
type Line struct {
	// BaseURL is overridable for tests.
	BaseURL string

	hc    *http.Client
	token string
	to    string
}

func NewLine(channelAccessToken, to string) *Line {
	return &Line{
		BaseURL: "https://api.line.me",
		hc:      newHTTPClient(),
		token:   channelAccessToken,
		to:      to,
	}
}

func (l *Line) Name() string { return "line" }

type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type linePush struct {
	To       string        `json:"to"`
	Messages []lineMessage `json:"messages"`
}

func (l *Line) Notify(ctx context.Context, message string) error {
	headers := map[string]string{
		"Authorization": "Bearer " + l.token,
		"User-Agent":    toyoko.UserAgent,
	}
	payload := linePush{
		To:       l.to,
		Messages: []lineMessage{{Type: "text", Text: message}},
	}
	return postJSON(ctx, l.hc, l.BaseURL+"/v2/bot/message/push", headers, payload)
}
