// Package notify delivers plain-text messages through the configured
// messaging channels. Delivery is best-effort: failures are logged and
// swallowed, never propagated to the monitoring pipeline.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Notifier delivers one text message to one external channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, message string) error
}

// Fanout dispatches a message to every configured channel.
type Fanout struct {
	channels []Notifier
}

func NewFanout(channels ...Notifier) *Fanout {
	return &Fanout{channels: channels}
}

// Send delivers to all channels. Per-channel failures are logged and do
// not stop delivery to the remaining channels.
func (f *Fanout) Send(ctx context.Context, message string) {
	for _, ch := range f.channels {
		if err := ch.Notify(ctx, message); err != nil {
			log.Warn().Err(err).Str("channel", ch.Name()).Msg("notification failed")
			continue
		}
		log.Info().Str("channel", ch.Name()).Msg("notification sent")
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func postJSON(ctx context.Context, hc *http.Client, rawURL string, headers map[string]string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("post failed (status=%d)", res.StatusCode)
	}
	return nil
}
