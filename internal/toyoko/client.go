// Package toyoko is a client for the Toyoko Inn public booking API.
//
// Both endpoints are called anonymously but reject traffic that does not
// look like a browser, so every request carries a fixed browser header set.
// The response schemas are undocumented and have drifted before; parsing is
// tolerant of missing branches at every level.
package toyoko

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

// UserAgent is shared with the LINE transport, which sends the same UA.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/122.0.0.0 Safari/537.36"

// browserHeaders must be reproduced verbatim or the upstream may reject
// the request.
var browserHeaders = map[string]string{
	"User-Agent":      UserAgent,
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "ja,en-US;q=0.9,en;q=0.8,zh-TW;q=0.7",
	"Referer":         "https://www.toyoko-inn.com/",
	"Origin":          "https://www.toyoko-inn.com",
	"Connection":      "keep-alive",
}

// StayCriteria are the booking parameters shared by every target. Dates
// are UTC ISO-8601 with milliseconds and a Z suffix.
type StayCriteria struct {
	CheckinDate  string
	CheckoutDate string
	People       int
	Rooms        int
	Smoking      string
}

// Pacer gates outbound calls; see the pacer package.
type Pacer interface {
	Pace(ctx context.Context) error
}

type Options struct {
	SearchURL       string
	AvailabilityURL string
	Timeout         time.Duration
}

// Client issues the two-phase fetch against the Toyoko Inn API. All calls
// go through one shared pacer and one circuit breaker; after repeated
// consecutive failures the breaker opens and calls fail fast until the
// upstream recovers.
type Client struct {
	hc      *http.Client
	opts    Options
	pacer   Pacer
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func New(opts Options, p Pacer) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 45 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "toyoko-api",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("upstream circuit breaker state change")
		},
	})
	return &Client{
		hc:      &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		pacer:   p,
		breaker: cb,
	}
}

// getJSON paces, performs a GET through the breaker, and decodes the body
// into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out *any) error {
	if c.pacer != nil {
		if err := c.pacer.Pace(ctx); err != nil {
			return err
		}
	}
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, rawURL, params)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", rawURL, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	req.URL.RawQuery = params.Encode()

	log.Debug().Str("url", req.URL.String()).Msg("GET")
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("GET %s failed (status=%d)", rawURL, res.StatusCode)
	}
	return b, nil
}
