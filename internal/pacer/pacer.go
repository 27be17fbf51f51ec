// Package pacer enforces a minimum delay between outbound calls to the
// upstream API so the monitor never hammers the site.
package pacer

import (
	"context"
	"math/rand"
	"time"
)

// RequestPacer blocks callers until at least minInterval plus a fresh
// uniform jitter has elapsed since the previous Pace call returned. The
// first call never blocks. time.Time carries a monotonic reading, so the
// gate is immune to wall-clock adjustments.
//
// Not safe for concurrent use; targets are processed sequentially and all
// upstream calls share one pacer.
type RequestPacer struct {
	minInterval time.Duration
	jitter      time.Duration
	last        time.Time
}

func New(minInterval, jitter time.Duration) *RequestPacer {
	if minInterval < 0 {
		minInterval = 0
	}
	if jitter < 0 {
		jitter = 0
	}
	return &RequestPacer{minInterval: minInterval, jitter: jitter}
}

// Pace sleeps until the paced interval has elapsed, or returns early with
// ctx.Err() on cancellation.
func (p *RequestPacer) Pace(ctx context.Context) error {
	target := p.minInterval
	if p.jitter > 0 {
		target += time.Duration(rand.Int63n(int64(p.jitter) + 1))
	}
	if !p.last.IsZero() {
		if wait := target - time.Since(p.last); wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}
	}
	p.last = time.Now()
	return nil
}
