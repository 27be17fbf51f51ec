// Package monitor drives the fetch → evaluate → diff → notify pipeline
// over all configured targets, one cycle at a time.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/example/toyoko-monitor/internal/config"
	"github.com/example/toyoko-monitor/internal/state"
	"github.com/example/toyoko-monitor/internal/target"
	"github.com/example/toyoko-monitor/internal/toyoko"
)

// Target-level failure conditions. Both are caught per target, reported
// through the notification channels, and never abort the cycle.
var (
	ErrNoHotels         = errors.New("no hotels returned for target")
	ErrNoPreferredMatch = errors.New("no configured hotel code belongs to target")
)

// HotelAPI is the two-phase upstream fetch surface implemented by the
// toyoko client; tests substitute a stub.
type HotelAPI interface {
	FetchHotels(ctx context.Context, t target.SearchTarget, sc toyoko.StayCriteria) (map[string]string, string, error)
	FetchAvailability(ctx context.Context, hotelCodes []string, sc toyoko.StayCriteria) (any, error)
}

// Sender fans a message out to the notification channels, best-effort.
type Sender interface {
	Send(ctx context.Context, message string)
}

// Monitor owns the state mapping for the process lifetime and processes
// targets strictly sequentially; nothing here needs locking as long as
// that single-loop invariant holds.
type Monitor struct {
	cfg      *config.Config
	api      HotelAPI
	store    *state.Store
	notifier Sender
}

func New(cfg *config.Config, api HotelAPI, store *state.Store, notifier Sender) *Monitor {
	return &Monitor{cfg: cfg, api: api, store: store, notifier: notifier}
}

// Summary reports the outcome of one target in one cycle.
type Summary struct {
	DisplayLabel    string
	TargetHotels    int
	CheckedHotels   int
	AvailableHotels int
	Notified        bool
}

// Run executes cycles until the context is cancelled, or exactly one
// cycle when run-once is configured. The state file is written once at the
// end of every cycle regardless of per-target failures.
func (m *Monitor) Run(ctx context.Context) error {
	targets, err := target.Resolve(m.cfg.Search.AreaIDs, m.cfg.Search.Prefectures)
	if err != nil {
		return err
	}

	for cycle := 1; ; cycle++ {
		log.Info().Int("cycle", cycle).Int("targets", len(targets)).Msg("cycle start")
		m.RunCycle(ctx, targets)

		if err := m.store.Save(); err != nil {
			log.Error().Err(err).Msg("state save failed")
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.cfg.Monitor.RunOnce {
			log.Info().Msg("run-once mode, exiting after one cycle")
			return nil
		}

		wait := m.cfg.Monitor.ScheduleInterval + jitter(m.cfg.Monitor.ScheduleJitter)
		if wait < time.Second {
			wait = time.Second
		}
		log.Info().Dur("wait", wait).Msg("sleeping until next cycle")
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// RunCycle makes one pass over targets in order. A failing target is
// logged, reported through the notifier, and skipped; the remaining
// targets still run.
func (m *Monitor) RunCycle(ctx context.Context, targets []target.SearchTarget) {
	for i, t := range targets {
		if ctx.Err() != nil {
			return
		}

		res, err := m.processTarget(ctx, t)
		if err != nil {
			log.Error().Err(err).Str("target", res.DisplayLabel).Msg("target check failed")
		} else {
			log.Info().
				Str("target", res.DisplayLabel).
				Int("hotels", res.TargetHotels).
				Int("checked", res.CheckedHotels).
				Int("available", res.AvailableHotels).
				Bool("notified", res.Notified).
				Msg("target done")
		}

		if i < len(targets)-1 && m.cfg.Monitor.TargetDelay > 0 {
			if sleep(ctx, m.cfg.Monitor.TargetDelay) != nil {
				return
			}
		}
	}
}

// processTarget runs the two-phase fetch for one target, diffs the result
// against the saved state, and notifies when the policy says so. On any
// failure an error alert is sent through the same channels and the
// target's state record is left untouched.
func (m *Monitor) processTarget(ctx context.Context, t target.SearchTarget) (Summary, error) {
	sc := m.criteria()
	label := t.Display

	directory, label, err := m.api.FetchHotels(ctx, t, sc)
	if err != nil {
		m.notifier.Send(ctx, buildErrorMessage(label, err))
		return Summary{DisplayLabel: label}, err
	}

	targetHotels := make([]string, 0, len(directory))
	for code := range directory {
		targetHotels = append(targetHotels, code)
	}
	sort.Strings(targetHotels)

	if len(targetHotels) == 0 {
		err := fmt.Errorf("%w: %s=%s", ErrNoHotels, t.Kind, t.Value)
		m.notifier.Send(ctx, buildErrorMessage(label, err))
		return Summary{DisplayLabel: label}, err
	}

	checkCodes := targetHotels
	if len(m.cfg.Search.HotelCodes) > 0 {
		checkCodes = intersect(m.cfg.Search.HotelCodes, directory)
		if len(checkCodes) == 0 {
			err := fmt.Errorf("%w: %s=%s", ErrNoPreferredMatch, t.Kind, t.Value)
			m.notifier.Send(ctx, buildErrorMessage(label, err))
			return Summary{DisplayLabel: label}, err
		}
	}

	payload, err := m.api.FetchAvailability(ctx, checkCodes, sc)
	if err != nil {
		m.notifier.Send(ctx, buildErrorMessage(label, err))
		return Summary{DisplayLabel: label}, err
	}
	available := toyoko.ParseAvailable(payload, checkCodes)

	key := state.Key(t, sc, m.cfg.Search.HotelCodes)
	prev, hadPrev := m.store.Get(key)
	fingerprint := state.Fingerprint(available)

	firstRun := !hadPrev
	changed := !hadPrev || prev.Fingerprint != fingerprint

	notified := false
	if ShouldNotify(changed, firstRun, len(available) > 0,
		m.cfg.Monitor.NotifyOnFirstRun, m.cfg.Monitor.NotifyWhenAvailableAlways) {
		m.notifier.Send(ctx, buildAvailabilityMessage(m.cfg, label, len(checkCodes), available, directory))
		notified = true
	}

	// State advances on every successful check, notified or not.
	m.store.Put(key, state.Record{
		Fingerprint:    fingerprint,
		AvailableCodes: available,
		UpdatedAt:      time.Now().UTC(),
		TargetKind:     string(t.Kind),
		TargetValue:    t.Value,
		DisplayLabel:   label,
	})

	return Summary{
		DisplayLabel:    label,
		TargetHotels:    len(targetHotels),
		CheckedHotels:   len(checkCodes),
		AvailableHotels: len(available),
		Notified:        notified,
	}, nil
}

func (m *Monitor) criteria() toyoko.StayCriteria {
	return toyoko.StayCriteria{
		CheckinDate:  m.cfg.Search.CheckinDate,
		CheckoutDate: m.cfg.Search.CheckoutDate,
		People:       m.cfg.Search.People,
		Rooms:        m.cfg.Search.Rooms,
		Smoking:      m.cfg.Search.Smoking,
	}
}

// intersect keeps the preferred codes that exist in the directory, sorted.
func intersect(preferred []string, directory map[string]string) []string {
	var out []string
	seen := map[string]bool{}
	for _, code := range preferred {
		if _, ok := directory[code]; ok && !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max) + 1))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
