// Package watchdog watches hold-carrying cart lines and classifies each as
// expiring soon, expired, or neither. Expiry for a given hold window is
// reported exactly once, however many polls observe it.
package watchdog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/pkg/clock"
)

// SoonEntry is a live countdown for a hold inside the expiring-soon window.
type SoonEntry struct {
	ProductID string
	VariantID string
	Title     string
	ExpiresAt time.Time
	Remaining time.Duration
}

// Event is an expiry notification, fired once per hold window.
type Event struct {
	CartKey   string
	ProductID string
	VariantID string
	Title     string
	ExpiredAt time.Time
}

// Classify splits hold-carrying lines by remaining time: at or past expiry,
// inside the soon window, or neither. Lines without a hold are ignored.
func Classify(items []cart.Item, now time.Time, soonWindow time.Duration) (soon []SoonEntry, expired []Event) {
	for _, it := range items {
		if !it.HasHold() {
			continue
		}
		remaining := it.HoldExpiresAt.Sub(now)
		switch {
		case remaining <= 0:
			expired = append(expired, Event{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Title:     it.TitleSnapshot,
				ExpiredAt: *it.HoldExpiresAt,
			})
		case remaining <= soonWindow:
			soon = append(soon, SoonEntry{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Title:     it.TitleSnapshot,
				ExpiresAt: *it.HoldExpiresAt,
				Remaining: remaining,
			})
		}
	}
	return soon, expired
}

// HeldLine pairs a hold-carrying line with the storage key of its cart.
type HeldLine struct {
	CartKey string
	Item    cart.Item
}

// Source supplies the current set of eligible lines on every poll.
type Source interface {
	ListHeldLines(ctx context.Context) ([]HeldLine, error)
}

// Sink receives each expiry event exactly once per hold window.
type Sink func(ctx context.Context, ev Event)

type Config struct {
	Interval   time.Duration
	SoonWindow time.Duration
	Enabled    bool
}

type Watcher struct {
	source Source
	sink   Sink
	clock  clock.Clock
	cfg    Config

	mu       sync.Mutex
	enabled  bool
	reported map[string]struct{}
	soon     map[string][]SoonEntry
}

func New(source Source, sink Sink, clk clock.Clock, cfg Config) *Watcher {
	return &Watcher{
		source:   source,
		sink:     sink,
		clock:    clk,
		cfg:      cfg,
		enabled:  cfg.Enabled,
		reported: make(map[string]struct{}),
		soon:     make(map[string][]SoonEntry),
	}
}

// Run polls on the configured interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll performs one evaluation pass over all eligible lines.
func (w *Watcher) Poll(ctx context.Context) {
	w.mu.Lock()
	if !w.enabled {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	lines, err := w.source.ListHeldLines(ctx)
	if err != nil {
		slog.Warn("hold watchdog scan failed", "error", err.Error())
		return
	}

	now := w.clock.Now()
	eligible := make(map[string]struct{}, len(lines))
	freshSoon := make(map[string][]SoonEntry)
	var fire []Event

	w.mu.Lock()
	for _, line := range lines {
		key := reportKey(line.CartKey, line.Item)
		eligible[key] = struct{}{}

		soon, expired := Classify([]cart.Item{line.Item}, now, w.cfg.SoonWindow)
		if len(soon) > 0 {
			freshSoon[line.CartKey] = append(freshSoon[line.CartKey], soon...)
		}
		for _, ev := range expired {
			if _, done := w.reported[key]; done {
				continue
			}
			w.reported[key] = struct{}{}
			ev.CartKey = line.CartKey
			fire = append(fire, ev)
		}
	}

	// Prune keys no longer eligible so a renewed hold on the same line can
	// be reported again later.
	for key := range w.reported {
		if _, ok := eligible[key]; !ok {
			delete(w.reported, key)
		}
	}

	// The expiring-soon view is rebuilt from scratch each poll; nothing
	// stale survives.
	w.soon = freshSoon
	w.mu.Unlock()

	for _, ev := range fire {
		w.sink(ctx, ev)
	}
}

// ExpiringSoon returns the soon entries for one cart, as of the last poll.
func (w *Watcher) ExpiringSoon(cartKey string) []SoonEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries := w.soon[cartKey]
	out := make([]SoonEntry, len(entries))
	copy(out, entries)
	return out
}

// SetEnabled toggles the watchdog. Disabling clears both output sets, so a
// later re-enable starts from a clean slate.
func (w *Watcher) SetEnabled(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.enabled = enabled
	if !enabled {
		w.reported = make(map[string]struct{})
		w.soon = make(map[string][]SoonEntry)
	}
}

// reportKey identifies one hold window: the cart, the line, and the hold
// instance. Renewing a hold changes the key, so the new window can fire.
func reportKey(cartKey string, it cart.Item) string {
	return cartKey + "|" + it.Key().String() + "|" + it.HoldID
}
