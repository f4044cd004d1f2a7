package components

import (
	"context"
	"encoding/json"
	"log/slog"

	repo_impl "cedros-pay/internal/infra/repository"
	"cedros-pay/internal/pkg/clock"
	"cedros-pay/internal/pkg/config"
	"cedros-pay/internal/watchdog"

	"go.uber.org/fx"
)

// WorkerModule runs the inventory-hold watchdog for the life of the app. It
// polls the cart store for held lines and enqueues a notification job for
// each expiry, once per hold window.
var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewHoldWatcher,
	),
	fx.Invoke(runHoldWatcher),
)

type heldLineSource struct {
	store HeldLineStore
}

func (s heldLineSource) ListHeldLines(ctx context.Context) ([]watchdog.HeldLine, error) {
	lines, err := s.store.ListHeld(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]watchdog.HeldLine, len(lines))
	for i, l := range lines {
		out[i] = watchdog.HeldLine{CartKey: l.CartKey, Item: l.Item}
	}
	return out, nil
}

func NewHoldWatcher(store HeldLineStore, notifications *repo_impl.NotificationStore, clk clock.Clock, cfg config.Config) *watchdog.Watcher {
	sink := func(ctx context.Context, ev watchdog.Event) {
		payload, err := json.Marshal(ev)
		if err != nil {
			slog.Error("hold expiry payload marshal failed", "cartKey", ev.CartKey, "error", err.Error())
			return
		}
		if err := notifications.CreateJob(ctx, "hold_expired", ev.CartKey, payload, clk.Now()); err != nil {
			slog.Warn("hold expiry notification enqueue failed", "cartKey", ev.CartKey, "error", err.Error())
		}
	}

	return watchdog.New(heldLineSource{store: store}, sink, clk, watchdog.Config{
		Interval:   cfg.Cart.WatchdogInterval,
		SoonWindow: cfg.Cart.ExpiringSoon,
		Enabled:    cfg.Cart.HoldsEnabled,
	})
}

func runHoldWatcher(lc fx.Lifecycle, watcher *watchdog.Watcher) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				watcher.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
