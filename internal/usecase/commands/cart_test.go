//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cedros-pay/internal/adapter"
	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/pkg/config"
	"cedros-pay/internal/pkg/errs"
	"cedros-pay/internal/usecase/commands"
	"cedros-pay/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCartConfig() config.CartConfig {
	cfg := config.NewTestConfig().Cart
	return cfg
}

func guestScope() shared.CartScope {
	return shared.CartScope{SessionID: "sess-1"}
}

func customerScope() shared.CartScope {
	id := uuid.New()
	return shared.CartScope{CustomerID: &id, SessionID: "sess-1"}
}

func lineFor(productID string) cart.Item {
	return cart.Item{ProductID: productID, UnitPrice: 10, Currency: "USD"}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestCartCommandsAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds and persists under the session storage key", func(t *testing.T) {
		repo := newFakeCartRepo()
		uc := commands.NewCartCommands(repo, newFakeRemote(), testCartConfig())
		defer uc.Close()

		view, issues, err := uc.AddItem(ctx, guestScope(), lineFor("p1"), 2)
		require.NoError(t, err)
		assert.Empty(t, issues)
		assert.Equal(t, 2, view.Count)

		stored, ok := repo.get("test-cart:sess:sess-1")
		require.True(t, ok)
		assert.Equal(t, 2, stored.Items[0].Qty)
	})

	t.Run("stock issues block the add and leave the cart unchanged", func(t *testing.T) {
		repo := newFakeCartRepo()
		remote := newFakeRemote()
		remote.stockIssues = []adapter.StockIssue{{ProductID: "p1", Reason: adapter.IssueOutOfStock}}
		uc := commands.NewCartCommands(repo, remote, testCartConfig())
		defer uc.Close()

		view, issues, err := uc.AddItem(ctx, guestScope(), lineFor("p1"), 1)
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, 0, view.Count)

		_, ok := repo.get("test-cart:sess:sess-1")
		assert.False(t, ok)
	})

	t.Run("storage write failure is swallowed and the view still reflects the add", func(t *testing.T) {
		repo := newFakeCartRepo()
		repo.saveErr = errors.New("disk on fire")
		uc := commands.NewCartCommands(repo, newFakeRemote(), testCartConfig())
		defer uc.Close()

		view, issues, err := uc.AddItem(ctx, guestScope(), lineFor("p1"), 1)
		require.NoError(t, err)
		assert.Empty(t, issues)
		assert.Equal(t, 1, view.Count)
	})

	t.Run("zero scope is rejected", func(t *testing.T) {
		uc := commands.NewCartCommands(newFakeCartRepo(), newFakeRemote(), testCartConfig())
		defer uc.Close()

		_, _, err := uc.AddItem(ctx, shared.CartScope{}, lineFor("p1"), 1)
		assert.ErrorIs(t, err, errs.ErrCartKeyRequired)
	})
}

func TestCartCommandsDebouncedPush(t *testing.T) {
	ctx := context.Background()

	t.Run("a burst of edits collapses into one remote push", func(t *testing.T) {
		repo := newFakeCartRepo()
		remote := newFakeRemote()
		uc := commands.NewCartCommands(repo, remote, testCartConfig())
		defer uc.Close()

		scope := customerScope()
		for range 5 {
			_, _, err := uc.AddItem(ctx, scope, lineFor("p1"), 1)
			require.NoError(t, err)
		}

		waitFor(t, func() bool { return remote.pushCount() >= 1 })
		assert.Equal(t, 1, remote.pushCount())

		pushed, ok := remote.lastPush()
		require.True(t, ok)
		assert.Equal(t, 5, pushed.Items[0].Qty, "push carries the latest snapshot")
	})

	t.Run("guest edits never sync", func(t *testing.T) {
		remote := newFakeRemote()
		uc := commands.NewCartCommands(newFakeCartRepo(), remote, testCartConfig())
		defer uc.Close()

		_, _, err := uc.AddItem(ctx, guestScope(), lineFor("p1"), 1)
		require.NoError(t, err)

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 0, remote.pushCount())
	})

	t.Run("close flushes a pending push", func(t *testing.T) {
		remote := newFakeRemote()
		cfg := testCartConfig()
		cfg.SyncDebounce = time.Hour
		uc := commands.NewCartCommands(newFakeCartRepo(), remote, cfg)

		_, _, err := uc.AddItem(ctx, customerScope(), lineFor("p1"), 1)
		require.NoError(t, err)

		uc.Close()
		assert.Equal(t, 1, remote.pushCount())
	})
}

func TestCartCommandsSetQuantityAndRemove(t *testing.T) {
	ctx := context.Background()
	scope := guestScope()

	setup := func(t *testing.T) (*commands.CartCommands, *fakeCartRepo, *fakeRemote) {
		repo := newFakeCartRepo()
		remote := newFakeRemote()
		uc := commands.NewCartCommands(repo, remote, testCartConfig())
		t.Cleanup(uc.Close)

		_, _, err := uc.AddItem(ctx, scope, lineFor("p1"), 3)
		require.NoError(t, err)
		return uc, repo, remote
	}

	t.Run("set quantity", func(t *testing.T) {
		uc, _, _ := setup(t)
		view, err := uc.SetQuantity(ctx, scope, cart.LineKey{ProductID: "p1"}, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, view.Count)
	})

	t.Run("set quantity to zero removes the line", func(t *testing.T) {
		uc, _, _ := setup(t)
		view, err := uc.SetQuantity(ctx, scope, cart.LineKey{ProductID: "p1"}, 0)
		require.NoError(t, err)
		assert.Empty(t, view.Items)
	})

	t.Run("remove releases an attached hold", func(t *testing.T) {
		uc, _, remote := setup(t)

		_, err := uc.AttachHold(ctx, scope, cart.LineKey{ProductID: "p1"})
		require.NoError(t, err)

		_, err = uc.RemoveItem(ctx, scope, cart.LineKey{ProductID: "p1"})
		require.NoError(t, err)
		assert.Len(t, remote.released, 1)
	})

	t.Run("clear deletes the snapshot", func(t *testing.T) {
		uc, repo, _ := setup(t)
		view, err := uc.Clear(ctx, scope)
		require.NoError(t, err)
		assert.Empty(t, view.Items)

		_, ok := repo.get("test-cart:sess:sess-1")
		assert.False(t, ok)
	})
}

func TestCartCommandsHolds(t *testing.T) {
	ctx := context.Background()
	scope := guestScope()

	t.Run("attach records hold id and expiry on the line", func(t *testing.T) {
		uc := commands.NewCartCommands(newFakeCartRepo(), newFakeRemote(), testCartConfig())
		defer uc.Close()

		_, _, err := uc.AddItem(ctx, scope, lineFor("p1"), 1)
		require.NoError(t, err)

		view, err := uc.AttachHold(ctx, scope, cart.LineKey{ProductID: "p1"})
		require.NoError(t, err)
		require.True(t, view.Items[0].HasHold())
	})

	t.Run("attach on a missing line", func(t *testing.T) {
		uc := commands.NewCartCommands(newFakeCartRepo(), newFakeRemote(), testCartConfig())
		defer uc.Close()

		_, err := uc.AttachHold(ctx, scope, cart.LineKey{ProductID: "ghost"})
		assert.ErrorIs(t, err, errs.ErrLineNotFound)
	})

	t.Run("reservation failure maps to hold-unavailable", func(t *testing.T) {
		remote := newFakeRemote()
		remote.holdErr = errors.New("sold out")
		uc := commands.NewCartCommands(newFakeCartRepo(), remote, testCartConfig())
		defer uc.Close()

		_, _, err := uc.AddItem(ctx, scope, lineFor("p1"), 1)
		require.NoError(t, err)

		_, err = uc.AttachHold(ctx, scope, cart.LineKey{ProductID: "p1"})
		assert.ErrorIs(t, err, errs.ErrHoldUnavailable)
	})

	t.Run("holds disabled by config", func(t *testing.T) {
		cfg := testCartConfig()
		cfg.HoldsEnabled = false
		uc := commands.NewCartCommands(newFakeCartRepo(), newFakeRemote(), cfg)
		defer uc.Close()

		_, err := uc.AttachHold(ctx, scope, cart.LineKey{ProductID: "p1"})
		assert.ErrorIs(t, err, errs.ErrHoldsDisabled)
	})

	t.Run("release clears the hold fields", func(t *testing.T) {
		remote := newFakeRemote()
		uc := commands.NewCartCommands(newFakeCartRepo(), remote, testCartConfig())
		defer uc.Close()

		_, _, err := uc.AddItem(ctx, scope, lineFor("p1"), 1)
		require.NoError(t, err)
		_, err = uc.AttachHold(ctx, scope, cart.LineKey{ProductID: "p1"})
		require.NoError(t, err)

		view, err := uc.ReleaseHold(ctx, scope, cart.LineKey{ProductID: "p1"})
		require.NoError(t, err)
		assert.False(t, view.Items[0].HasHold())
		assert.Len(t, remote.released, 1)
	})
}

func TestCartCommandsEnsureMerged(t *testing.T) {
	ctx := context.Background()

	t.Run("merges guest cart into the remote cart once", func(t *testing.T) {
		repo := newFakeCartRepo()
		remote := newFakeRemote()
		uc := commands.NewCartCommands(repo, remote, testCartConfig())
		defer uc.Close()

		scope := customerScope()
		remote.carts[scope.CustomerID.String()] = cart.Cart{Items: []cart.Item{{ProductID: "p1", Qty: 2, UnitPrice: 10}}}

		_, _, err := uc.AddItem(ctx, shared.CartScope{SessionID: scope.SessionID}, lineFor("p1"), 1)
		require.NoError(t, err)

		view, err := uc.EnsureMerged(ctx, scope)
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, 3, view.Items[0].Qty)
		assert.Equal(t, 1, remote.merges)

		// The guest snapshot is gone and a second sign-in event is a no-op.
		_, ok := repo.get("test-cart:sess:sess-1")
		assert.False(t, ok)

		again, err := uc.EnsureMerged(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, 3, again.Items[0].Qty)
		assert.Equal(t, 1, remote.merges, "merge must fire once per customer")
	})

	t.Run("falls back to the stored snapshot when the remote fails", func(t *testing.T) {
		repo := newFakeCartRepo()
		remote := newFakeRemote()
		remote.mergeErr = errors.New("remote down")
		uc := commands.NewCartCommands(repo, remote, testCartConfig())
		defer uc.Close()

		scope := customerScope()
		_, _, err := uc.AddItem(ctx, shared.CartScope{SessionID: scope.SessionID}, lineFor("p1"), 2)
		require.NoError(t, err)

		view, err := uc.EnsureMerged(ctx, scope)
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, 2, view.Items[0].Qty)
	})

	t.Run("guest scope cannot merge", func(t *testing.T) {
		uc := commands.NewCartCommands(newFakeCartRepo(), newFakeRemote(), testCartConfig())
		defer uc.Close()

		_, err := uc.EnsureMerged(ctx, guestScope())
		assert.ErrorIs(t, err, errs.ErrCartKeyRequired)
	})
}
