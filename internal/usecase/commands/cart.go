package commands

import (
	"context"
	"log/slog"
	"sync"

	"cedros-pay/internal/adapter"
	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/infra"
	"cedros-pay/internal/pkg/config"
	"cedros-pay/internal/pkg/debounce"
	"cedros-pay/internal/pkg/errs"
	"cedros-pay/internal/usecase/queries"
	"cedros-pay/internal/usecase/shared"

	"github.com/jinzhu/copier"
)

// CartCommands is the write side of the cart. Every mutation loads the
// current snapshot, folds one action through the reducer, and persists the
// result. Snapshot write failures are logged and swallowed: the reduced cart
// is still returned so the shopper's view stays responsive, and the next
// successful write repairs storage.
type CartCommands struct {
	repo     CartRepository
	remote   adapter.CommerceAdapter
	holds    adapter.HoldManager
	verifier adapter.InventoryVerifier
	cfg      config.CartConfig

	mu      sync.Mutex
	pushers map[string]*debounce.Debouncer
	pending map[string]cart.Cart
	merged  map[string]struct{}
}

func NewCartCommands(repo CartRepository, remote adapter.CommerceAdapter, cfg config.CartConfig) *CartCommands {
	u := &CartCommands{
		repo:    repo,
		remote:  remote,
		cfg:     cfg,
		pushers: make(map[string]*debounce.Debouncer),
		pending: make(map[string]cart.Cart),
		merged:  make(map[string]struct{}),
	}
	if cfg.HoldsEnabled {
		u.holds, _ = remote.(adapter.HoldManager)
	}
	u.verifier, _ = remote.(adapter.InventoryVerifier)
	return u
}

// AddItem appends or merges one line. When the adapter can verify inventory,
// the prospective quantity is checked first; issues are returned without
// mutating the cart.
func (u *CartCommands) AddItem(ctx context.Context, scope shared.CartScope, item cart.Item, qty float64) (*queries.CartView, []adapter.StockIssue, error) {
	cur, err := u.load(ctx, scope)
	if err != nil {
		return nil, nil, err
	}

	next := cart.Reduce(*cur, cart.Add{Item: item, Qty: qty})

	if u.verifier != nil {
		line, _ := next.Find(item.Key())
		issues, verifyErr := u.verifier.VerifyStock(ctx, []cart.Item{line})
		if verifyErr != nil {
			slog.Warn("stock verification failed, allowing add", "productId", item.ProductID, "error", verifyErr.Error())
		} else if len(issues) > 0 {
			return queries.NewCartView(*cur), issues, nil
		}
	}

	u.persist(ctx, scope, next)
	return queries.NewCartView(next), nil, nil
}

// RemoveItem drops the line matching the identity key, releasing its
// inventory hold first when one is attached. Absent lines are a no-op.
func (u *CartCommands) RemoveItem(ctx context.Context, scope shared.CartScope, key cart.LineKey) (*queries.CartView, error) {
	cur, err := u.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	if line, ok := cur.Find(key); ok {
		u.releaseHold(ctx, line)
	}

	next := cart.Reduce(*cur, cart.Remove{ProductID: key.ProductID, VariantID: key.VariantID})
	u.persist(ctx, scope, next)
	return queries.NewCartView(next), nil
}

// SetQuantity replaces a line's quantity; zero removes the line.
func (u *CartCommands) SetQuantity(ctx context.Context, scope shared.CartScope, key cart.LineKey, qty float64) (*queries.CartView, error) {
	cur, err := u.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	next := cart.Reduce(*cur, cart.SetQty{ProductID: key.ProductID, VariantID: key.VariantID, Qty: qty})
	if line, ok := cur.Find(key); ok {
		if _, stillThere := next.Find(key); !stillThere {
			u.releaseHold(ctx, line)
		}
	}

	u.persist(ctx, scope, next)
	return queries.NewCartView(next), nil
}

// Clear empties the cart, releases every attached hold, and deletes the
// stored snapshot outright instead of writing an empty one.
func (u *CartCommands) Clear(ctx context.Context, scope shared.CartScope) (*queries.CartView, error) {
	cur, err := u.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	for _, line := range cur.HeldItems() {
		u.releaseHold(ctx, line)
	}

	key := scope.StorageKey(u.cfg.StorageKeyPrefix)
	if delErr := u.repo.Delete(ctx, key); delErr != nil && !infra.IsKind(delErr, infra.KindNotFound) {
		slog.Warn("cart snapshot delete failed", "key", key, "error", delErr.Error())
	}
	u.schedulePush(scope, cart.Cart{})
	return queries.NewCartView(cart.Cart{}), nil
}

// SetPromoCode sets or clears the cart-level promo code.
func (u *CartCommands) SetPromoCode(ctx context.Context, scope shared.CartScope, code string) (*queries.CartView, error) {
	cur, err := u.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	next := cart.Reduce(*cur, cart.SetPromoCode{Code: code})
	u.persist(ctx, scope, next)
	return queries.NewCartView(next), nil
}

// AttachHold reserves a server-side inventory hold for one line and records
// the hold id and expiry on it.
func (u *CartCommands) AttachHold(ctx context.Context, scope shared.CartScope, key cart.LineKey) (*queries.CartView, error) {
	if u.holds == nil {
		return nil, errs.ErrHoldsDisabled
	}

	cur, err := u.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	line, ok := cur.Find(key)
	if !ok {
		return nil, errs.ErrLineNotFound
	}

	hold, err := u.holds.ReserveHold(ctx, line, u.cfg.HoldTTL)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to reserve hold"), errs.ErrHoldUnavailable)
	}

	expiresAt := hold.ExpiresAt
	next := cart.Reduce(*cur, cart.UpdateHold{
		ProductID:     key.ProductID,
		VariantID:     key.VariantID,
		HoldID:        hold.ID,
		HoldExpiresAt: &expiresAt,
	})
	u.persist(ctx, scope, next)
	return queries.NewCartView(next), nil
}

// ReleaseHold drops the hold from one line, releasing the server-side
// reservation when possible.
func (u *CartCommands) ReleaseHold(ctx context.Context, scope shared.CartScope, key cart.LineKey) (*queries.CartView, error) {
	cur, err := u.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	line, ok := cur.Find(key)
	if !ok {
		return nil, errs.ErrLineNotFound
	}
	u.releaseHold(ctx, line)

	next := cart.Reduce(*cur, cart.UpdateHold{ProductID: key.ProductID, VariantID: key.VariantID})
	u.persist(ctx, scope, next)
	return queries.NewCartView(next), nil
}

// EnsureMerged folds the guest-session cart into the signed-in customer's
// remote cart, once per customer for the life of the process. Later calls
// return the stored cart untouched, so repeated sign-in events cannot double
// quantities.
func (u *CartCommands) EnsureMerged(ctx context.Context, scope shared.CartScope) (*queries.CartView, error) {
	if !scope.SignedIn() {
		return nil, errs.ErrCartKeyRequired
	}
	custKey := scope.StorageKey(u.cfg.StorageKeyPrefix)

	u.mu.Lock()
	_, done := u.merged[custKey]
	if !done {
		u.merged[custKey] = struct{}{}
	}
	u.mu.Unlock()
	if done {
		cur, err := u.load(ctx, scope)
		if err != nil {
			return nil, err
		}
		return queries.NewCartView(*cur), nil
	}

	local := cart.Cart{}
	sessScope := shared.CartScope{SessionID: scope.SessionID}
	if scope.SessionID != "" {
		if c, err := u.load(ctx, sessScope); err == nil {
			local = *c
		}
	}

	customerID := scope.CustomerID.String()
	merged, err := u.remote.MergeCart(ctx, customerID, local)
	if err != nil {
		// The remote stays unreachable sometimes; merge against our own
		// stored snapshot so the shopper keeps a working cart.
		slog.Warn("remote cart merge failed, merging locally", "customerId", customerID, "error", err.Error())
		stored, loadErr := u.load(ctx, scope)
		if loadErr != nil {
			return nil, loadErr
		}
		m := cart.Merge(local, *stored)
		merged = &m
	}

	u.persist(ctx, scope, *merged)
	if scope.SessionID != "" {
		sessKey := sessScope.StorageKey(u.cfg.StorageKeyPrefix)
		if delErr := u.repo.Delete(ctx, sessKey); delErr != nil && !infra.IsKind(delErr, infra.KindNotFound) {
			slog.Warn("guest cart cleanup failed", "key", sessKey, "error", delErr.Error())
		}
	}
	return queries.NewCartView(*merged), nil
}

// Close flushes every pending remote push and stops the schedulers. Called
// on shutdown so debounced changes are not lost.
func (u *CartCommands) Close() {
	u.mu.Lock()
	pushers := make([]*debounce.Debouncer, 0, len(u.pushers))
	for _, d := range u.pushers {
		pushers = append(pushers, d)
	}
	u.mu.Unlock()

	for _, d := range pushers {
		d.Flush()
		d.Stop()
	}
}

func (u *CartCommands) load(ctx context.Context, scope shared.CartScope) (*cart.Cart, error) {
	if scope.IsZero() {
		return nil, errs.ErrCartKeyRequired
	}

	c, err := u.repo.Load(ctx, scope.StorageKey(u.cfg.StorageKeyPrefix))
	if infra.IsKind(err, infra.KindNotFound) {
		return &cart.Cart{}, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to load cart")
	}
	return c, nil
}

func (u *CartCommands) persist(ctx context.Context, scope shared.CartScope, next cart.Cart) {
	key := scope.StorageKey(u.cfg.StorageKeyPrefix)
	if err := u.repo.Save(ctx, key, next); err != nil {
		slog.Warn("cart snapshot write failed", "key", key, "error", err.Error())
	}
	u.schedulePush(scope, next)
}

// schedulePush queues a debounced sync of the customer's cart to the remote
// side. A burst of edits collapses into one push after the cooldown. Guest
// carts never sync.
func (u *CartCommands) schedulePush(scope shared.CartScope, c cart.Cart) {
	if !scope.SignedIn() {
		return
	}
	key := scope.StorageKey(u.cfg.StorageKeyPrefix)
	customerID := scope.CustomerID.String()

	var snapshot cart.Cart
	if err := copier.CopyWithOption(&snapshot, &c, copier.Option{DeepCopy: true}); err != nil {
		slog.Warn("cart snapshot copy failed, skipping remote push", "key", key, "error", err.Error())
		return
	}

	u.mu.Lock()
	u.pending[key] = snapshot
	d, ok := u.pushers[key]
	if !ok {
		d = debounce.New(u.cfg.SyncDebounce, func() {
			u.mu.Lock()
			latest := u.pending[key]
			u.mu.Unlock()

			if err := u.remote.UpdateCart(context.Background(), customerID, latest); err != nil {
				slog.Warn("remote cart push failed", "customerId", customerID, "error", err.Error())
			}
		})
		u.pushers[key] = d
	}
	u.mu.Unlock()

	d.Trigger()
}

func (u *CartCommands) releaseHold(ctx context.Context, line cart.Item) {
	if u.holds == nil || !line.HasHold() {
		return
	}
	if err := u.holds.ReleaseHold(ctx, line.HoldID); err != nil {
		slog.Warn("hold release failed", "holdId", line.HoldID, "error", err.Error())
	}
}
