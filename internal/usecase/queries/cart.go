package queries

import (
	"context"

	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/domain/checkout"
	"cedros-pay/internal/infra"
	"cedros-pay/internal/pkg/clock"
	"cedros-pay/internal/pkg/config"
	"cedros-pay/internal/pkg/errs"
	"cedros-pay/internal/usecase/shared"
	"cedros-pay/internal/watchdog"
)

// CartReader is the read side of cart persistence.
type CartReader interface {
	Load(ctx context.Context, key string) (*cart.Cart, error)
}

type CartQueries struct {
	repo   CartReader
	clock  clock.Clock
	policy checkout.StorePolicy
	cfg    config.CartConfig
}

func NewCartQueries(repo CartReader, clk clock.Clock, policy checkout.StorePolicy, cfg config.CartConfig) *CartQueries {
	return &CartQueries{
		repo:   repo,
		clock:  clk,
		policy: policy,
		cfg:    cfg,
	}
}

// Get returns the cart for a scope. A scope with no stored snapshot reads as
// an empty cart rather than an error.
func (q *CartQueries) Get(ctx context.Context, scope shared.CartScope) (*CartView, error) {
	c, err := q.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	return NewCartView(*c), nil
}

// GetRequirements derives the checkout contact and address requirements for
// the cart's current contents under the store policy.
func (q *CartQueries) GetRequirements(ctx context.Context, scope shared.CartScope) (*checkout.Requirements, error) {
	c, err := q.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	req := checkout.Derive(q.policy, c.Items)
	return &req, nil
}

// GetHoldStatus classifies the cart's held lines against the clock: inside
// the expiring-soon window or already past expiry.
func (q *CartQueries) GetHoldStatus(ctx context.Context, scope shared.CartScope) (*HoldStatusView, error) {
	c, err := q.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	soon, expired := watchdog.Classify(c.Items, q.clock.Now(), q.cfg.ExpiringSoon)

	view := &HoldStatusView{
		ExpiringSoon: make([]ExpiringHoldView, 0, len(soon)),
		Expired:      make([]ExpiredHoldView, 0, len(expired)),
	}
	for _, s := range soon {
		view.ExpiringSoon = append(view.ExpiringSoon, ExpiringHoldView{
			ProductID:   s.ProductID,
			VariantID:   s.VariantID,
			Title:       s.Title,
			ExpiresAt:   s.ExpiresAt,
			RemainingMs: s.Remaining.Milliseconds(),
		})
	}
	for _, e := range expired {
		view.Expired = append(view.Expired, ExpiredHoldView{
			ProductID: e.ProductID,
			VariantID: e.VariantID,
			Title:     e.Title,
			ExpiredAt: e.ExpiredAt,
		})
	}
	return view, nil
}

func (q *CartQueries) load(ctx context.Context, scope shared.CartScope) (*cart.Cart, error) {
	if scope.IsZero() {
		return nil, errs.ErrCartKeyRequired
	}

	c, err := q.repo.Load(ctx, scope.StorageKey(q.cfg.StorageKeyPrefix))
	if infra.IsKind(err, infra.KindNotFound) {
		return &cart.Cart{}, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to load cart")
	}
	return c, nil
}

func NewCartView(c cart.Cart) *CartView {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return &CartView{
		Items:     items,
		PromoCode: c.PromoCode,
		Count:     c.Count(),
		Subtotal:  c.Subtotal(),
	}
}
