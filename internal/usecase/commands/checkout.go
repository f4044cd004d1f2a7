package commands

import (
	"context"

	"cedros-pay/internal/adapter"
	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/domain/checkout"
	"cedros-pay/internal/infra"
	"cedros-pay/internal/pkg/config"
	"cedros-pay/internal/pkg/errs"
	"cedros-pay/internal/usecase/shared"
)

// CheckoutCommands turns a cart into a checkout session. Stock is verified
// cart-wide first; any issue blocks session creation and is reported back so
// the shopper can fix the cart instead of discovering the problem at payment.
type CheckoutCommands struct {
	repo     CartRepository
	remote   adapter.CommerceAdapter
	verifier adapter.InventoryVerifier
	policy   checkout.StorePolicy
	cfg      config.CartConfig
}

func NewCheckoutCommands(repo CartRepository, remote adapter.CommerceAdapter, policy checkout.StorePolicy, cfg config.CartConfig) *CheckoutCommands {
	u := &CheckoutCommands{
		repo:   repo,
		remote: remote,
		policy: policy,
		cfg:    cfg,
	}
	u.verifier, _ = remote.(adapter.InventoryVerifier)
	return u
}

// VerifyCart re-checks every line against live inventory. An adapter without
// verification reports no issues.
func (u *CheckoutCommands) VerifyCart(ctx context.Context, scope shared.CartScope) ([]adapter.StockIssue, error) {
	c, err := u.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	if u.verifier == nil || c.IsEmpty() {
		return nil, nil
	}

	issues, err := u.verifier.VerifyStock(ctx, c.Items)
	if err != nil {
		return nil, errs.Wrap(err, "failed to verify stock")
	}
	return issues, nil
}

// CreateSession derives the checkout requirements for the cart and asks the
// adapter for a session. Stock issues are returned alongside a nil session.
func (u *CheckoutCommands) CreateSession(ctx context.Context, scope shared.CartScope, customer adapter.Customer, successURL, cancelURL string) (*adapter.CheckoutSession, []adapter.StockIssue, error) {
	c, err := u.load(ctx, scope)
	if err != nil {
		return nil, nil, err
	}
	if c.IsEmpty() {
		return nil, nil, errs.ErrCartEmpty
	}

	if u.verifier != nil {
		issues, verifyErr := u.verifier.VerifyStock(ctx, c.Items)
		if verifyErr != nil {
			return nil, nil, errs.Wrap(verifyErr, "failed to verify stock")
		}
		if len(issues) > 0 {
			return nil, issues, nil
		}
	}

	opts := adapter.CheckoutOptions{
		SuccessURL:   successURL,
		CancelURL:    cancelURL,
		Requirements: checkout.Derive(u.policy, c.Items),
	}
	session, err := u.remote.CreateCheckoutSession(ctx, *c, customer, opts)
	if err != nil {
		return nil, nil, errs.Mark(errs.Wrap(err, "failed to create checkout session"), errs.ErrCheckoutBlocked)
	}
	return session, nil, nil
}

func (u *CheckoutCommands) load(ctx context.Context, scope shared.CartScope) (*cart.Cart, error) {
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
