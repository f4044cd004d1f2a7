//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"cedros-pay/internal/adapter"
	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/infra"
)

// fakeCartRepo is an in-memory CartRepository with injectable failures.
type fakeCartRepo struct {
	mu      sync.Mutex
	carts   map[string]cart.Cart
	saveErr error
	saves   int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]cart.Cart)}
}

func (r *fakeCartRepo) Load(_ context.Context, key string) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[key]
	if !ok {
		return nil, infra.WrapRepoErr("cart not found", errors.New("no rows"), infra.KindNotFound)
	}
	out := c
	return &out, nil
}

func (r *fakeCartRepo) Save(_ context.Context, key string, c cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.carts[key] = c
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, key)
	return nil
}

func (r *fakeCartRepo) get(key string) (cart.Cart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[key]
	return c, ok
}

// fakeRemote is a scripted CommerceAdapter that records cart sync traffic.
type fakeRemote struct {
	mu          sync.Mutex
	carts       map[string]cart.Cart
	pushes      []cart.Cart
	merges      int
	mergeErr    error
	stockIssues []adapter.StockIssue
	verifyErr   error

	holdErr   error
	nextHold  int
	released  []string
	holdsSeen []cart.Item
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{carts: make(map[string]cart.Cart)}
}

func (f *fakeRemote) ListProducts(context.Context, adapter.ProductFilters, adapter.SortOrder, int, int) (*adapter.ProductPage, error) {
	return &adapter.ProductPage{}, nil
}

func (f *fakeRemote) GetProductBySlug(context.Context, string) (*adapter.Product, error) {
	return nil, adapter.ErrNotFound
}

func (f *fakeRemote) ListCategories(context.Context) ([]adapter.Category, error) {
	return nil, nil
}

func (f *fakeRemote) GetOrderHistory(context.Context, string) ([]adapter.Order, error) {
	return nil, nil
}

func (f *fakeRemote) GetCart(_ context.Context, customerID string) (*cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[customerID]
	if !ok {
		return nil, adapter.ErrNotFound
	}
	out := c
	return &out, nil
}

func (f *fakeRemote) MergeCart(_ context.Context, customerID string, local cart.Cart) (*cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.merges++
	if f.mergeErr != nil {
		return nil, f.mergeErr
	}
	merged := cart.Merge(local, f.carts[customerID])
	f.carts[customerID] = merged
	out := merged
	return &out, nil
}

func (f *fakeRemote) UpdateCart(_ context.Context, customerID string, c cart.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[customerID] = c
	f.pushes = append(f.pushes, c)
	return nil
}

func (f *fakeRemote) CreateCheckoutSession(context.Context, cart.Cart, adapter.Customer, adapter.CheckoutOptions) (*adapter.CheckoutSession, error) {
	return &adapter.CheckoutSession{Kind: adapter.SessionRedirect, RedirectURL: "https://pay.example.test/s/1"}, nil
}

func (f *fakeRemote) VerifyStock(context.Context, []cart.Item) ([]adapter.StockIssue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.stockIssues, nil
}

func (f *fakeRemote) ReserveHold(_ context.Context, item cart.Item, ttl time.Duration) (*adapter.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.holdErr != nil {
		return nil, f.holdErr
	}
	f.nextHold++
	f.holdsSeen = append(f.holdsSeen, item)
	return &adapter.Hold{
		ID:        "hold-" + string(rune('0'+f.nextHold)),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (f *fakeRemote) ReleaseHold(_ context.Context, holdID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, holdID)
	return nil
}

func (f *fakeRemote) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func (f *fakeRemote) lastPush() (cart.Cart, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pushes) == 0 {
		return cart.Cart{}, false
	}
	return f.pushes[len(f.pushes)-1], true
}
