// Package memoryadapter is an in-memory CommerceAdapter used for demos and
// tests. All state is constructor-injected and instance-scoped; there are
// no package-level registries, so two adapters never share anything.
package memoryadapter

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cedros-pay/internal/adapter"
	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/pkg/clock"

	"github.com/google/uuid"
)

// Catalog seeds the adapter with products, categories and order history.
type Catalog struct {
	Products   []adapter.Product
	Categories []adapter.Category
	Orders     []adapter.Order
	Settings   adapter.StorefrontSettings
	Shipping   []adapter.ShippingMethod
	Payments   adapter.PaymentMethodsConfig
}

type holdRecord struct {
	key       cart.LineKey
	qty       int
	expiresAt time.Time
}

type Adapter struct {
	mu      sync.Mutex
	catalog Catalog
	clock   clock.Clock

	// stock is keyed by line identity; nil entry means untracked stock.
	stock map[cart.LineKey]*int
	carts map[string]cart.Cart
	holds map[string]holdRecord
}

var (
	_ adapter.CommerceAdapter            = (*Adapter)(nil)
	_ adapter.InventoryVerifier          = (*Adapter)(nil)
	_ adapter.HoldManager                = (*Adapter)(nil)
	_ adapter.ShippingMethodsProvider    = (*Adapter)(nil)
	_ adapter.StorefrontSettingsProvider = (*Adapter)(nil)
	_ adapter.PaymentMethodsProvider     = (*Adapter)(nil)
	_ adapter.RelatedProductsProvider    = (*Adapter)(nil)
)

func New(catalog Catalog, clk clock.Clock) *Adapter {
	a := &Adapter{
		catalog: catalog,
		clock:   clk,
		stock:   make(map[cart.LineKey]*int),
		carts:   make(map[string]cart.Cart),
		holds:   make(map[string]holdRecord),
	}
	for _, p := range catalog.Products {
		if p.Stock != nil {
			n := *p.Stock
			a.stock[cart.LineKey{ProductID: p.ID}] = &n
		}
		for _, v := range p.Variants {
			if v.Stock != nil {
				n := *v.Stock
				a.stock[cart.LineKey{ProductID: p.ID, VariantID: v.ID}] = &n
			}
		}
	}
	return a
}

func (a *Adapter) ListProducts(_ context.Context, filters adapter.ProductFilters, sortOrder adapter.SortOrder, page, pageSize int) (*adapter.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var matched []adapter.Product
	for _, p := range a.catalog.Products {
		if filters.CategoryID != "" && !containsString(p.CategoryIDs, filters.CategoryID) {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filters.Search)) {
			continue
		}
		matched = append(matched, p)
	}

	switch sortOrder {
	case adapter.SortPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case adapter.SortPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	}

	total := len(matched)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]adapter.Product, end-start)
	copy(items, matched[start:end])

	return &adapter.ProductPage{
		Items:       items,
		Page:        page,
		PageSize:    pageSize,
		Total:       &total,
		HasNextPage: end < total,
	}, nil
}

func (a *Adapter) GetProductBySlug(_ context.Context, slug string) (*adapter.Product, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, p := range a.catalog.Products {
		if p.Slug == slug {
			out := p
			return &out, nil
		}
	}
	return nil, adapter.ErrNotFound
}

func (a *Adapter) ListCategories(_ context.Context) ([]adapter.Category, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]adapter.Category, len(a.catalog.Categories))
	copy(out, a.catalog.Categories)
	return out, nil
}

func (a *Adapter) GetOrderHistory(_ context.Context, customerID string) ([]adapter.Order, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []adapter.Order
	for _, o := range a.catalog.Orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (a *Adapter) GetCart(_ context.Context, customerID string) (*cart.Cart, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.carts[customerID]
	if !ok {
		return nil, adapter.ErrNotFound
	}
	out := c
	return &out, nil
}

func (a *Adapter) MergeCart(_ context.Context, customerID string, local cart.Cart) (*cart.Cart, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	merged := cart.Merge(local, a.carts[customerID])
	a.carts[customerID] = merged
	out := merged
	return &out, nil
}

func (a *Adapter) UpdateCart(_ context.Context, customerID string, c cart.Cart) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.carts[customerID] = c
	return nil
}

func (a *Adapter) CreateCheckoutSession(_ context.Context, c cart.Cart, customer adapter.Customer, _ adapter.CheckoutOptions) (*adapter.CheckoutSession, error) {
	sessionID := uuid.New().String()
	return &adapter.CheckoutSession{
		Kind:        adapter.SessionRedirect,
		RedirectURL: "https://checkout.example.test/session/" + sessionID,
	}, nil
}

func (a *Adapter) VerifyStock(_ context.Context, items []cart.Item) ([]adapter.StockIssue, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var issues []adapter.StockIssue
	for _, it := range items {
		p := a.findProduct(it.ProductID)
		if p == nil || !p.Available {
			issues = append(issues, adapter.StockIssue{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Reason:    adapter.IssueProductUnavailable,
			})
			continue
		}

		stock, tracked := a.stock[it.Key()]
		if !tracked || stock == nil {
			continue
		}
		switch {
		case *stock <= 0:
			issues = append(issues, adapter.StockIssue{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Reason:    adapter.IssueOutOfStock,
			})
		case *stock < it.Qty:
			issues = append(issues, adapter.StockIssue{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Reason:    adapter.IssueInsufficientStock,
				Available: *stock,
			})
		}
	}
	return issues, nil
}

func (a *Adapter) ReserveHold(_ context.Context, item cart.Item, ttl time.Duration) (*adapter.Hold, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseExpiredLocked()

	stock, tracked := a.stock[item.Key()]
	if tracked && stock != nil && *stock < item.Qty {
		return nil, adapter.ErrNotFound
	}
	if tracked && stock != nil {
		*stock -= item.Qty
	}

	id := uuid.New().String()
	expiresAt := a.clock.Now().Add(ttl)
	a.holds[id] = holdRecord{key: item.Key(), qty: item.Qty, expiresAt: expiresAt}

	return &adapter.Hold{ID: id, ExpiresAt: expiresAt}, nil
}

func (a *Adapter) ReleaseHold(_ context.Context, holdID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.holds[holdID]
	if !ok {
		return adapter.ErrNotFound
	}
	delete(a.holds, holdID)
	if stock := a.stock[rec.key]; stock != nil {
		*stock += rec.qty
	}
	return nil
}

func (a *Adapter) GetShippingMethods(_ context.Context) ([]adapter.ShippingMethod, error) {
	out := make([]adapter.ShippingMethod, len(a.catalog.Shipping))
	copy(out, a.catalog.Shipping)
	return out, nil
}

func (a *Adapter) GetStorefrontSettings(_ context.Context) (*adapter.StorefrontSettings, error) {
	s := a.catalog.Settings
	return &s, nil
}

func (a *Adapter) GetPaymentMethodsConfig(_ context.Context) (*adapter.PaymentMethodsConfig, error) {
	p := a.catalog.Payments
	return &p, nil
}

func (a *Adapter) GetRelatedProducts(_ context.Context, productID string, limit int) ([]adapter.Product, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	src := a.findProduct(productID)
	if src == nil {
		return nil, adapter.ErrNotFound
	}

	var related []adapter.Product
	for _, p := range a.catalog.Products {
		if p.ID == productID || limit > 0 && len(related) >= limit {
			continue
		}
		if sharesCategory(src.CategoryIDs, p.CategoryIDs) {
			related = append(related, p)
		}
	}
	return related, nil
}

// releaseExpiredLocked returns held stock for holds past their expiry.
// Caller must hold a.mu.
func (a *Adapter) releaseExpiredLocked() {
	now := a.clock.Now()
	for id, rec := range a.holds {
		if now.Before(rec.expiresAt) {
			continue
		}
		delete(a.holds, id)
		if stock := a.stock[rec.key]; stock != nil {
			*stock += rec.qty
		}
	}
}

func (a *Adapter) findProduct(id string) *adapter.Product {
	for i := range a.catalog.Products {
		if a.catalog.Products[i].ID == id {
			return &a.catalog.Products[i]
		}
	}
	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func sharesCategory(a, b []string) bool {
	for _, x := range a {
		if containsString(b, x) {
			return true
		}
	}
	return false
}
