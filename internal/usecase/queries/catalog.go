package queries

import (
	"context"
	"errors"

	"cedros-pay/internal/adapter"
	"cedros-pay/internal/pkg/errs"
)

// ErrCapabilityUnsupported is returned when the configured adapter does not
// implement an optional capability.
var ErrCapabilityUnsupported = errors.New("adapter capability unsupported")

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// CatalogQueries fronts the commerce adapter for all catalog reads and maps
// its failures onto domain errors.
type CatalogQueries struct {
	adapter adapter.CommerceAdapter
}

func NewCatalogQueries(a adapter.CommerceAdapter) *CatalogQueries {
	return &CatalogQueries{adapter: a}
}

func (q *CatalogQueries) ListProducts(ctx context.Context, filters adapter.ProductFilters, sort adapter.SortOrder, page, pageSize int) (*adapter.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	result, err := q.adapter.ListProducts(ctx, filters, sort, page, pageSize)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list products")
	}
	return result, nil
}

func (q *CatalogQueries) GetProductBySlug(ctx context.Context, slug string) (*adapter.Product, error) {
	p, err := q.adapter.GetProductBySlug(ctx, slug)
	if errors.Is(err, adapter.ErrNotFound) {
		return nil, errs.ErrProductNotFound
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to fetch product")
	}
	return p, nil
}

func (q *CatalogQueries) ListCategories(ctx context.Context) ([]adapter.Category, error) {
	cats, err := q.adapter.ListCategories(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list categories")
	}
	return cats, nil
}

func (q *CatalogQueries) GetOrderHistory(ctx context.Context, customerID string) ([]adapter.Order, error) {
	orders, err := q.adapter.GetOrderHistory(ctx, customerID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to fetch order history")
	}
	return orders, nil
}

func (q *CatalogQueries) GetRelatedProducts(ctx context.Context, productID string, limit int) ([]adapter.Product, error) {
	p, ok := q.adapter.(adapter.RelatedProductsProvider)
	if !ok {
		return nil, ErrCapabilityUnsupported
	}
	related, err := p.GetRelatedProducts(ctx, productID, limit)
	if err != nil {
		return nil, errs.Wrap(err, "failed to fetch related products")
	}
	return related, nil
}

func (q *CatalogQueries) GetShippingMethods(ctx context.Context) ([]adapter.ShippingMethod, error) {
	p, ok := q.adapter.(adapter.ShippingMethodsProvider)
	if !ok {
		return nil, ErrCapabilityUnsupported
	}
	methods, err := p.GetShippingMethods(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to fetch shipping methods")
	}
	return methods, nil
}

func (q *CatalogQueries) GetStorefrontSettings(ctx context.Context) (*adapter.StorefrontSettings, error) {
	p, ok := q.adapter.(adapter.StorefrontSettingsProvider)
	if !ok {
		return nil, ErrCapabilityUnsupported
	}
	settings, err := p.GetStorefrontSettings(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to fetch storefront settings")
	}
	return settings, nil
}

func (q *CatalogQueries) GetPaymentMethodsConfig(ctx context.Context) (*adapter.PaymentMethodsConfig, error) {
	p, ok := q.adapter.(adapter.PaymentMethodsProvider)
	if !ok {
		return nil, ErrCapabilityUnsupported
	}
	cfg, err := p.GetPaymentMethodsConfig(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to fetch payment methods")
	}
	return cfg, nil
}
