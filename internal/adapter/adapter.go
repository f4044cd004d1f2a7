// Package adapter defines the commerce-adapter boundary: the external
// collaborator supplying catalog, order, remote-cart and checkout-session
// data. Optional behavior is modeled as separate capability interfaces that
// callers type-assert, never probed at runtime by method name.
package adapter

import (
	"context"
	"errors"
	"time"

	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/domain/checkout"
)

// ErrNotFound is returned by lookups for a missing product, category or
// remote cart.
var ErrNotFound = errors.New("adapter: not found")

type Product struct {
	ID              string            `json:"id"`
	Slug            string            `json:"slug"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	ImageURL        string            `json:"imageUrl,omitempty"`
	Price           float64           `json:"price"`
	Currency        string            `json:"currency"`
	PaymentResource string            `json:"paymentResource,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Variants        []Variant         `json:"variants,omitempty"`
	CategoryIDs     []string          `json:"categoryIds,omitempty"`
	Stock           *int              `json:"stock,omitempty"`
	Available       bool              `json:"available"`
}

type Variant struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Price *float64 `json:"price,omitempty"`
	Stock *int     `json:"stock,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId"`
	Items      []cart.Item `json:"items"`
	Total      float64     `json:"total"`
	Currency   string      `json:"currency"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type ProductFilters struct {
	CategoryID string
	Search     string
}

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

type ProductPage struct {
	Items       []Product `json:"items"`
	Page        int       `json:"page"`
	PageSize    int       `json:"pageSize"`
	Total       *int      `json:"total,omitempty"`
	HasNextPage bool      `json:"hasNextPage"`
}

type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type CheckoutOptions struct {
	SuccessURL   string
	CancelURL    string
	Requirements checkout.Requirements
}

type SessionKind string

const (
	SessionRedirect SessionKind = "redirect"
	SessionEmbedded SessionKind = "embedded"
	SessionCustom   SessionKind = "custom"
)

// CheckoutSession is the adapter's answer to a checkout request: a hosted
// redirect URL, an embedded client secret, or adapter-defined custom data.
// Exactly the field matching Kind is set.
type CheckoutSession struct {
	Kind         SessionKind    `json:"kind"`
	RedirectURL  string         `json:"url,omitempty"`
	ClientSecret string         `json:"clientSecret,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

// CommerceAdapter is the required capability set. Every storefront adapter
// implements all of it; optional behavior lives in the capability
// interfaces below.
type CommerceAdapter interface {
	ListProducts(ctx context.Context, filters ProductFilters, sort SortOrder, page, pageSize int) (*ProductPage, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetOrderHistory(ctx context.Context, customerID string) ([]Order, error)

	GetCart(ctx context.Context, customerID string) (*cart.Cart, error)
	MergeCart(ctx context.Context, customerID string, local cart.Cart) (*cart.Cart, error)
	UpdateCart(ctx context.Context, customerID string, c cart.Cart) error

	CreateCheckoutSession(ctx context.Context, c cart.Cart, customer Customer, opts CheckoutOptions) (*CheckoutSession, error)
}

type ShippingMethod struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type StorefrontSettings struct {
	StoreName       string `json:"storeName"`
	DefaultCurrency string `json:"defaultCurrency"`
	SupportEmail    string `json:"supportEmail,omitempty"`
}

type PaymentMethodsConfig struct {
	Methods []string `json:"methods"`
}

// Optional capabilities. A handler that needs one type-asserts:
//
//	if p, ok := a.(adapter.ShippingMethodsProvider); ok { ... }
type ShippingMethodsProvider interface {
	GetShippingMethods(ctx context.Context) ([]ShippingMethod, error)
}

type StorefrontSettingsProvider interface {
	GetStorefrontSettings(ctx context.Context) (*StorefrontSettings, error)
}

type PaymentMethodsProvider interface {
	GetPaymentMethodsConfig(ctx context.Context) (*PaymentMethodsConfig, error)
}

type RelatedProductsProvider interface {
	GetRelatedProducts(ctx context.Context, productID string, limit int) ([]Product, error)
}

// StockIssueReason classifies a per-line inventory problem. Issues are
// reported to the caller instead of failing the request, so the shopper can
// remediate before checkout.
type StockIssueReason string

const (
	IssueOutOfStock         StockIssueReason = "out_of_stock"
	IssueInsufficientStock  StockIssueReason = "insufficient_stock"
	IssueProductUnavailable StockIssueReason = "product_unavailable"
)

type StockIssue struct {
	ProductID string           `json:"productId"`
	VariantID string           `json:"variantId,omitempty"`
	Reason    StockIssueReason `json:"reason"`
	Available int              `json:"available"`
}

// InventoryVerifier is the single verification capability behind both the
// per-item re-check and the cart-wide pre-checkout check.
type InventoryVerifier interface {
	VerifyStock(ctx context.Context, items []cart.Item) ([]StockIssue, error)
}

type Hold struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HoldManager reserves and releases server-side inventory holds tied to
// cart lines.
type HoldManager interface {
	ReserveHold(ctx context.Context, item cart.Item, ttl time.Duration) (*Hold, error)
	ReleaseHold(ctx context.Context, holdID string) error
}
