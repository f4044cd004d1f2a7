package memoryadapter

import (
	"cedros-pay/internal/adapter"
	"cedros-pay/internal/domain/checkout"
)

func intPtr(n int) *int { return &n }

// DemoCatalog returns a small storefront used by the default deployment and
// the end-to-end tests: physical goods with tracked stock, a digital
// download, and a product carrying per-product requirement overrides.
func DemoCatalog() Catalog {
	return Catalog{
		Products: []adapter.Product{
			{
				ID:        "prod-tee",
				Slug:      "logo-tee",
				Title:     "Logo Tee",
				Price:     24.00,
				Currency:  "USD",
				Available: true,
				CategoryIDs: []string{
					"cat-apparel",
				},
				Variants: []adapter.Variant{
					{ID: "var-tee-s", Title: "Small", Stock: intPtr(12)},
					{ID: "var-tee-m", Title: "Medium", Stock: intPtr(8)},
					{ID: "var-tee-l", Title: "Large", Stock: intPtr(0)},
				},
			},
			{
				ID:          "prod-mug",
				Slug:        "enamel-mug",
				Title:       "Enamel Mug",
				Price:       16.50,
				Currency:    "USD",
				Available:   true,
				Stock:       intPtr(40),
				CategoryIDs: []string{"cat-goods"},
			},
			{
				ID:        "prod-ebook",
				Slug:      "field-guide-ebook",
				Title:     "Field Guide (eBook)",
				Price:     9.00,
				Currency:  "USD",
				Available: true,
				Metadata: map[string]string{
					checkout.MetaFulfillmentType: checkout.FulfillmentDigitalDownload,
					checkout.MetaRequireEmail:    "required",
				},
				CategoryIDs: []string{"cat-digital"},
			},
			{
				ID:        "prod-poster",
				Slug:      "signed-poster",
				Title:     "Signed Poster",
				Price:     35.00,
				Currency:  "USD",
				Available: true,
				Stock:     intPtr(5),
				Metadata: map[string]string{
					checkout.MetaRequirePhone:    "required",
					checkout.MetaFulfillmentNote: "Ships rolled in a tube.",
				},
				CategoryIDs: []string{"cat-goods"},
			},
		},
		Categories: []adapter.Category{
			{ID: "cat-apparel", Slug: "apparel", Name: "Apparel"},
			{ID: "cat-goods", Slug: "goods", Name: "Goods"},
			{ID: "cat-digital", Slug: "digital", Name: "Digital"},
		},
		Settings: adapter.StorefrontSettings{
			StoreName:       "Cedros Pay Demo Store",
			DefaultCurrency: "USD",
			SupportEmail:    "support@example.test",
		},
		Shipping: []adapter.ShippingMethod{
			{ID: "ship-std", Label: "Standard", Price: 4.99, Currency: "USD"},
			{ID: "ship-exp", Label: "Express", Price: 14.99, Currency: "USD"},
		},
		Payments: adapter.PaymentMethodsConfig{
			Methods: []string{"card", "wallet"},
		},
	}
}
