// Package cart holds the cart aggregate and its reducer. The reducer is the
// sole mutator of cart state: every transition folds an Action into a new
// Cart value, keeping one line per (product, variant) identity key.
package cart

import (
	"math"
	"time"
)

// Item is one line entry in the cart. UnitPrice and Currency are snapshots
// taken at add time so the cart can render without re-fetching the product.
type Item struct {
	ProductID       string            `json:"productId"`
	VariantID       string            `json:"variantId,omitempty"`
	Qty             int               `json:"qty"`
	UnitPrice       float64           `json:"unitPrice"`
	Currency        string            `json:"currency,omitempty"`
	TitleSnapshot   string            `json:"titleSnapshot,omitempty"`
	ImageSnapshot   string            `json:"imageSnapshot,omitempty"`
	PaymentResource string            `json:"paymentResource,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	HoldID          string            `json:"holdId,omitempty"`
	HoldExpiresAt   *time.Time        `json:"holdExpiresAt,omitempty"`
}

// LineKey is the identity of a cart line. An empty VariantID means the base
// product; two lines are the same iff both fields match exactly.
type LineKey struct {
	ProductID string
	VariantID string
}

func (k LineKey) String() string {
	return k.ProductID + "::" + k.VariantID
}

func (i Item) Key() LineKey {
	return LineKey{ProductID: i.ProductID, VariantID: i.VariantID}
}

// HasHold reports whether the line carries a live server-side reservation.
func (i Item) HasHold() bool {
	return i.HoldID != "" && i.HoldExpiresAt != nil
}

// Cart is the aggregate root. The zero value is a valid empty cart.
type Cart struct {
	Items     []Item `json:"items"`
	PromoCode string `json:"promoCode,omitempty"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Count is the total number of units across all lines.
func (c Cart) Count() int {
	total := 0
	for _, it := range c.Items {
		total += it.Qty
	}
	return total
}

// Subtotal sums qty times unit price across lines. Tax, shipping and
// discounts are checkout-side concerns and are not applied here.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, it := range c.Items {
		total += float64(it.Qty) * it.UnitPrice
	}
	return total
}

func (c Cart) Find(key LineKey) (Item, bool) {
	for _, it := range c.Items {
		if it.Key() == key {
			return it, true
		}
	}
	return Item{}, false
}

// HeldItems returns the lines eligible for hold-expiry watching.
func (c Cart) HeldItems() []Item {
	var held []Item
	for _, it := range c.Items {
		if it.HasHold() {
			held = append(held, it)
		}
	}
	return held
}

// Normalize repairs a cart loaded from untrusted storage: duplicate identity
// keys are merged by summing quantities and non-positive quantities are
// dropped. Carts produced by Reduce are already normal.
func Normalize(c Cart) Cart {
	out := Cart{PromoCode: c.PromoCode}
	for _, it := range c.Items {
		if it.Qty < 1 {
			continue
		}
		if idx := indexOf(out.Items, it.Key()); idx >= 0 {
			out.Items[idx].Qty += it.Qty
			continue
		}
		out.Items = append(out.Items, it)
	}
	return out
}

// Merge unions two carts by identity key, summing quantities for lines
// present in both. Field snapshots of the first cart win on collision, and
// its promo code wins when set. Used for the one-shot local/remote merge on
// sign-in.
func Merge(local, remote Cart) Cart {
	merged := Cart{
		Items:     make([]Item, len(local.Items)),
		PromoCode: local.PromoCode,
	}
	copy(merged.Items, local.Items)

	for _, it := range remote.Items {
		if it.Qty < 1 {
			continue
		}
		if idx := indexOf(merged.Items, it.Key()); idx >= 0 {
			merged.Items[idx].Qty += it.Qty
			continue
		}
		merged.Items = append(merged.Items, it)
	}

	if merged.PromoCode == "" {
		merged.PromoCode = remote.PromoCode
	}
	return merged
}

func indexOf(items []Item, key LineKey) int {
	for i, it := range items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

func clampQty(qty float64, floor int) int {
	n := int(math.Floor(qty))
	if n < floor {
		return floor
	}
	return n
}
