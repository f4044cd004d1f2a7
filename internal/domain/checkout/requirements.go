// Package checkout derives the set of contact and address fields a checkout
// form must collect, from store policy and the cart's line metadata.
package checkout

import (
	"strings"

	"cedros-pay/internal/domain/cart"
)

// Level orders requirement strength: none < optional < required. Deriving
// requirements only ever upgrades a field.
type Level int

const (
	LevelNone Level = iota
	LevelOptional
	LevelRequired
)

func (l Level) String() string {
	switch l {
	case LevelOptional:
		return "optional"
	case LevelRequired:
		return "required"
	default:
		return "none"
	}
}

// ParseLevel maps a metadata or config value to a Level. Unknown values
// parse as none so malformed product metadata cannot tighten a field.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "required":
		return LevelRequired
	case "optional":
		return LevelOptional
	default:
		return LevelNone
	}
}

func maxLevel(a, b Level) Level {
	if b > a {
		return b
	}
	return a
}

// Metadata keys recognized on cart lines.
const (
	MetaFulfillmentType = "fulfillment.type"
	MetaFulfillmentNote = "fulfillment.note"
	MetaRequireEmail    = "requirement.email"
	MetaRequireName     = "requirement.name"
	MetaRequirePhone    = "requirement.phone"
	MetaRequireShipping = "requirement.shippingAddress"
	MetaRequireBilling  = "requirement.billingAddress"

	FulfillmentDigitalDownload = "digital_download"
)

// StorePolicy is the store-level default from which per-line metadata can
// only upgrade.
type StorePolicy struct {
	EmailMode          Level
	DefaultContactMode Level
	ShippingAllowed    bool
}

// Requirements is the union requirement for the whole cart.
type Requirements struct {
	Email            Level  `json:"email"`
	Name             Level  `json:"name"`
	Phone            Level  `json:"phone"`
	ShippingAddress  bool   `json:"shippingAddress"`
	BillingAddress   bool   `json:"billingAddress"`
	FulfillmentNotes string `json:"fulfillmentNotes,omitempty"`
}

// IsDigital reports whether a line is digital-fulfillment-only. Lines
// without a fulfillment type are treated as physical.
func IsDigital(it cart.Item) bool {
	return it.Metadata[MetaFulfillmentType] == FulfillmentDigitalDownload
}

// Derive computes the most-restrictive-wins requirement across all lines,
// starting from store defaults. Fields never decrease as lines are added;
// the one exception is the terminal digital-only correction, which forces
// ShippingAddress off when no physical line is present.
func Derive(policy StorePolicy, items []cart.Item) Requirements {
	req := Requirements{
		Email: policy.EmailMode,
		Name:  policy.DefaultContactMode,
		Phone: policy.DefaultContactMode,
	}

	anyPhysical := false
	var notes []string
	seenNotes := map[string]bool{}

	for _, it := range items {
		req.Email = maxLevel(req.Email, ParseLevel(it.Metadata[MetaRequireEmail]))
		req.Name = maxLevel(req.Name, ParseLevel(it.Metadata[MetaRequireName]))
		req.Phone = maxLevel(req.Phone, ParseLevel(it.Metadata[MetaRequirePhone]))

		if note := strings.TrimSpace(it.Metadata[MetaFulfillmentNote]); note != "" && !seenNotes[note] {
			seenNotes[note] = true
			notes = append(notes, note)
		}

		if IsDigital(it) {
			// Digital lines contribute no address requirement.
			continue
		}
		anyPhysical = true

		if policy.ShippingAllowed || it.Metadata[MetaRequireShipping] == "true" {
			req.ShippingAddress = true
		}
		if it.Metadata[MetaRequireBilling] == "true" {
			req.BillingAddress = true
		}
	}

	if !anyPhysical {
		// Digital-only carts never collect shipping, regardless of what any
		// line's metadata claims.
		req.ShippingAddress = false
	}

	req.FulfillmentNotes = strings.Join(notes, " ")
	return req
}
