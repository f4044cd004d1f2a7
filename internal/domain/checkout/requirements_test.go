//go:build unit

package checkout_test

import (
	"testing"

	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/domain/checkout"

	"github.com/stretchr/testify/assert"
)

func physical(meta map[string]string) cart.Item {
	return cart.Item{ProductID: "p-phys", Qty: 1, Metadata: meta}
}

func digital(meta map[string]string) cart.Item {
	m := map[string]string{checkout.MetaFulfillmentType: checkout.FulfillmentDigitalDownload}
	for k, v := range meta {
		m[k] = v
	}
	return cart.Item{ProductID: "p-digi", Qty: 1, Metadata: m}
}

var defaultPolicy = checkout.StorePolicy{
	EmailMode:          checkout.LevelRequired,
	DefaultContactMode: checkout.LevelOptional,
	ShippingAllowed:    true,
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want checkout.Level
	}{
		{"required", checkout.LevelRequired},
		{"REQUIRED", checkout.LevelRequired},
		{" optional ", checkout.LevelOptional},
		{"none", checkout.LevelNone},
		{"", checkout.LevelNone},
		{"banana", checkout.LevelNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, checkout.ParseLevel(tc.in), "input %q", tc.in)
	}
}

func TestDerive(t *testing.T) {
	t.Run("empty cart uses store defaults, no addresses", func(t *testing.T) {
		req := checkout.Derive(defaultPolicy, nil)

		assert.Equal(t, checkout.LevelRequired, req.Email)
		assert.Equal(t, checkout.LevelOptional, req.Name)
		assert.False(t, req.ShippingAddress)
		assert.False(t, req.BillingAddress)
	})

	t.Run("physical line turns shipping on when the store ships", func(t *testing.T) {
		req := checkout.Derive(defaultPolicy, []cart.Item{physical(nil)})
		assert.True(t, req.ShippingAddress)
	})

	t.Run("line metadata upgrades but never downgrades", func(t *testing.T) {
		req := checkout.Derive(defaultPolicy, []cart.Item{
			physical(map[string]string{checkout.MetaRequirePhone: "required"}),
			physical(map[string]string{checkout.MetaRequirePhone: "none"}),
			physical(map[string]string{checkout.MetaRequireEmail: "optional"}),
		})

		assert.Equal(t, checkout.LevelRequired, req.Phone, "required line wins over none line")
		assert.Equal(t, checkout.LevelRequired, req.Email, "store-required email cannot be weakened")
	})

	t.Run("adding lines is monotonic for contact fields", func(t *testing.T) {
		items := []cart.Item{physical(nil)}
		prev := checkout.Derive(defaultPolicy, items)

		items = append(items, physical(map[string]string{checkout.MetaRequireName: "required"}))
		next := checkout.Derive(defaultPolicy, items)

		assert.GreaterOrEqual(t, int(next.Email), int(prev.Email))
		assert.GreaterOrEqual(t, int(next.Name), int(prev.Name))
		assert.GreaterOrEqual(t, int(next.Phone), int(prev.Phone))
	})

	t.Run("digital-only cart never collects shipping", func(t *testing.T) {
		req := checkout.Derive(defaultPolicy, []cart.Item{
			digital(nil),
			digital(map[string]string{checkout.MetaRequireShipping: "true"}),
		})
		assert.False(t, req.ShippingAddress, "digital lines cannot force a shipping address")
	})

	t.Run("one physical line re-enables shipping in a mixed cart", func(t *testing.T) {
		req := checkout.Derive(defaultPolicy, []cart.Item{digital(nil), physical(nil)})
		assert.True(t, req.ShippingAddress)
	})

	t.Run("digital lines still upgrade contact fields", func(t *testing.T) {
		req := checkout.Derive(defaultPolicy, []cart.Item{
			digital(map[string]string{checkout.MetaRequirePhone: "required"}),
		})
		assert.Equal(t, checkout.LevelRequired, req.Phone)
	})

	t.Run("store that does not ship needs an explicit line flag", func(t *testing.T) {
		policy := defaultPolicy
		policy.ShippingAllowed = false

		req := checkout.Derive(policy, []cart.Item{physical(nil)})
		assert.False(t, req.ShippingAddress)

		req = checkout.Derive(policy, []cart.Item{
			physical(map[string]string{checkout.MetaRequireShipping: "true"}),
		})
		assert.True(t, req.ShippingAddress)
	})

	t.Run("billing only from physical line metadata", func(t *testing.T) {
		req := checkout.Derive(defaultPolicy, []cart.Item{
			physical(map[string]string{checkout.MetaRequireBilling: "true"}),
		})
		assert.True(t, req.BillingAddress)

		req = checkout.Derive(defaultPolicy, []cart.Item{
			digital(map[string]string{checkout.MetaRequireBilling: "true"}),
		})
		assert.False(t, req.BillingAddress)
	})

	t.Run("fulfillment notes are deduplicated and joined", func(t *testing.T) {
		req := checkout.Derive(defaultPolicy, []cart.Item{
			physical(map[string]string{checkout.MetaFulfillmentNote: "Ships in a tube."}),
			physical(map[string]string{checkout.MetaFulfillmentNote: "Ships in a tube."}),
			digital(map[string]string{checkout.MetaFulfillmentNote: "Download link by email."}),
		})
		assert.Equal(t, "Ships in a tube. Download link by email.", req.FulfillmentNotes)
	})
}
