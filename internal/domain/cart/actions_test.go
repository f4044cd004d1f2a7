//go:build unit

package cart_test

import (
	"encoding/json"
	"testing"
	"time"

	"cedros-pay/internal/domain/cart"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(productID, variantID string, qty int) cart.Item {
	return cart.Item{
		ProductID: productID,
		VariantID: variantID,
		Qty:       qty,
		UnitPrice: 10,
		Currency:  "USD",
	}
}

func TestReduceAdd(t *testing.T) {
	t.Run("appends a new line", func(t *testing.T) {
		c := cart.Reduce(cart.Cart{}, cart.Add{Item: item("p1", "", 0), Qty: 2})

		require.Len(t, c.Items, 1)
		assert.Equal(t, 2, c.Items[0].Qty)
	})

	t.Run("merges quantity into the existing identity key", func(t *testing.T) {
		c := cart.Cart{Items: []cart.Item{item("p1", "v1", 2)}}
		c = cart.Reduce(c, cart.Add{Item: item("p1", "v1", 0), Qty: 3})

		require.Len(t, c.Items, 1)
		assert.Equal(t, 5, c.Items[0].Qty)
	})

	t.Run("same product with different variant is a separate line", func(t *testing.T) {
		c := cart.Cart{Items: []cart.Item{item("p1", "v1", 1)}}
		c = cart.Reduce(c, cart.Add{Item: item("p1", "v2", 0), Qty: 1})

		assert.Len(t, c.Items, 2)
	})

	t.Run("merge keeps the existing line's snapshots", func(t *testing.T) {
		existing := item("p1", "", 1)
		existing.TitleSnapshot = "Original Title"
		existing.UnitPrice = 12

		incoming := item("p1", "", 0)
		incoming.TitleSnapshot = "Newer Title"
		incoming.UnitPrice = 15

		c := cart.Reduce(cart.Cart{Items: []cart.Item{existing}}, cart.Add{Item: incoming, Qty: 1})

		require.Len(t, c.Items, 1)
		assert.Equal(t, "Original Title", c.Items[0].TitleSnapshot)
		assert.Equal(t, 12.0, c.Items[0].UnitPrice)
		assert.Equal(t, 2, c.Items[0].Qty)
	})

	t.Run("quantity is floored and clamped to at least one", func(t *testing.T) {
		cases := []struct {
			name string
			qty  float64
			want int
		}{
			{name: "fractional floors", qty: 2.9, want: 2},
			{name: "zero clamps to one", qty: 0.4, want: 1},
			{name: "negative clamps to one", qty: -3, want: 1},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				c := cart.Reduce(cart.Cart{}, cart.Add{Item: item("p1", "", 0), Qty: tc.qty})
				require.Len(t, c.Items, 1)
				assert.Equal(t, tc.want, c.Items[0].Qty)
			})
		}
	})

	t.Run("falls back to the item's own quantity when qty is zero", func(t *testing.T) {
		c := cart.Reduce(cart.Cart{}, cart.Add{Item: item("p1", "", 4)})
		require.Len(t, c.Items, 1)
		assert.Equal(t, 4, c.Items[0].Qty)
	})
}

func TestReduceSetQty(t *testing.T) {
	base := cart.Cart{Items: []cart.Item{item("p1", "v1", 3)}}

	t.Run("replaces the quantity", func(t *testing.T) {
		c := cart.Reduce(base, cart.SetQty{ProductID: "p1", VariantID: "v1", Qty: 7})
		assert.Equal(t, 7, c.Items[0].Qty)
	})

	t.Run("zero removes the line, same as Remove", func(t *testing.T) {
		viaSet := cart.Reduce(base, cart.SetQty{ProductID: "p1", VariantID: "v1", Qty: 0})
		viaRemove := cart.Reduce(base, cart.Remove{ProductID: "p1", VariantID: "v1"})

		assert.True(t, viaSet.IsEmpty())
		assert.Empty(t, cmp.Diff(viaRemove, viaSet))
	})

	t.Run("negative clamps to zero and removes", func(t *testing.T) {
		c := cart.Reduce(base, cart.SetQty{ProductID: "p1", VariantID: "v1", Qty: -2})
		assert.True(t, c.IsEmpty())
	})

	t.Run("absent line is a no-op", func(t *testing.T) {
		c := cart.Reduce(base, cart.SetQty{ProductID: "missing", Qty: 5})
		assert.Empty(t, cmp.Diff(base, c))
	})
}

func TestReduceRemove(t *testing.T) {
	base := cart.Cart{Items: []cart.Item{item("p1", "v1", 1), item("p2", "", 2)}}

	t.Run("removes only the exact identity key", func(t *testing.T) {
		c := cart.Reduce(base, cart.Remove{ProductID: "p1", VariantID: "v1"})

		require.Len(t, c.Items, 1)
		assert.Equal(t, "p2", c.Items[0].ProductID)
	})

	t.Run("variant mismatch leaves the cart untouched", func(t *testing.T) {
		c := cart.Reduce(base, cart.Remove{ProductID: "p1", VariantID: "other"})
		assert.Empty(t, cmp.Diff(base, c))
	})

	t.Run("removing twice is idempotent", func(t *testing.T) {
		once := cart.Reduce(base, cart.Remove{ProductID: "p1", VariantID: "v1"})
		twice := cart.Reduce(once, cart.Remove{ProductID: "p1", VariantID: "v1"})
		assert.Empty(t, cmp.Diff(once, twice))
	})
}

func TestReduceClearAndPromo(t *testing.T) {
	base := cart.Cart{Items: []cart.Item{item("p1", "", 1)}, PromoCode: "SAVE10"}

	t.Run("clear drops items and promo code", func(t *testing.T) {
		c := cart.Reduce(base, cart.Clear{})
		assert.True(t, c.IsEmpty())
		assert.Empty(t, c.PromoCode)
	})

	t.Run("set promo code", func(t *testing.T) {
		c := cart.Reduce(base, cart.SetPromoCode{Code: "WELCOME"})
		assert.Equal(t, "WELCOME", c.PromoCode)
	})

	t.Run("empty code unsets", func(t *testing.T) {
		c := cart.Reduce(base, cart.SetPromoCode{})
		assert.Empty(t, c.PromoCode)
	})
}

func TestReduceUpdateHold(t *testing.T) {
	expires := time.Now().Add(10 * time.Minute)
	base := cart.Cart{Items: []cart.Item{item("p1", "", 1)}}

	t.Run("attaches hold fields", func(t *testing.T) {
		c := cart.Reduce(base, cart.UpdateHold{ProductID: "p1", HoldID: "h1", HoldExpiresAt: &expires})

		require.True(t, c.Items[0].HasHold())
		assert.Equal(t, "h1", c.Items[0].HoldID)
	})

	t.Run("empty values clear the hold", func(t *testing.T) {
		held := cart.Reduce(base, cart.UpdateHold{ProductID: "p1", HoldID: "h1", HoldExpiresAt: &expires})
		cleared := cart.Reduce(held, cart.UpdateHold{ProductID: "p1"})

		assert.False(t, cleared.Items[0].HasHold())
	})
}

func TestReducePurity(t *testing.T) {
	before := cart.Cart{Items: []cart.Item{item("p1", "", 1)}}
	snapshot := cart.Cart{Items: []cart.Item{item("p1", "", 1)}}

	_ = cart.Reduce(before, cart.Add{Item: item("p2", "", 0), Qty: 1})
	_ = cart.Reduce(before, cart.SetQty{ProductID: "p1", Qty: 9})

	assert.Empty(t, cmp.Diff(snapshot, before), "input cart must never be mutated")
}

func TestReducePanicsOnUnknownAction(t *testing.T) {
	assert.Panics(t, func() {
		cart.Reduce(cart.Cart{}, unknownAction{})
	})
}

type unknownAction struct{ cart.Action }

func TestMerge(t *testing.T) {
	t.Run("unions by identity key and sums overlapping quantities", func(t *testing.T) {
		local := cart.Cart{Items: []cart.Item{item("p1", "", 2), item("p2", "", 1)}}
		remote := cart.Cart{Items: []cart.Item{item("p1", "", 3), item("p3", "", 4)}}

		merged := cart.Merge(local, remote)

		require.Len(t, merged.Items, 3)
		got, ok := merged.Find(cart.LineKey{ProductID: "p1"})
		require.True(t, ok)
		assert.Equal(t, 5, got.Qty)
	})

	t.Run("local snapshots win on collision", func(t *testing.T) {
		l := item("p1", "", 1)
		l.TitleSnapshot = "Local"
		r := item("p1", "", 1)
		r.TitleSnapshot = "Remote"

		merged := cart.Merge(cart.Cart{Items: []cart.Item{l}}, cart.Cart{Items: []cart.Item{r}})
		assert.Equal(t, "Local", merged.Items[0].TitleSnapshot)
	})

	t.Run("local promo code wins when set", func(t *testing.T) {
		merged := cart.Merge(cart.Cart{PromoCode: "LOCAL"}, cart.Cart{PromoCode: "REMOTE"})
		assert.Equal(t, "LOCAL", merged.PromoCode)

		merged = cart.Merge(cart.Cart{}, cart.Cart{PromoCode: "REMOTE"})
		assert.Equal(t, "REMOTE", merged.PromoCode)
	})

	t.Run("line count never shrinks below either input", func(t *testing.T) {
		local := cart.Cart{Items: []cart.Item{item("p1", "", 1)}}
		remote := cart.Cart{Items: []cart.Item{item("p2", "", 1), item("p3", "", 1)}}

		merged := cart.Merge(local, remote)
		assert.GreaterOrEqual(t, len(merged.Items), len(local.Items))
		assert.GreaterOrEqual(t, len(merged.Items), len(remote.Items))
	})
}

func TestNormalize(t *testing.T) {
	c := cart.Cart{Items: []cart.Item{
		item("p1", "", 2),
		item("p2", "", 0),
		item("p1", "", 3),
		item("p3", "", -1),
	}}

	n := cart.Normalize(c)

	require.Len(t, n.Items, 1)
	assert.Equal(t, "p1", n.Items[0].ProductID)
	assert.Equal(t, 5, n.Items[0].Qty)
}

func TestTotals(t *testing.T) {
	a := item("p1", "", 2)
	a.UnitPrice = 10.5
	b := item("p2", "", 3)
	b.UnitPrice = 2

	c := cart.Cart{Items: []cart.Item{a, b}}

	assert.Equal(t, 5, c.Count())
	assert.InDelta(t, 27.0, c.Subtotal(), 1e-9)
	assert.False(t, c.IsEmpty())
	assert.True(t, cart.Cart{}.IsEmpty())
}

func TestCartJSONRoundTrip(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := cart.Cart{
		Items: []cart.Item{{
			ProductID:     "p1",
			VariantID:     "v1",
			Qty:           2,
			UnitPrice:     9.99,
			Currency:      "USD",
			TitleSnapshot: "Tee",
			Metadata:      map[string]string{"fulfillment.type": "digital_download"},
			HoldID:        "h1",
			HoldExpiresAt: &expires,
		}},
		PromoCode: "SAVE10",
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var back cart.Cart
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Empty(t, cmp.Diff(c, back))
}
