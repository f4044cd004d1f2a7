package cart

import (
	"fmt"
	"time"
)

// Action is a cart transition. The concrete set is closed: Reduce panics on
// anything it does not recognize, since an unknown action is a programming
// error rather than a runtime condition.
type Action interface {
	isAction()
}

// Add appends a new line or merges quantity into the existing line with the
// same identity key. Qty overrides Item.Qty when positive; the effective
// quantity is floored and clamped to at least 1.
type Add struct {
	Item Item
	Qty  float64
}

// Remove deletes the line matching the identity key exactly. No-op when the
// line is absent.
type Remove struct {
	ProductID string
	VariantID string
}

// SetQty replaces a line's quantity with max(0, floor(Qty)); zero removes
// the line. No-op when the line is absent.
type SetQty struct {
	ProductID string
	VariantID string
	Qty       float64
}

// Clear resets the cart to empty, dropping the promo code.
type Clear struct{}

// SetPromoCode sets the promo code, or unsets it when Code is empty.
type SetPromoCode struct {
	Code string
}

// UpdateHold sets the matching line's inventory-hold fields after a
// successful server-side reservation. Empty values clear the hold. No-op
// when the line is absent.
type UpdateHold struct {
	ProductID     string
	VariantID     string
	HoldID        string
	HoldExpiresAt *time.Time
}

// Hydrate unconditionally replaces the whole cart, used when loading from
// storage or after a remote merge. Callers hydrating from untrusted input
// should Normalize first.
type Hydrate struct {
	Cart Cart
}

func (Add) isAction()          {}
func (Remove) isAction()       {}
func (SetQty) isAction()       {}
func (Clear) isAction()        {}
func (SetPromoCode) isAction() {}
func (UpdateHold) isAction()   {}
func (Hydrate) isAction()      {}

// Reduce folds one action into the cart and returns the next state. It is
// pure and synchronous; the input cart is never mutated.
func Reduce(c Cart, action Action) Cart {
	switch a := action.(type) {
	case Add:
		return reduceAdd(c, a)
	case Remove:
		return removeLine(c, LineKey{ProductID: a.ProductID, VariantID: a.VariantID})
	case SetQty:
		return reduceSetQty(c, a)
	case Clear:
		return Cart{}
	case SetPromoCode:
		next := cloneCart(c)
		next.PromoCode = a.Code
		return next
	case UpdateHold:
		return reduceUpdateHold(c, a)
	case Hydrate:
		return cloneCart(a.Cart)
	default:
		panic(fmt.Sprintf("cart: unknown action type %T", action))
	}
}

func reduceAdd(c Cart, a Add) Cart {
	qty := a.Qty
	if qty == 0 {
		qty = float64(a.Item.Qty)
	}
	n := clampQty(qty, 1)

	next := cloneCart(c)
	if idx := indexOf(next.Items, a.Item.Key()); idx >= 0 {
		// Merge preserves the existing line's snapshots; only qty grows.
		next.Items[idx].Qty += n
		return next
	}

	line := a.Item
	line.Qty = n
	next.Items = append(next.Items, line)
	return next
}

func reduceSetQty(c Cart, a SetQty) Cart {
	key := LineKey{ProductID: a.ProductID, VariantID: a.VariantID}
	n := clampQty(a.Qty, 0)
	if n == 0 {
		return removeLine(c, key)
	}

	next := cloneCart(c)
	if idx := indexOf(next.Items, key); idx >= 0 {
		next.Items[idx].Qty = n
	}
	return next
}

func reduceUpdateHold(c Cart, a UpdateHold) Cart {
	key := LineKey{ProductID: a.ProductID, VariantID: a.VariantID}
	next := cloneCart(c)
	if idx := indexOf(next.Items, key); idx >= 0 {
		next.Items[idx].HoldID = a.HoldID
		next.Items[idx].HoldExpiresAt = a.HoldExpiresAt
	}
	return next
}

func removeLine(c Cart, key LineKey) Cart {
	next := Cart{PromoCode: c.PromoCode}
	for _, it := range c.Items {
		if it.Key() == key {
			continue
		}
		next.Items = append(next.Items, it)
	}
	return next
}

func cloneCart(c Cart) Cart {
	next := Cart{PromoCode: c.PromoCode}
	if len(c.Items) > 0 {
		next.Items = make([]Item, len(c.Items))
		copy(next.Items, c.Items)
	}
	return next
}
