package queries

import (
	"time"

	"cedros-pay/internal/domain/cart"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type CartView struct {
	Items     []cart.Item `json:"items"`
	PromoCode string      `json:"promoCode,omitempty"`
	Count     int         `json:"count"`
	Subtotal  float64     `json:"subtotal"`
}

type ExpiringHoldView struct {
	ProductID   string        `json:"productId"`
	VariantID   string        `json:"variantId,omitempty"`
	Title       string        `json:"title,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
	RemainingMs int64     `json:"remainingMs"`
}

type ExpiredHoldView struct {
	ProductID string    `json:"productId"`
	VariantID string    `json:"variantId,omitempty"`
	Title     string    `json:"title,omitempty"`
	ExpiredAt time.Time `json:"expiredAt"`
}

type HoldStatusView struct {
	ExpiringSoon []ExpiringHoldView `json:"expiringSoon"`
	Expired      []ExpiredHoldView  `json:"expired"`
}

type CustomerView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     *string   `json:"name,omitempty"`
	IsActive bool      `json:"is_active"`
}
