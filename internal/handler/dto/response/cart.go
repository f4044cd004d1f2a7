package response

import (
	"time"

	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/domain/checkout"
	"cedros-pay/internal/usecase/queries"
)

type CartResponse struct {
	Items     []cart.Item `json:"items"`
	PromoCode string      `json:"promoCode,omitempty"`
	Count     int         `json:"count"`
	Subtotal  float64     `json:"subtotal"`
}

func FromCartView(rm *queries.CartView) *CartResponse {
	return &CartResponse{
		Items:     rm.Items,
		PromoCode: rm.PromoCode,
		Count:     rm.Count,
		Subtotal:  rm.Subtotal,
	}
}

type RequirementsResponse struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	ShippingAddress  bool   `json:"shippingAddress"`
	BillingAddress   bool   `json:"billingAddress"`
	FulfillmentNotes string `json:"fulfillmentNotes,omitempty"`
}

func FromRequirements(req *checkout.Requirements) *RequirementsResponse {
	return &RequirementsResponse{
		Email:            req.Email.String(),
		Name:             req.Name.String(),
		Phone:            req.Phone.String(),
		ShippingAddress:  req.ShippingAddress,
		BillingAddress:   req.BillingAddress,
		FulfillmentNotes: req.FulfillmentNotes,
	}
}

type ExpiringHoldResponse struct {
	ProductID   string    `json:"productId"`
	VariantID   string    `json:"variantId,omitempty"`
	Title       string    `json:"title,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
	RemainingMs int64     `json:"remainingMs"`
}

type ExpiredHoldResponse struct {
	ProductID string    `json:"productId"`
	VariantID string    `json:"variantId,omitempty"`
	Title     string    `json:"title,omitempty"`
	ExpiredAt time.Time `json:"expiredAt"`
}

type HoldStatusResponse struct {
	ExpiringSoon []ExpiringHoldResponse `json:"expiringSoon"`
	Expired      []ExpiredHoldResponse  `json:"expired"`
}

func FromHoldStatusView(rm *queries.HoldStatusView) *HoldStatusResponse {
	resp := &HoldStatusResponse{
		ExpiringSoon: make([]ExpiringHoldResponse, 0, len(rm.ExpiringSoon)),
		Expired:      make([]ExpiredHoldResponse, 0, len(rm.Expired)),
	}
	for _, s := range rm.ExpiringSoon {
		resp.ExpiringSoon = append(resp.ExpiringSoon, ExpiringHoldResponse{
			ProductID:   s.ProductID,
			VariantID:   s.VariantID,
			Title:       s.Title,
			ExpiresAt:   s.ExpiresAt,
			RemainingMs: s.RemainingMs,
		})
	}
	for _, e := range rm.Expired {
		resp.Expired = append(resp.Expired, ExpiredHoldResponse{
			ProductID: e.ProductID,
			VariantID: e.VariantID,
			Title:     e.Title,
			ExpiredAt: e.ExpiredAt,
		})
	}
	return resp
}
