package request

import (
	"strings"

	"cedros-pay/internal/domain/cart"
)

type AddItemRequest struct {
	ProductID       string            `json:"productId" binding:"required"`
	VariantID       string            `json:"variantId"`
	Qty             float64           `json:"qty"`
	UnitPrice       float64           `json:"unitPrice"`
	Currency        string            `json:"currency"`
	Title           string            `json:"title"`
	ImageURL        string            `json:"imageUrl"`
	PaymentResource string            `json:"paymentResource"`
	Metadata        map[string]string `json:"metadata"`
}

func (r AddItemRequest) ToItem() cart.Item {
	return cart.Item{
		ProductID:       r.ProductID,
		VariantID:       r.VariantID,
		UnitPrice:       r.UnitPrice,
		Currency:        r.Currency,
		TitleSnapshot:   r.Title,
		ImageSnapshot:   r.ImageURL,
		PaymentResource: r.PaymentResource,
		Metadata:        r.Metadata,
	}
}

type SetQtyRequest struct {
	ProductID string   `json:"productId" binding:"required"`
	VariantID string   `json:"variantId"`
	Qty       *float64 `json:"qty" binding:"required"`
}

func (r SetQtyRequest) Key() cart.LineKey {
	return cart.LineKey{ProductID: r.ProductID, VariantID: r.VariantID}
}

type SetPromoCodeRequest struct {
	Code string `json:"code"`
}

func (r SetPromoCodeRequest) TrimmedCode() string {
	return strings.TrimSpace(r.Code)
}
