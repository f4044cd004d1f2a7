package response

import (
	"cedros-pay/internal/usecase/queries"

	"github.com/google/uuid"
)

type CustomerResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     *string   `json:"name,omitempty"`
	IsActive bool      `json:"isActive"`
}

type LoginResponse struct {
	Token    string           `json:"token"`
	Customer CustomerResponse `json:"customer"`
}

func FromCustomerView(rm *queries.CustomerView) *CustomerResponse {
	return &CustomerResponse{
		ID:       rm.ID,
		Email:    rm.Email,
		Name:     rm.Name,
		IsActive: rm.IsActive,
	}
}
