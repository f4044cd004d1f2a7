package request

type CreateCheckoutSessionRequest struct {
	SuccessURL string `json:"successUrl" binding:"required,url"`
	CancelURL  string `json:"cancelUrl" binding:"required,url"`
	// Optional guest contact details; ignored for signed-in customers.
	Email string `json:"email" binding:"omitempty,email"`
	Name  string `json:"name"`
}
