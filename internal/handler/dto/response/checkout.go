package response

import (
	"cedros-pay/internal/adapter"
)

type CheckoutSessionResponse struct {
	Kind         string         `json:"kind"`
	URL          string         `json:"url,omitempty"`
	ClientSecret string         `json:"clientSecret,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

func FromCheckoutSession(session *adapter.CheckoutSession) *CheckoutSessionResponse {
	return &CheckoutSessionResponse{
		Kind:         string(session.Kind),
		URL:          session.RedirectURL,
		ClientSecret: session.ClientSecret,
		Data:         session.Data,
	}
}

type VerifyCartResponse struct {
	OK     bool                 `json:"ok"`
	Issues []adapter.StockIssue `json:"issues"`
}

func FromStockIssues(issues []adapter.StockIssue) *VerifyCartResponse {
	if issues == nil {
		issues = []adapter.StockIssue{}
	}
	return &VerifyCartResponse{
		OK:     len(issues) == 0,
		Issues: issues,
	}
}
