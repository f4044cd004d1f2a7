package usecase

import (
	"cedros-pay/internal/pkg/jwt"
)

// TokenValidator abstracts bearer-token validation so the HTTP middleware
// does not depend on the signing implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}
