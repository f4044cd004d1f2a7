package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"cedros-pay/internal/usecase"
	"cedros-pay/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the anonymous browser session id for guest carts.
const SessionHeader = "X-Session-ID"

const (
	ctxCustomerIDKey = "customer_id"
	ctxCustomerEmail = "customer_email"
	ctxSessionIDKey  = "session_id"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		setCustomer(c, claims.CustomerID, claims.Email)
		c.Next()
	}
}

// OptionalAuth authenticates when a token is present but never aborts: cart
// routes serve both signed-in customers and anonymous sessions.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := m.tokenValidator.ValidateToken(token); err == nil {
				setCustomer(c, claims.CustomerID, claims.Email)
			}
		}
		if sessionID := c.GetHeader(SessionHeader); sessionID != "" {
			c.Set(ctxSessionIDKey, sessionID)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func setCustomer(c *gin.Context, customerID uuid.UUID, email string) {
	c.Set(ctxCustomerIDKey, customerID)
	c.Set(ctxCustomerEmail, email)
	c.Set("jwt_claims", map[string]any{
		"customer_id": customerID.String(),
		"email":       email,
	})
}

func GetCustomerID(c *gin.Context) (uuid.UUID, bool) {
	customerID, exists := c.Get(ctxCustomerIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := customerID.(uuid.UUID)
	return id, ok
}

func GetCustomerEmail(c *gin.Context) string {
	if email, exists := c.Get(ctxCustomerEmail); exists {
		if s, ok := email.(string); ok {
			return s
		}
	}
	return ""
}

// GetCartScope resolves whose cart this request addresses: the signed-in
// customer when authenticated, otherwise the session header. A zero scope
// means the caller supplied neither.
func GetCartScope(c *gin.Context) shared.CartScope {
	scope := shared.CartScope{}
	if id, ok := GetCustomerID(c); ok {
		scope.CustomerID = &id
	}
	if sessionID, exists := c.Get(ctxSessionIDKey); exists {
		if s, ok := sessionID.(string); ok {
			scope.SessionID = s
		}
	}
	return scope
}
