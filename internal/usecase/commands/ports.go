package commands

import (
	"context"

	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/usecase/queries"

	"github.com/google/uuid"
)

// CartRepository is the write side of cart persistence.
type CartRepository interface {
	Load(ctx context.Context, key string) (*cart.Cart, error)
	Save(ctx context.Context, key string, c cart.Cart) error
	Delete(ctx context.Context, key string) error
}

// CustomerReadStore looks up customer records for authentication.
// FindByEmail also returns the stored password hash.
type CustomerReadStore interface {
	FindByEmail(ctx context.Context, email string) (*queries.CustomerView, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*queries.CustomerView, error)
}
