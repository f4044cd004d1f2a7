package commands

import (
	"context"
	"errors"

	"cedros-pay/internal/infra"
	"cedros-pay/internal/pkg/errs"
	"cedros-pay/internal/pkg/password"
	"cedros-pay/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCustomerInactive   = errors.New("customer account is inactive")
)

type TokenIssuer interface {
	GenerateToken(customerID uuid.UUID, email string) (string, error)
}

type LoginResult struct {
	Token    string
	Customer queries.CustomerView
}

type AuthCommands struct {
	customers CustomerReadStore
	tokens    TokenIssuer
}

func NewAuthCommands(customers CustomerReadStore, tokens TokenIssuer) *AuthCommands {
	return &AuthCommands{
		customers: customers,
		tokens:    tokens,
	}
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (u *AuthCommands) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	view, hash, err := u.customers.FindByEmail(ctx, email)
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to look up customer")
	}
	if !view.IsActive {
		return nil, ErrCustomerInactive
	}

	if err := password.Compare(hash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(view.ID, view.Email)
	if err != nil {
		return nil, errs.Wrap(err, "failed to issue token")
	}
	return &LoginResult{Token: token, Customer: *view}, nil
}

// GetCurrentCustomer resolves the profile behind a validated token.
func (u *AuthCommands) GetCurrentCustomer(ctx context.Context, customerID uuid.UUID) (*queries.CustomerView, error) {
	view, err := u.customers.FindByID(ctx, customerID)
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to look up customer")
	}
	return view, nil
}
