package repository

import (
	"context"
	"errors"

	"cedros-pay/internal/infra"
	"cedros-pay/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerStore struct {
	pool *pgxpool.Pool
}

func NewCustomerStore(pool *pgxpool.Pool) *CustomerStore {
	return &CustomerStore{pool: pool}
}

func (s *CustomerStore) FindByEmail(ctx context.Context, email string) (*queries.CustomerView, string, error) {
	var (
		view queries.CustomerView
		hash string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, display_name, is_active, password_hash
		 FROM customers WHERE email = $1`, email,
	).Scan(&view.ID, &view.Email, &view.Name, &view.IsActive, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", infra.WrapRepoErr("customer not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find customer by email", err)
	}
	return &view, hash, nil
}

func (s *CustomerStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CustomerView, error) {
	var view queries.CustomerView
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, display_name, is_active
		 FROM customers WHERE id = $1`, id,
	).Scan(&view.ID, &view.Email, &view.Name, &view.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("customer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find customer by ID", err)
	}
	return &view, nil
}
