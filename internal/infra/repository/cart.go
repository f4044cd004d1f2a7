package repository

import (
	"context"
	"encoding/json"
	"errors"

	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CartStore persists each cart as a single JSON blob under its storage key,
// mirroring the client-side keyed-slot contract. Writes are upserts; the
// in-memory cart stays authoritative and callers treat failures here as
// best-effort.
type CartStore struct {
	pool *pgxpool.Pool
}

func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// HeldLine pairs a hold-carrying cart line with the storage key of the cart
// it belongs to, for watchdog scans.
type HeldLine struct {
	CartKey string
	Item    cart.Item
}

func (s *CartStore) Load(ctx context.Context, key string) (*cart.Cart, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM cart_snapshots WHERE storage_key = $1`, key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("cart not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load cart", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		// A corrupt blob is treated as absent; the caller starts fresh.
		return nil, infra.WrapRepoErr("corrupt cart snapshot", err, infra.KindNotFound)
	}

	normalized := cart.Normalize(c)
	return &normalized, nil
}

func (s *CartStore) Save(ctx context.Context, key string, c cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return infra.WrapRepoErr("failed to encode cart", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO cart_snapshots (storage_key, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (storage_key)
		 DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		key, data,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save cart", err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM cart_snapshots WHERE storage_key = $1`, key,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to delete cart", err)
	}
	return nil
}

// ListHeld returns every hold-carrying line across all persisted carts.
// The jsonb path filter keeps hold-free carts out of the scan.
func (s *CartStore) ListHeld(ctx context.Context) ([]HeldLine, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT storage_key, data FROM cart_snapshots
		 WHERE jsonb_path_exists(data, '$.items[*].holdId')`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan held carts", err)
	}
	defer rows.Close()

	var held []HeldLine
	for rows.Next() {
		var key string
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return nil, infra.WrapRepoErr("failed to scan held cart row", err)
		}

		var c cart.Cart
		if err := json.Unmarshal(data, &c); err != nil {
			continue
		}
		for _, it := range c.HeldItems() {
			held = append(held, HeldLine{CartKey: key, Item: it})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("held cart scan failed", err)
	}
	return held, nil
}
