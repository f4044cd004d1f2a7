package repository

import (
	"context"
	"errors"
	"log/slog"

	"cedros-pay/internal/domain/cart"
	"cedros-pay/internal/infra"
	"cedros-pay/internal/infra/cache"

	"golang.org/x/sync/singleflight"
)

// CachedCartStore layers a read-through cache over the Postgres cart store.
// Concurrent misses for the same key are collapsed with singleflight so a
// hot cart does not stampede the database.
type CachedCartStore struct {
	store *CartStore
	cache cache.CartCache
	sfg   singleflight.Group
}

func NewCachedCartStore(store *CartStore, c cache.CartCache) *CachedCartStore {
	return &CachedCartStore{
		store: store,
		cache: c,
	}
}

func (s *CachedCartStore) Load(ctx context.Context, key string) (*cart.Cart, error) {
	v, err, _ := s.sfg.Do(key, func() (any, error) {
		cached, cacheErr := s.cache.Get(ctx, key)
		if cacheErr == nil {
			return cached, nil
		}
		if !errors.Is(cacheErr, cache.ErrCacheMiss) {
			slog.Warn("cart cache read failed", "key", key, "error", cacheErr.Error())
		}

		loaded, loadErr := s.store.Load(ctx, key)
		if loadErr != nil {
			return nil, loadErr
		}

		if setErr := s.cache.Set(ctx, key, *loaded); setErr != nil {
			slog.Warn("cart cache fill failed", "key", key, "error", setErr.Error())
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cart.Cart), nil
}

func (s *CachedCartStore) Save(ctx context.Context, key string, c cart.Cart) error {
	if err := s.store.Save(ctx, key, c); err != nil {
		return err
	}
	s.invalidate(ctx, key)
	return nil
}

func (s *CachedCartStore) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.invalidate(ctx, key)
	return nil
}

func (s *CachedCartStore) ListHeld(ctx context.Context) ([]HeldLine, error) {
	return s.store.ListHeld(ctx)
}

func (s *CachedCartStore) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		slog.Warn("cart cache invalidation failed", "key", key, "error", err.Error())
	}
}

// IsNotFound reports whether a load failed because no snapshot exists.
func IsNotFound(err error) bool {
	return infra.IsKind(err, infra.KindNotFound)
}
