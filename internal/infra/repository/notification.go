package repository

import (
	"context"
	"time"

	"cedros-pay/internal/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationStore queues outbound notification jobs (hold-expiry emails
// and the like) for an external worker to drain.
type NotificationStore struct {
	pool *pgxpool.Pool
}

func NewNotificationStore(pool *pgxpool.Pool) *NotificationStore {
	return &NotificationStore{pool: pool}
}

func (s *NotificationStore) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
		 VALUES ($1, $2, $3, $4, 'pending')`,
		kind, topic, payload, runAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
