package session

import (
	"context"
	"time"

	domain "fitflow/internal/domain/session"
)

// Store persists viewer sessions.
type Store interface {
	Save(ctx context.Context, value domain.Session) error
	Get(ctx context.Context, id string, now time.Time) (domain.Session, error)
	Touch(ctx context.Context, id string, now time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
