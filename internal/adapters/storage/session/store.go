package session

import (
	"context"

	domain "gymadmin/internal/domain/session"
)

// Store persists admin sessions across restarts.
type Store interface {
	Get(ctx context.Context, token string) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Delete(ctx context.Context, token string) error
}
