package contract

import (
	"context"

	"marketing-insights-be/pkg/store"
)

// SessionRepository holds interaction sessions for their idle lifetime.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*store.Session, bool, error)
	Save(ctx context.Context, session *store.Session) error
	Delete(ctx context.Context, id string) error
}
