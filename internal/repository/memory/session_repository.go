package memory

import (
	"context"
	"time"

	"marketing-insights-be/internal/repository/contract"
	"marketing-insights-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository keeps sessions for ttl after their last save and
// purges expired items every cleanup interval.
func NewSessionRepository(ttl, cleanup time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session).Clone(), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
