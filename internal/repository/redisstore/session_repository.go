package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketing-insights-be/internal/repository/contract"
	"marketing-insights-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "marketing-insights:session:"

// SessionRepository stores each session as one JSON document with a sliding TTL.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*store.Session, bool, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get session: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, true, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+session.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
