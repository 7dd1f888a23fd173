package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"travel_inquiry/internal/adapters/observability"
	"travel_inquiry/internal/domain"
)

const sessionPrefix = "session:"

// SessionStore keeps each wizard FormState as one JSON value. Every save
// restarts the TTL, so idle sessions expire and active ones do not.
type SessionStore struct {
	c   *redis.Client
	ttl time.Duration
}

func NewSessionStore(c *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{c: c, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, id string) (*domain.FormState, error) {
	b, err := s.c.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("sessions", "miss")
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	observability.ObserveCache("sessions", "hit")
	st := domain.NewFormState()
	if err := json.Unmarshal(b, st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return st, nil
}

func (s *SessionStore) Save(ctx context.Context, id string, st *domain.FormState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	observability.ObserveCache("sessions", "set")
	return s.c.Set(ctx, sessionPrefix+id, b, s.ttl).Err()
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	observability.ObserveCache("sessions", "del")
	return s.c.Del(ctx, sessionPrefix+id).Err()
}
