// Package redisrepo stores sessions in Redis so that bound sessions survive
// server restarts and can be shared between replicas.
package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/hookbridge/hookbridge/sessions"
)

var _ sessions.Repo = (*RedisSessionRepo)(nil)

const keyPrefix = "session:"

// RedisSessionRepo is a sessions.Repo backed by a Redis instance. Every Put
// refreshes the TTL, so active sessions stay alive and abandoned ones expire.
type RedisSessionRepo struct {
	client *rdb.Client
	ttl    time.Duration
}

func New(addr string, db int, ttl time.Duration) *RedisSessionRepo {
	return &RedisSessionRepo{
		client: rdb.NewClient(&rdb.Options{Addr: addr, DB: db}),
		ttl:    ttl,
	}
}

// NewWithClient wraps an existing client, used by tests with miniredis.
func NewWithClient(client *rdb.Client, ttl time.Duration) *RedisSessionRepo {
	return &RedisSessionRepo{client: client, ttl: ttl}
}

func (sr *RedisSessionRepo) Get(ctx context.Context, sessionID string) (sessions.Session, error) {
	b, err := sr.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, rdb.Nil) {
		return sessions.Session{}, sessions.ErrNotFound
	}
	if err != nil {
		return sessions.Session{}, fmt.Errorf("redis get session: %w", err)
	}
	var s sessions.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return sessions.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (sr *RedisSessionRepo) Put(ctx context.Context, sessionID string, session sessions.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := sr.client.Set(ctx, keyPrefix+sessionID, b, sr.ttl).Err(); err != nil {
		return fmt.Errorf("redis put session: %w", err)
	}
	return nil
}

func (sr *RedisSessionRepo) Delete(ctx context.Context, sessionID string) error {
	if err := sr.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}
