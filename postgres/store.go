// Package postgres implements the record stores on a pgx connection pool.
// The schema lives under migrations/postgres; the unique index on
// tenants.github_id is what arbitrates concurrent first-time registrations.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the repositories sharing one connection pool.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Tenants() *TenantRepo {
	return &TenantRepo{pool: s.pool}
}

func (s *Store) WeChat() *WeChatRepo {
	return &WeChatRepo{pool: s.pool}
}

func (s *Store) Close() {
	s.pool.Close()
}
