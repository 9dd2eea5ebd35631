package wechat

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a tenant has no relay configuration yet.
var ErrNotFound = errors.New("wechat config not found")

// Repo persists relay configuration, keyed by tenant.
type Repo interface {
	GetByTenantID(ctx context.Context, tenantID int64) (*Config, error)
	// Upsert inserts or replaces the tenant's configuration and returns the
	// stored record with its assigned ID.
	Upsert(ctx context.Context, config *Config) (*Config, error)
}
