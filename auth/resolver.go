package auth

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/hookbridge/hookbridge/github"
	"github.com/hookbridge/hookbridge/tenants"
)

// Resolver maps a verified GitHub identity to its tenant, provisioning one on
// first sight. Identity equality is GitHub's numeric id alone; logins can be
// renamed upstream and are stored only as a display handle.
type Resolver struct {
	tenants  tenants.Repo
	newAppID func() int64
}

// ResolverOption modifies a Resolver.
type ResolverOption func(*Resolver)

// WithAppIDSource sets the app id generator, primarily for deterministic
// tests.
func WithAppIDSource(gen func() int64) ResolverOption {
	return func(r *Resolver) {
		r.newAppID = gen
	}
}

func NewResolver(tenantRepo tenants.Repo, options ...ResolverOption) (*Resolver, error) {
	if tenantRepo == nil {
		return nil, errors.New("[NewResolver] tenant repo is required")
	}
	r := &Resolver{
		tenants:  tenantRepo,
		newAppID: randomAppID,
	}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

// Resolve returns the tenant for the given GitHub user, inserting a new one
// if the identity has never been seen. The store's uniqueness constraint on
// the GitHub id arbitrates concurrent first-time resolutions: a lost insert
// race is recovered by re-fetching the winner's row, once.
func (r *Resolver) Resolve(ctx context.Context, user github.User) (*tenants.Tenant, error) {
	tenant, err := r.tenants.GetByGitHubID(ctx, user.ID)
	if err == nil {
		log.Info().Str("github_login", user.Login).Int64("tenant_id", tenant.ID).Msg("[Login]")
		return tenant, nil
	}
	if !errors.Is(err, tenants.ErrNotFound) {
		return nil, fmt.Errorf("[Resolver.Resolve] lookup by github id: %w", err)
	}

	created, err := r.tenants.Insert(ctx, tenants.New(r.newAppID(), user.Login, user.ID))
	if errors.Is(err, tenants.ErrDuplicateGitHubID) {
		tenant, err = r.tenants.GetByGitHubID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("[Resolver.Resolve] re-fetch after insert conflict: %w", err)
		}
		return tenant, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[Resolver.Resolve] insert: %w", err)
	}
	log.Info().Str("github_login", user.Login).Int64("tenant_id", created.ID).Msg("[Register]")
	return created, nil
}

// randomAppID draws a non-negative 63-bit credential from crypto/rand.
func randomAppID() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("appID entropy unavailable: %v", err))
	}
	return int64(binary.BigEndian.Uint64(b[:]) & math.MaxInt64)
}
