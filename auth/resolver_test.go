package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookbridge/hookbridge/auth"
	"github.com/hookbridge/hookbridge/github"
	"github.com/hookbridge/hookbridge/tenants"
	tenantrepofakes "github.com/hookbridge/hookbridge/tenants/repofakes"
)

func newTestResolver(t *testing.T, repo tenants.Repo) *auth.Resolver {
	t.Helper()
	resolver, err := auth.NewResolver(repo, auth.WithAppIDSource(func() int64 { return 7777 }))
	require.NoError(t, err)
	return resolver
}

func TestResolveRegistersFirstTimeIdentity(t *testing.T) {
	repo := tenantrepofakes.NewFakeTenantRepo()
	resolver := newTestResolver(t, repo)

	tenant, err := resolver.Resolve(context.Background(), github.User{ID: 42, Login: "alice"})
	require.NoError(t, err)

	require.NotZero(t, tenant.ID)
	require.Equal(t, int64(7777), tenant.AppID)
	require.Equal(t, "alice", tenant.GitHubLogin)
	require.Equal(t, int64(42), tenant.GitHubID)
	require.Empty(t, tenant.BlockList)
	require.False(t, tenant.Captcha)
}

func TestResolveIsIdempotentForKnownIdentity(t *testing.T) {
	repo := tenantrepofakes.NewFakeTenantRepo()
	resolver := newTestResolver(t, repo)
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, github.User{ID: 42, Login: "alice"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := resolver.Resolve(ctx, github.User{ID: 42, Login: "alice"})
		require.NoError(t, err)
		require.Equal(t, first.ID, again.ID)
	}

	_, err = repo.GetByGitHubID(ctx, 42)
	require.NoError(t, err)
}

func TestResolveIgnoresRenamedLogin(t *testing.T) {
	repo := tenantrepofakes.NewFakeTenantRepo()
	resolver := newTestResolver(t, repo)
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, github.User{ID: 42, Login: "alice"})
	require.NoError(t, err)

	renamed, err := resolver.Resolve(ctx, github.User{ID: 42, Login: "alice-renamed"})
	require.NoError(t, err)
	require.Equal(t, first.ID, renamed.ID)
	require.Equal(t, "alice", renamed.GitHubLogin)
}

// racingTenantRepo simulates losing a first-time insert race: the initial
// lookup misses, the insert collides with the concurrent winner, and the
// follow-up lookup sees the winner's row.
type racingTenantRepo struct {
	tenants.Repo
	missedLookup bool
}

func (r *racingTenantRepo) GetByGitHubID(ctx context.Context, githubID int64) (*tenants.Tenant, error) {
	if !r.missedLookup {
		r.missedLookup = true
		return nil, tenants.ErrNotFound
	}
	return r.Repo.GetByGitHubID(ctx, githubID)
}

func TestResolveRecoversFromLostInsertRace(t *testing.T) {
	fake := tenantrepofakes.NewFakeTenantRepo()
	ctx := context.Background()

	winner, err := fake.Insert(ctx, tenants.New(1111, "alice", 42))
	require.NoError(t, err)

	resolver := newTestResolver(t, &racingTenantRepo{Repo: fake})

	tenant, err := resolver.Resolve(ctx, github.User{ID: 42, Login: "alice"})
	require.NoError(t, err)
	require.Equal(t, winner.ID, tenant.ID)
	require.Equal(t, int64(1111), tenant.AppID)
}
