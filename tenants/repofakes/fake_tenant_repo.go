package tenantrepofakes

import (
	"context"
	"sync"

	"github.com/hookbridge/hookbridge/tenants"
)

var _ tenants.Repo = (*FakeTenantRepo)(nil)

// FakeTenantRepo is an in-memory tenants.Repo for tests and local runs.
// It enforces the same GitHubID uniqueness constraint as the Postgres store.
type FakeTenantRepo struct {
	lock    sync.RWMutex
	nextID  int64
	tenants map[int64]*tenants.Tenant
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{
		nextID:  1,
		tenants: make(map[int64]*tenants.Tenant),
	}
}

func (tr *FakeTenantRepo) Insert(_ context.Context, tenant *tenants.Tenant) (*tenants.Tenant, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	for _, t := range tr.tenants {
		if t.GitHubID == tenant.GitHubID {
			return nil, tenants.ErrDuplicateGitHubID
		}
	}
	stored := *tenant
	stored.ID = tr.nextID
	tr.nextID++
	tr.tenants[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (tr *FakeTenantRepo) Get(_ context.Context, id int64) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	t, ok := tr.tenants[id]
	if !ok {
		return nil, tenants.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (tr *FakeTenantRepo) GetByGitHubID(_ context.Context, githubID int64) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	for _, t := range tr.tenants {
		if t.GitHubID == githubID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, tenants.ErrNotFound
}

func (tr *FakeTenantRepo) Update(_ context.Context, tenant *tenants.Tenant) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if _, ok := tr.tenants[tenant.ID]; !ok {
		return tenants.ErrNotFound
	}
	copied := *tenant
	tr.tenants[tenant.ID] = &copied
	return nil
}
