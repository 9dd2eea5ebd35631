package tenants

import "context"

// Repo persists tenant records. It is a keyed record store with no business
// logic; the backing store is the sole arbiter of the GitHubID uniqueness
// constraint and reports violations as ErrDuplicateGitHubID.
type Repo interface {
	// Insert stores a new tenant and returns it with its assigned ID.
	Insert(ctx context.Context, tenant *Tenant) (*Tenant, error)
	Get(ctx context.Context, id int64) (*Tenant, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*Tenant, error)
	Update(ctx context.Context, tenant *Tenant) error
}
