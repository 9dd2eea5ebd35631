package tenants

import "errors"

var (
	// ErrNotFound is returned when no tenant matches the given key.
	ErrNotFound = errors.New("tenant not found")

	// ErrDuplicateGitHubID is returned by Insert when another tenant already
	// holds the same GitHub id. Two concurrent first-time logins for the same
	// account can race to this point; callers recover by re-fetching.
	ErrDuplicateGitHubID = errors.New("tenant already exists for github id")
)
