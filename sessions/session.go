// Package sessions models the per-client authentication session.
//
// A Session is a plain value: handlers load it from the repo, pass it through
// the auth service, and write the returned value back. The service itself
// never touches the repo, which keeps every state transition testable without
// transport plumbing.
package sessions

// Session is the ephemeral state carried by one client cookie.
type Session struct {
	// TenantID is the bound tenant's internal id, 0 while unauthenticated.
	TenantID int64 `json:"tenant_id"`

	// State is the pending CSRF state issued with the last authorize
	// redirect. It is single-use: consumed on the first callback validation
	// attempt regardless of outcome.
	State string `json:"state"`
}

// Authenticated reports whether the session is bound to a tenant.
func (s Session) Authenticated() bool {
	return s.TenantID != 0
}
