package tenants

// Tenant is the durable account record for one GitHub identity.
// GitHubID is the resolution key: exactly one tenant exists per GitHub
// account, and both ID and GitHubID are immutable after creation.
type Tenant struct {
	ID          int64  `json:"id"`
	AppID       int64  `json:"app_id"`       // rotatable downstream API credential
	GitHubLogin string `json:"github_login"` // handle at registration time, not re-synced
	GitHubID    int64  `json:"github_id"`
	BlockList   string `json:"block_list"`
	Captcha     bool   `json:"captcha"`
}

// New builds an unsaved tenant for a first-time GitHub identity.
// The store assigns ID on insert.
func New(appID int64, githubLogin string, githubID int64) *Tenant {
	return &Tenant{
		AppID:       appID,
		GitHubLogin: githubLogin,
		GitHubID:    githubID,
	}
}
