package config

type GitHub struct{}

var _ GitHubConfig = GitHub{}

func (GitHub) GetGitHubClientID() string {
	return GetEnv("GITHUB_CLIENT_ID", "")
}

func (GitHub) GetGitHubClientSecret() string {
	return GetEnv("GITHUB_CLIENT_SECRET", "")
}

func (GitHub) GetGitHubRedirectURL() string {
	return GetEnv("GITHUB_REDIRECT_URL", "http://localhost:8080/callback")
}
