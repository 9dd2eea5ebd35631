package config

type Config interface {
	EnvConfig
	GitHubConfig
	SessionConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetWebBaseURL() string
	GetDatabaseURL() string
	GetRedisAddr() string
	GetRedisDB() int
	// TestLoginEnabled gates the direct access-token login route. It bypasses
	// the CSRF handshake entirely and must stay off outside local testing.
	TestLoginEnabled() bool
}

type GitHubConfig interface {
	GetGitHubClientID() string
	GetGitHubClientSecret() string
	GetGitHubRedirectURL() string
}

type mainConfig struct {
	EnvVars
	GitHub
	Session
	Cors
}

func New() Config {
	return mainConfig{}
}
