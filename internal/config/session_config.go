package config

import (
	"time"
)

type SessionConfig interface {
	GetSessionTTL() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionTTL() time.Duration {
	hours, err := time.ParseDuration(GetEnv("SESSION_TTL", "720h"))
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return hours
}
