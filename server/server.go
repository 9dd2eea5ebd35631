// Package server exposes the identity handshake and tenant profile
// operations over HTTP. Handlers only translate between the wire and the
// auth service: load the session value, run one operation, persist the
// returned session, map the outcome to a status or redirect.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hookbridge/hookbridge/auth"
	"github.com/hookbridge/hookbridge/internal/config"
	"github.com/hookbridge/hookbridge/sessions"
	"github.com/hookbridge/hookbridge/wechat"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config

	auth        *auth.Service
	sessionRepo sessions.Repo
	wechatRepo  wechat.Repo
}

func New(cfg config.Config, authService *auth.Service, sessionRepo sessions.Repo, wechatRepo wechat.Repo) (*Server, error) {
	if authService == nil {
		return nil, fmt.Errorf("[Server New] auth service is required")
	}
	if sessionRepo == nil {
		return nil, fmt.Errorf("[Server New] session repo is required")
	}
	if wechatRepo == nil {
		return nil, fmt.Errorf("[Server New] wechat repo is required")
	}

	s := &Server{
		env:         cfg.GetEnv(),
		mux:         http.NewServeMux(),
		config:      cfg,
		auth:        authService,
		sessionRepo: sessionRepo,
		wechatRepo:  wechatRepo,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered")
	}
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

// webPath joins the configured web client base URL with a landing path.
func (s *Server) webPath(path string) string {
	return strings.TrimSuffix(s.config.GetWebBaseURL(), "/") + path
}
