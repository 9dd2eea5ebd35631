package server

import "github.com/rs/zerolog/log"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())

	// Identity handshake
	s.RegisterRouteFunc("GET "+RouteUser, ChainMiddleware(s.UserHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...))

	// Direct token login bypasses the CSRF handshake; only routed when the
	// config opts in, so production deployments never expose it.
	if s.config.TestLoginEnabled() {
		log.Warn().Msg("test login route enabled, do not use in production")
		s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	}

	// Tenant profile
	s.RegisterRouteFunc("POST "+RouteResetKey, ChainMiddleware(s.ResetKeyHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("PUT "+RouteUser, ChainMiddleware(s.UpdateUserHandler(), s.APIMiddleware()...))

	// Relay configuration
	s.RegisterRouteFunc("GET "+RouteWeChat, ChainMiddleware(s.GetWeChatHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("PUT "+RouteWeChat, ChainMiddleware(s.UpdateWeChatHandler(), s.APIMiddleware()...))
}
