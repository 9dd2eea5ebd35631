package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// CallbackHandler serves GET /callback, the provider's redirect target. The
// CSRF check happens before any provider call; a mismatch redirects to the
// anonymous landing without revealing whether a state was pending.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, sess, err := s.loadSession(r)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		sess, result, err := s.auth.HandleCallback(r.Context(), sess, r.FormValue("code"), r.FormValue("state"))
		if err != nil {
			log.Error().Str("request_id", requestID(r)).Err(err).Msg("[Callback]")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		// The consumed state must be persisted on both branches; only the
		// success branch carries a tenant binding.
		if err := s.saveSession(w, r, sessionID, sess); err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if !result.Authenticated {
			log.Info().Str("request_id", requestID(r)).Msg("[Callback] state mismatch")
			http.Redirect(w, r, s.webPath(WebPathAnonymous), http.StatusFound)
			return
		}

		http.Redirect(w, r, s.webPath(WebPathAuthenticated), http.StatusFound)
	}
}

// LoginHandler serves POST /login?access_token=, the direct-token shortcut
// used by integration tests. It is routed only when TestLoginEnabled is set.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, sess, err := s.loadSession(r)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		sess, _, err = s.auth.LoginWithToken(r.Context(), sess, r.URL.Query().Get("access_token"))
		if err != nil {
			log.Error().Str("request_id", requestID(r)).Err(err).Msg("[Login]")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if err := s.saveSession(w, r, sessionID, sess); err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, s.webPath(WebPathAuthenticated), http.StatusFound)
	}
}
