package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/hookbridge/hookbridge/sessions"
)

// sessionCookieName is the cookie carrying the opaque session id.
const sessionCookieName = "hookbridge_session"

// loadSession resolves the client's session. A client without a cookie, or
// with an id the repo no longer knows, gets a fresh id and an empty session.
func (s *Server) loadSession(r *http.Request) (string, sessions.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return uuid.New().String(), sessions.Session{}, nil
	}

	sess, err := s.sessionRepo.Get(r.Context(), cookie.Value)
	if errors.Is(err, sessions.ErrNotFound) {
		return cookie.Value, sessions.Session{}, nil
	}
	if err != nil {
		return "", sessions.Session{}, err
	}
	return cookie.Value, sess, nil
}

// saveSession persists the session value and (re)sets the cookie. Called only
// after the operation succeeded, so a failed handshake never mutates state.
func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, sessionID string, sess sessions.Session) error {
	if err := s.sessionRepo.Put(r.Context(), sessionID, sess); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetSessionTTL().Seconds()),
	})
	return nil
}
