package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hookbridge/hookbridge/auth"
)

const contentTypeJSON = "application/json; charset=utf-8"

func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// UserHandler serves GET /user: the tenant's public view when the session is
// bound, otherwise 401 with the provider authorize URL in Location. Issuing
// the URL also stores fresh CSRF state on the session.
func (s *Server) UserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Str("request_id", requestID(r)).Msg("[Get User]")

		sessionID, sess, err := s.loadSession(r)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		sess, result, err := s.auth.RequestIdentity(r.Context(), sess)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if result.Tenant != nil {
			log.Info().Str("request_id", requestID(r)).Int64("tenant_id", result.Tenant.ID).Msg("[Get User]")
			writeJSON(w, result.Tenant)
			return
		}

		if err := s.saveSession(w, r, sessionID, sess); err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Location", result.AuthorizeURL)
		w.WriteHeader(http.StatusUnauthorized)
	}
}

// ResetKeyHandler serves POST /user/reset_key: rotates the tenant's app id.
func (s *Server) ResetKeyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Str("request_id", requestID(r)).Msg("[Reset Key]")

		_, sess, err := s.loadSession(r)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		tenant, err := s.auth.RotateKey(r.Context(), sess)
		if err != nil {
			s.writeOperationError(w, err)
			return
		}
		writeJSON(w, tenant)
	}
}

// UpdateUserHandler serves PUT /user. The body may carry a full tenant
// record; only the block list and captcha flag are honored.
func (s *Server) UpdateUserHandler() http.HandlerFunc {
	type updateRequest struct {
		BlockList string `json:"block_list"`
		Captcha   bool   `json:"captcha"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Str("request_id", requestID(r)).Msg("[Update User]")

		_, sess, err := s.loadSession(r)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		tenant, err := s.auth.UpdateProfile(r.Context(), sess, auth.ProfileUpdate{
			BlockList: req.BlockList,
			Captcha:   req.Captcha,
		})
		if err != nil {
			s.writeOperationError(w, err)
			return
		}
		log.Info().Str("request_id", requestID(r)).Int64("tenant_id", tenant.ID).Msg("[Update User]")
		writeJSON(w, tenant)
	}
}

// writeOperationError maps service failures onto the response: missing or
// stale bindings are a bare 401, everything else is a 500.
func (s *Server) writeOperationError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.UnauthenticatedErr) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	_ = json.NewEncoder(w).Encode(v)
}
