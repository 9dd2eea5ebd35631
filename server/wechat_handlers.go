package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hookbridge/hookbridge/auth"
	"github.com/hookbridge/hookbridge/wechat"
)

// GetWeChatHandler serves GET /wechat: the bound tenant's relay
// configuration, or an empty record if none has been saved yet.
func (s *Server) GetWeChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := s.requireTenant(w, r)
		if !ok {
			return
		}

		config, err := s.wechatRepo.GetByTenantID(r.Context(), tenantID)
		if errors.Is(err, wechat.ErrNotFound) {
			config = &wechat.Config{TenantID: tenantID}
		} else if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, config)
	}
}

// UpdateWeChatHandler serves PUT /wechat. The tenant id always comes from the
// session binding, never from the request body.
func (s *Server) UpdateWeChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Str("request_id", requestID(r)).Msg("[Update WeChat]")

		tenantID, ok := s.requireTenant(w, r)
		if !ok {
			return
		}

		var config wechat.Config
		if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		config.TenantID = tenantID

		stored, err := s.wechatRepo.Upsert(r.Context(), &config)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, stored)
	}
}

// requireTenant resolves the session to a bound tenant id, writing the
// failure response itself when the caller is unauthenticated.
func (s *Server) requireTenant(w http.ResponseWriter, r *http.Request) (int64, bool) {
	_, sess, err := s.loadSession(r)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return 0, false
	}

	tenant, err := s.auth.Whoami(r.Context(), sess)
	if errors.Is(err, auth.UnauthenticatedErr) {
		w.WriteHeader(http.StatusUnauthorized)
		return 0, false
	}
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return 0, false
	}
	return tenant.ID, true
}
