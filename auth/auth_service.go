// Package auth drives the identity-resolution and session state machine:
// CSRF-protected authorization handshake, code exchange, tenant resolution,
// session binding, and credential rotation.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/hookbridge/hookbridge/github"
	"github.com/hookbridge/hookbridge/sessions"
	"github.com/hookbridge/hookbridge/tenants"
)

// IdentityProvider is the provider side of the handshake: building authorize
// URLs, exchanging codes, and fetching the remote profile.
type IdentityProvider interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	GetUser(ctx context.Context, accessToken string) (github.User, error)
}

// Service orchestrates the handshake. Sessions are passed in and returned as
// values; callers persist the returned session only after the operation
// succeeds, so a failed external call never leaves a partial binding behind.
type Service struct {
	provider IdentityProvider
	tenants  tenants.Repo
	resolver *Resolver
	states   *StateIssuer
}

// ServiceOption modifies a Service.
type ServiceOption func(*Service)

// WithStateIssuer overrides the CSRF state source, primarily for tests.
func WithStateIssuer(issuer *StateIssuer) ServiceOption {
	return func(s *Service) {
		s.states = issuer
	}
}

// WithResolver overrides the identity resolver, primarily for tests that need
// a deterministic app id source.
func WithResolver(resolver *Resolver) ServiceOption {
	return func(s *Service) {
		s.resolver = resolver
	}
}

func NewService(provider IdentityProvider, tenantRepo tenants.Repo, options ...ServiceOption) (*Service, error) {
	if provider == nil {
		return nil, errors.New("[NewService] identity provider is required")
	}
	if tenantRepo == nil {
		return nil, errors.New("[NewService] tenant repo is required")
	}

	resolver, err := NewResolver(tenantRepo)
	if err != nil {
		return nil, err
	}
	s := &Service{
		provider: provider,
		tenants:  tenantRepo,
		resolver: resolver,
		states:   NewStateIssuer(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// IdentityResult is the outcome of RequestIdentity. Exactly one of Tenant and
// AuthorizeURL is set.
type IdentityResult struct {
	Tenant       *tenants.Tenant // session is bound and the tenant resolves
	AuthorizeURL string          // caller must redirect to the provider
}

// RequestIdentity returns the bound tenant when the session resolves
// (doubling as a whoami check), or issues fresh CSRF state and the provider
// authorize URL when it does not.
func (s *Service) RequestIdentity(ctx context.Context, sess sessions.Session) (sessions.Session, IdentityResult, error) {
	if sess.Authenticated() {
		tenant, err := s.tenants.Get(ctx, sess.TenantID)
		if err == nil {
			return sess, IdentityResult{Tenant: tenant}, nil
		}
		if !errors.Is(err, tenants.ErrNotFound) {
			return sess, IdentityResult{}, fmt.Errorf("[Service.RequestIdentity] tenant lookup: %w", err)
		}
		// Bound id no longer resolves; restart the handshake.
		sess.TenantID = 0
	}

	state, err := s.states.Issue()
	if err != nil {
		return sess, IdentityResult{}, err
	}
	sess.State = state
	return sess, IdentityResult{AuthorizeURL: s.provider.AuthorizeURL(state)}, nil
}

// CallbackResult is the outcome of a callback or token login. Authenticated
// is false only for the swallowed CSRF-mismatch case.
type CallbackResult struct {
	Authenticated bool
	Tenant        *tenants.Tenant
}

// HandleCallback validates the echoed CSRF state, exchanges the code, and
// binds the session to the resolved tenant. The stored state is consumed
// before comparison, so a replayed callback fails closed. A mismatch returns
// no error: the caller redirects to the anonymous landing without revealing
// whether a state existed.
func (s *Service) HandleCallback(ctx context.Context, sess sessions.Session, code, state string) (sessions.Session, CallbackResult, error) {
	stored := sess.State
	sess.State = ""
	if stored == "" || stored != state {
		return sess, CallbackResult{}, nil
	}

	accessToken, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return sess, CallbackResult{}, fmt.Errorf("[Service.HandleCallback] exchange: %w", err)
	}
	return s.bindIdentity(ctx, sess, accessToken)
}

// LoginWithToken binds the session from a pre-obtained access token, skipping
// the state and code exchange. Serving it is gated by configuration; it never
// belongs in a production deployment.
func (s *Service) LoginWithToken(ctx context.Context, sess sessions.Session, accessToken string) (sessions.Session, CallbackResult, error) {
	return s.bindIdentity(ctx, sess, accessToken)
}

func (s *Service) bindIdentity(ctx context.Context, sess sessions.Session, accessToken string) (sessions.Session, CallbackResult, error) {
	user, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return sess, CallbackResult{}, fmt.Errorf("[Service.bindIdentity] user fetch: %w", err)
	}

	tenant, err := s.resolver.Resolve(ctx, user)
	if err != nil {
		return sess, CallbackResult{}, err
	}

	sess.TenantID = tenant.ID
	return sess, CallbackResult{Authenticated: true, Tenant: tenant}, nil
}

// RotateKey replaces the bound tenant's app id with a fresh random credential
// and leaves every other field untouched.
func (s *Service) RotateKey(ctx context.Context, sess sessions.Session) (*tenants.Tenant, error) {
	tenant, err := s.boundTenant(ctx, sess)
	if err != nil {
		return nil, err
	}

	tenant.AppID = s.resolver.newAppID()
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("[Service.RotateKey] update: %w", err)
	}
	return tenant, nil
}

// ProfileUpdate carries the only tenant fields an operator may edit.
type ProfileUpdate struct {
	BlockList string
	Captcha   bool
}

// UpdateProfile applies the caller-supplied block list and captcha flag onto
// the stored record. Identity and credential fields always come from the
// store, never from caller input.
func (s *Service) UpdateProfile(ctx context.Context, sess sessions.Session, update ProfileUpdate) (*tenants.Tenant, error) {
	tenant, err := s.boundTenant(ctx, sess)
	if err != nil {
		return nil, err
	}

	tenant.BlockList = update.BlockList
	tenant.Captcha = update.Captcha
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("[Service.UpdateProfile] update: %w", err)
	}
	return tenant, nil
}

// Whoami returns the tenant bound to the session, or UnauthenticatedErr when
// there is no resolvable binding. Unlike RequestIdentity it never starts a
// new handshake.
func (s *Service) Whoami(ctx context.Context, sess sessions.Session) (*tenants.Tenant, error) {
	return s.boundTenant(ctx, sess)
}

func (s *Service) boundTenant(ctx context.Context, sess sessions.Session) (*tenants.Tenant, error) {
	if !sess.Authenticated() {
		return nil, UnauthenticatedErr
	}
	tenant, err := s.tenants.Get(ctx, sess.TenantID)
	if errors.Is(err, tenants.ErrNotFound) {
		return nil, UnauthenticatedErr
	}
	if err != nil {
		return nil, fmt.Errorf("[Service.boundTenant] tenant lookup: %w", err)
	}
	return tenant, nil
}
