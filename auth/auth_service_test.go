package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookbridge/hookbridge/auth"
	"github.com/hookbridge/hookbridge/github"
	"github.com/hookbridge/hookbridge/sessions"
	"github.com/hookbridge/hookbridge/tenants"
	tenantrepofakes "github.com/hookbridge/hookbridge/tenants/repofakes"
)

const (
	testGitHubID    = int64(42)
	testGitHubLogin = "alice"
	testAccessToken = "gho_test_token"
	testAuthCode    = "abc"
)

// fakeProvider is an in-memory IdentityProvider that counts collaborator
// calls so tests can assert the CSRF check short-circuits before any
// external traffic.
type fakeProvider struct {
	user        github.User
	exchangeErr error
	userErr     error

	exchangeCalls int
	userCalls     int
	lastCode      string
}

func (p *fakeProvider) AuthorizeURL(state string) string {
	return "https://github.com/login/oauth/authorize?state=" + state
}

func (p *fakeProvider) ExchangeCode(_ context.Context, code string) (string, error) {
	p.exchangeCalls++
	p.lastCode = code
	if p.exchangeErr != nil {
		return "", p.exchangeErr
	}
	return testAccessToken, nil
}

func (p *fakeProvider) GetUser(_ context.Context, accessToken string) (github.User, error) {
	p.userCalls++
	if p.userErr != nil {
		return github.User{}, p.userErr
	}
	return p.user, nil
}

type testFixture struct {
	provider   *fakeProvider
	tenantRepo *tenantrepofakes.FakeTenantRepo
	service    *auth.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	provider := &fakeProvider{user: github.User{ID: testGitHubID, Login: testGitHubLogin}}
	tenantRepo := tenantrepofakes.NewFakeTenantRepo()

	resolver, err := auth.NewResolver(tenantRepo, auth.WithAppIDSource(func() int64 { return 7777 }))
	require.NoError(t, err)

	service, err := auth.NewService(provider, tenantRepo, auth.WithResolver(resolver))
	require.NoError(t, err)

	return &testFixture{
		provider:   provider,
		tenantRepo: tenantRepo,
		service:    service,
	}
}

// pendingSession runs RequestIdentity for a fresh client and returns the
// session holding issued CSRF state.
func (f *testFixture) pendingSession(t *testing.T) sessions.Session {
	t.Helper()
	sess, result, err := f.service.RequestIdentity(context.Background(), sessions.Session{})
	require.NoError(t, err)
	require.NotEmpty(t, result.AuthorizeURL)
	require.NotEmpty(t, sess.State)
	return sess
}

func TestRequestIdentityIssuesStateForAnonymousSession(t *testing.T) {
	f := setupTestFixture(t)

	sess, result, err := f.service.RequestIdentity(context.Background(), sessions.Session{})
	require.NoError(t, err)

	require.Nil(t, result.Tenant)
	require.NotEmpty(t, sess.State)
	require.Contains(t, result.AuthorizeURL, "state="+sess.State)
}

func TestRequestIdentityReturnsBoundTenant(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	stored, err := f.tenantRepo.Insert(ctx, tenants.New(1111, testGitHubLogin, testGitHubID))
	require.NoError(t, err)

	sess, result, err := f.service.RequestIdentity(ctx, sessions.Session{TenantID: stored.ID})
	require.NoError(t, err)

	require.NotNil(t, result.Tenant)
	require.Equal(t, stored.ID, result.Tenant.ID)
	require.Empty(t, result.AuthorizeURL)
	require.Empty(t, sess.State)
}

func TestRequestIdentityRestartsWhenBindingIsStale(t *testing.T) {
	f := setupTestFixture(t)

	sess, result, err := f.service.RequestIdentity(context.Background(), sessions.Session{TenantID: 999})
	require.NoError(t, err)

	require.Nil(t, result.Tenant)
	require.NotEmpty(t, result.AuthorizeURL)
	require.False(t, sess.Authenticated())
	require.NotEmpty(t, sess.State)
}

func TestCallbackRegistersFirstTimeUser(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	sess := f.pendingSession(t)
	sess, result, err := f.service.HandleCallback(ctx, sess, testAuthCode, sess.State)
	require.NoError(t, err)

	require.True(t, result.Authenticated)
	require.Equal(t, testAuthCode, f.provider.lastCode)
	require.Equal(t, int64(7777), result.Tenant.AppID)
	require.Equal(t, testGitHubID, result.Tenant.GitHubID)
	require.Equal(t, result.Tenant.ID, sess.TenantID)
	require.Empty(t, sess.State)

	stored, err := f.tenantRepo.GetByGitHubID(ctx, testGitHubID)
	require.NoError(t, err)
	require.Equal(t, result.Tenant.ID, stored.ID)
}

func TestCallbackLogsInReturningUser(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	existing, err := f.tenantRepo.Insert(ctx, tenants.New(1111, testGitHubLogin, testGitHubID))
	require.NoError(t, err)

	sess := f.pendingSession(t)
	sess, result, err := f.service.HandleCallback(ctx, sess, testAuthCode, sess.State)
	require.NoError(t, err)

	require.True(t, result.Authenticated)
	require.Equal(t, existing.ID, result.Tenant.ID)
	require.Equal(t, existing.ID, sess.TenantID)
}

func TestCallbackStateMismatchFailsClosed(t *testing.T) {
	f := setupTestFixture(t)

	sess := f.pendingSession(t)
	sess.State = "y"

	sess, result, err := f.service.HandleCallback(context.Background(), sess, testAuthCode, "x")
	require.NoError(t, err)

	require.False(t, result.Authenticated)
	require.False(t, sess.Authenticated())
	require.Zero(t, f.provider.exchangeCalls)
	require.Zero(t, f.provider.userCalls)
}

func TestCallbackWithoutStoredStateFailsClosed(t *testing.T) {
	f := setupTestFixture(t)

	sess, result, err := f.service.HandleCallback(context.Background(), sessions.Session{}, testAuthCode, "x")
	require.NoError(t, err)

	require.False(t, result.Authenticated)
	require.False(t, sess.Authenticated())
	require.Zero(t, f.provider.exchangeCalls)
}

func TestCallbackStateIsSingleUse(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	sess := f.pendingSession(t)
	state := sess.State

	sess, result, err := f.service.HandleCallback(ctx, sess, testAuthCode, state)
	require.NoError(t, err)
	require.True(t, result.Authenticated)

	// Replaying the same state against the consumed session fails closed.
	sess.TenantID = 0
	_, replay, err := f.service.HandleCallback(ctx, sess, testAuthCode, state)
	require.NoError(t, err)
	require.False(t, replay.Authenticated)
	require.Equal(t, 1, f.provider.exchangeCalls)
}

func TestCallbackPropagatesExchangeFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.provider.exchangeErr = errors.New("upstream down")

	sess := f.pendingSession(t)
	sess, result, err := f.service.HandleCallback(context.Background(), sess, testAuthCode, sess.State)
	require.Error(t, err)

	require.False(t, result.Authenticated)
	require.False(t, sess.Authenticated())
	require.Zero(t, f.provider.userCalls)
}

func TestLoginWithTokenBypassesStateCheck(t *testing.T) {
	f := setupTestFixture(t)

	sess, result, err := f.service.LoginWithToken(context.Background(), sessions.Session{}, testAccessToken)
	require.NoError(t, err)

	require.True(t, result.Authenticated)
	require.Equal(t, result.Tenant.ID, sess.TenantID)
	require.Zero(t, f.provider.exchangeCalls)
	require.Equal(t, 1, f.provider.userCalls)
}

func TestRotateKeyChangesOnlyAppID(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	stored, err := f.tenantRepo.Insert(ctx, &tenants.Tenant{
		AppID:       1111,
		GitHubLogin: testGitHubLogin,
		GitHubID:    testGitHubID,
		BlockList:   "spam",
		Captcha:     true,
	})
	require.NoError(t, err)

	rotated, err := f.service.RotateKey(ctx, sessions.Session{TenantID: stored.ID})
	require.NoError(t, err)

	require.Equal(t, int64(7777), rotated.AppID)
	require.Equal(t, stored.ID, rotated.ID)
	require.Equal(t, stored.GitHubLogin, rotated.GitHubLogin)
	require.Equal(t, stored.GitHubID, rotated.GitHubID)
	require.Equal(t, stored.BlockList, rotated.BlockList)
	require.Equal(t, stored.Captcha, rotated.Captcha)

	persisted, err := f.tenantRepo.Get(ctx, stored.ID)
	require.NoError(t, err)
	require.Equal(t, int64(7777), persisted.AppID)
}

func TestRotateKeyRequiresBoundSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	before, err := f.tenantRepo.Insert(ctx, tenants.New(1111, testGitHubLogin, testGitHubID))
	require.NoError(t, err)

	_, err = f.service.RotateKey(ctx, sessions.Session{})
	require.ErrorIs(t, err, auth.UnauthenticatedErr)

	after, err := f.tenantRepo.Get(ctx, before.ID)
	require.NoError(t, err)
	require.Equal(t, before.AppID, after.AppID)
}

func TestRotateKeyRequiresResolvableTenant(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.RotateKey(context.Background(), sessions.Session{TenantID: 999})
	require.ErrorIs(t, err, auth.UnauthenticatedErr)
}

func TestUpdateProfileChangesOnlyEditableFields(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	stored, err := f.tenantRepo.Insert(ctx, tenants.New(1111, testGitHubLogin, testGitHubID))
	require.NoError(t, err)

	updated, err := f.service.UpdateProfile(ctx, sessions.Session{TenantID: stored.ID}, auth.ProfileUpdate{
		BlockList: "bot1\nbot2",
		Captcha:   true,
	})
	require.NoError(t, err)

	require.Equal(t, "bot1\nbot2", updated.BlockList)
	require.True(t, updated.Captcha)
	require.Equal(t, stored.ID, updated.ID)
	require.Equal(t, int64(1111), updated.AppID)
	require.Equal(t, stored.GitHubLogin, updated.GitHubLogin)
	require.Equal(t, stored.GitHubID, updated.GitHubID)
}

func TestUpdateProfileRequiresBoundSession(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.UpdateProfile(context.Background(), sessions.Session{}, auth.ProfileUpdate{})
	require.ErrorIs(t, err, auth.UnauthenticatedErr)
}
