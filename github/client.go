// Package github is the GitHub OAuth 2.0 identity provider client. GitHub
// issues plain OAuth 2.0 access tokens without ID tokens, so the user profile
// comes from a separate API call after the code exchange.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"
)

const defaultAPIBaseURL = "https://api.github.com"

// User is the subset of the GitHub user profile the service relies on.
// ID is GitHub's immutable numeric identity; Login can be renamed upstream
// and must never be used as a resolution key.
type User struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Client performs the provider side of the authorization handshake. It is
// pure request/response and holds no per-user state.
type Client struct {
	Config     *oauth2.Config
	APIBaseURL string

	http *http.Client
}

func New(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     githubendpoint.Endpoint,
		},
		APIBaseURL: defaultAPIBaseURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL builds the authorization URL carrying the given CSRF state.
func (c *Client) AuthorizeURL(state string) string {
	return c.Config.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	token, err := c.Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("github code exchange: %w", err)
	}
	return token.AccessToken, nil
}

// GetUser fetches the authenticated user's profile.
func (c *Client) GetUser(ctx context.Context, accessToken string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/user", nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("github user fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("github api error: status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("decode github user: %w", err)
	}
	return user, nil
}
