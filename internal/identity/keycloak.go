// Package identity is a thin client for the Keycloak OpenID endpoints this
// service depends on: password-grant token issuance, userinfo introspection,
// and administrative user creation.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Keycloak's administrative API is reached through the master realm with the
// built-in admin-cli client.
const (
	adminRealm    = "master"
	adminClientID = "admin-cli"
)

// ErrBackendUnavailable is returned when the identity server cannot be
// reached or does not answer within the configured timeout.
var ErrBackendUnavailable = errors.New("identity backend unavailable")

// ErrGrantRejected is returned when the token endpoint answers with a
// non-success status for a password grant.
var ErrGrantRejected = errors.New("token grant rejected")

// ErrTokenRejected is returned when the userinfo endpoint does not accept
// the presented access token.
var ErrTokenRejected = errors.New("token rejected by identity backend")

// ErrAdminAuth is returned when the service-level admin grant fails,
// signalling a misconfigured or unreachable identity server.
var ErrAdminAuth = errors.New("admin authentication failed")

// ErrRegistrationFailed is returned when user creation is answered with any
// status other than 201.
var ErrRegistrationFailed = errors.New("registration failed")

// Config holds the identity-server connection settings.
type Config struct {
	ServerURL     string
	Realm         string
	ClientID      string
	ClientSecret  string
	AdminUser     string
	AdminPassword string
	Timeout       time.Duration
}

// Client talks to a Keycloak server. All calls go through a bounded-timeout
// HTTP client; a Client is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a Client. A non-positive timeout falls back to 10s.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// User is the representation submitted to the admin user-creation endpoint.
type User struct {
	Username        string       `json:"username"`
	Email           string       `json:"email"`
	FirstName       string       `json:"firstName,omitempty"`
	LastName        string       `json:"lastName,omitempty"`
	Enabled         bool         `json:"enabled"`
	Credentials     []Credential `json:"credentials"`
	RequiredActions []string     `json:"requiredActions"`
}

// Credential is a Keycloak credential representation.
type Credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// Token exchanges a username/password pair for an access token via the
// password grant. The backend's error body is carried in the returned error.
func (c *Client) Token(ctx context.Context, username, password string) (string, error) {
	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"username":      {username},
		"password":      {password},
	}
	return c.passwordGrant(ctx, c.cfg.Realm, form)
}

// AdminToken obtains a short-lived admin access token using the
// service-level admin credentials. It is fetched fresh for every
// registration attempt and never cached.
func (c *Client) AdminToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {adminClientID},
		"username":   {c.cfg.AdminUser},
		"password":   {c.cfg.AdminPassword},
	}
	token, err := c.passwordGrant(ctx, adminRealm, form)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAdminAuth, err)
	}
	return token, nil
}

// UserInfo introspects a raw access token via the userinfo endpoint and
// returns the preferred_username claim.
func (c *Client) UserInfo(ctx context.Context, rawToken string) (string, error) {
	endpoint := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/userinfo", c.cfg.ServerURL, c.cfg.Realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+rawToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrTokenRejected, strings.TrimSpace(string(body)))
	}

	var info struct {
		PreferredUsername string `json:"preferred_username"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("decode userinfo response: %w", err)
	}
	return info.PreferredUsername, nil
}

// Authenticate implements the middleware.Authenticator contract by asking
// the identity backend to introspect the token.
func (c *Client) Authenticate(ctx context.Context, token string) (string, error) {
	return c.UserInfo(ctx, token)
}

// CreateUser submits a user-creation request carrying a non-temporary
// password credential and no required follow-up actions. Only HTTP 201 is
// treated as success; any other status surfaces as ErrRegistrationFailed
// with the backend's response body as detail.
func (c *Client) CreateUser(ctx context.Context, adminToken string, user User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users", c.cfg.ServerURL, c.cfg.Realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build user-creation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+adminToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrRegistrationFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// passwordGrant posts the form to the realm's token endpoint and returns the
// access token from the response.
func (c *Client) passwordGrant(ctx context.Context, realm string, form url.Values) (string, error) {
	endpoint := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.cfg.ServerURL, realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrGrantRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var grant struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if grant.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token in response", ErrGrantRejected)
	}
	return grant.AccessToken, nil
}
