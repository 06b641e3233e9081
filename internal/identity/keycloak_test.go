package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		ServerURL:     serverURL,
		Realm:         "testrealm",
		ClientID:      "test-client",
		ClientSecret:  "test-secret",
		AdminUser:     "svc-admin",
		AdminPassword: "svc-pass",
	})
}

func TestTokenPasswordGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/realms/testrealm/protocol/openid-connect/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-client", r.PostForm.Get("client_id"))
		assert.Equal(t, "test-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "s3cret", r.PostForm.Get("password"))

		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "granted-token"})
	}))
	defer srv.Close()

	token, err := newTestClient(srv.URL).Token(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "granted-token", token)
}

func TestTokenGrantRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid user credentials"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Token(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrGrantRejected)
	assert.Contains(t, err.Error(), "Invalid user credentials")
}

func TestTokenEmptyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Token(context.Background(), "alice", "s3cret")
	assert.ErrorIs(t, err, ErrGrantRejected)
}

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realms/testrealm/protocol/openid-connect/userinfo", r.URL.Path)
		assert.Equal(t, "Bearer raw-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"preferred_username": "alice", "sub": "uuid-1"})
	}))
	defer srv.Close()

	identity, err := newTestClient(srv.URL).UserInfo(context.Background(), "raw-token")
	require.NoError(t, err)
	assert.Equal(t, "alice", identity)
}

func TestUserInfoRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).UserInfo(context.Background(), "stale-token")
	require.ErrorIs(t, err, ErrTokenRejected)
	assert.Contains(t, err.Error(), "invalid_token")
}

func TestAdminTokenUsesMasterRealm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realms/master/protocol/openid-connect/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "admin-cli", r.PostForm.Get("client_id"))
		assert.Equal(t, "svc-admin", r.PostForm.Get("username"))
		assert.Equal(t, "svc-pass", r.PostForm.Get("password"))
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "admin-token"})
	}))
	defer srv.Close()

	token, err := newTestClient(srv.URL).AdminToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin-token", token)
}

func TestAdminTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).AdminToken(context.Background())
	assert.ErrorIs(t, err, ErrAdminAuth)
}

func TestCreateUserCreated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/realms/testrealm/users", r.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "alice", payload["username"])
		assert.Equal(t, true, payload["enabled"])
		// requiredActions must serialize as an empty array, not null.
		assert.Equal(t, []any{}, payload["requiredActions"])

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	user := User{
		Username:        "alice",
		Email:           "alice@example.com",
		Enabled:         true,
		Credentials:     []Credential{{Type: "password", Value: "s3cret", Temporary: false}},
		RequiredActions: []string{},
	}
	assert.NoError(t, newTestClient(srv.URL).CreateUser(context.Background(), "admin-token", user))
}

func TestCreateUserNon201(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"errorMessage":"User exists with same username"}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).CreateUser(context.Background(), "admin-token", User{Username: "alice"})
	require.ErrorIs(t, err, ErrRegistrationFailed)
	assert.Contains(t, err.Error(), "User exists with same username")
}

func TestBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.Token(context.Background(), "alice", "s3cret")
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	_, err = client.UserInfo(context.Background(), "raw-token")
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	err = client.CreateUser(context.Background(), "admin-token", User{})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}
