package auth

import (
	"context"
	"fmt"

	"github.com/filegate/service/internal/identity"
)

// Registration carries the fields required to create a new identity in the
// delegated backend.
type Registration struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// Service exchanges credentials for session tokens. In local mode it checks
// the static store and signs a token itself; in delegated mode it forwards
// the pair to the identity backend and returns its access token verbatim.
type Service struct {
	store *Store
	codec *Codec
	idp   *identity.Client
}

// NewLocalService builds a Service that authenticates against the static
// store and issues tokens with the codec.
func NewLocalService(store *Store, codec *Codec) *Service {
	return &Service{store: store, codec: codec}
}

// NewKeycloakService builds a Service that delegates all credential checks
// to the identity backend.
func NewKeycloakService(idp *identity.Client) *Service {
	return &Service{idp: idp}
}

// Login exchanges a username/password pair for a bearer token. Any kind of
// rejection — unknown user, wrong secret, backend refusal, backend
// unreachable — collapses to ErrInvalidCredentials, with the cause kept as
// wrapped detail.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if s.idp != nil {
		token, err := s.idp.Token(ctx, username, password)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return token, nil
	}

	if err := s.store.Verify(username, password); err != nil {
		return "", err
	}
	token, err := s.codec.Issue(username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Register creates a new identity in the delegated backend: a fresh admin
// token is obtained per attempt, then the user-creation request is
// submitted. There is no compensating action if the second step fails.
// Only available when the service was built for delegated mode.
func (s *Service) Register(ctx context.Context, reg Registration) error {
	adminToken, err := s.idp.AdminToken(ctx)
	if err != nil {
		return err
	}

	user := identity.User{
		Username:  reg.Username,
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Enabled:   true,
		Credentials: []identity.Credential{{
			Type:      "password",
			Value:     reg.Password,
			Temporary: false,
		}},
		RequiredActions: []string{},
	}
	return s.idp.CreateUser(ctx, adminToken, user)
}

// Delegated reports whether credential checks go to the identity backend.
// Registration is only exposed in that mode.
func (s *Service) Delegated() bool {
	return s.idp != nil
}
