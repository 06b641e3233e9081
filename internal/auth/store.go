package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Store is a static in-memory credential store populated once at process
// start and immutable afterwards. Secrets are held as bcrypt hashes and
// verified with bcrypt's constant-time comparison.
type Store struct {
	users map[string]string // identity -> bcrypt hash
}

// NewStore hashes any plaintext secrets and builds the store. Values already
// in bcrypt form ("$2...") are kept as-is, so deployments can supply
// pre-hashed secrets via configuration.
func NewStore(users map[string]string) (*Store, error) {
	m := make(map[string]string, len(users))
	for identity, secret := range users {
		if strings.HasPrefix(secret, "$2") {
			m[identity] = secret
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash secret for %q: %w", identity, err)
		}
		m[identity] = string(hashed)
	}
	return &Store{users: m}, nil
}

// Verify checks the supplied secret against the stored hash. Unknown
// identities and wrong secrets both fail with ErrInvalidCredentials.
func (s *Store) Verify(identity, secret string) error {
	hash, ok := s.users[identity]
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// ParseUsers parses the "user:secret,user:secret" form used by the
// AUTH_USERS environment variable. Entries without a colon are skipped.
func ParseUsers(s string) map[string]string {
	users := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		identity, secret, ok := strings.Cut(pair, ":")
		if !ok || identity == "" {
			continue
		}
		users[identity] = secret
	}
	return users
}
