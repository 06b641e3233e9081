package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStoreVerify(t *testing.T) {
	store, err := NewStore(map[string]string{"alice": "correct"})
	require.NoError(t, err)

	assert.NoError(t, store.Verify("alice", "correct"))
	assert.ErrorIs(t, store.Verify("alice", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, store.Verify("mallory", "correct"), ErrInvalidCredentials)
}

func TestStoreAcceptsPrehashedSecret(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	store, err := NewStore(map[string]string{"bob": string(hashed)})
	require.NoError(t, err)

	assert.NoError(t, store.Verify("bob", "hunter2"))
	assert.ErrorIs(t, store.Verify("bob", string(hashed)), ErrInvalidCredentials)
}

func TestParseUsers(t *testing.T) {
	users := ParseUsers("alice:pw1, bob:pw2,broken,:nouser,")
	assert.Equal(t, map[string]string{"alice": "pw1", "bob": "pw2"}, users)

	assert.Empty(t, ParseUsers(""))
}
