package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := IssueToken(secret, "01HXAMPLE", time.Hour)
	require.NoError(t, err)

	userID, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "01HXAMPLE", userID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken([]byte("secret-a"), "01HXAMPLE", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := IssueToken(secret, "01HXAMPLE", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken([]byte("test-secret"), "not.a.token")
	assert.Error(t, err)
}
