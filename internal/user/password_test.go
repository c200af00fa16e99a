package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, VerifyPassword("correct horse battery staple", hash))
	assert.False(t, VerifyPassword("wrong password", hash))
}

func TestLongPasswordsAreTruncatedConsistently(t *testing.T) {
	long := strings.Repeat("a", 100)
	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(long, hash))
	// Only the first 72 bytes count.
	assert.True(t, VerifyPassword(strings.Repeat("a", 72)+"bcd", hash))
	assert.False(t, VerifyPassword(strings.Repeat("a", 71), hash))
}
