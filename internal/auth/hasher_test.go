package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcoach/fitcoach-api/internal/auth"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, auth.VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, auth.VerifyPassword(hash, "wrong password"))
	assert.False(t, auth.VerifyPassword(hash, ""))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	second, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, auth.VerifyPassword(first, "secret123"))
	assert.True(t, auth.VerifyPassword(second, "secret123"))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, auth.VerifyPassword("not-a-hash", "secret123"))
	assert.False(t, auth.VerifyPassword("", "secret123"))
	assert.False(t, auth.VerifyPassword("$argon2id$v=19$garbage", "secret123"))
}
