package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("scales42")
	require.NoError(t, err)
	assert.NotEqual(t, "scales42", hash)

	assert.True(t, CheckPassword(hash, "scales42"))
	assert.False(t, CheckPassword(hash, "scales43"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", 42, "ADMIN", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", 42, "USER", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseToken_RejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", 42, "USER", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}
