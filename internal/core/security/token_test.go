package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssueAndVerify(t *testing.T) {
	manager := NewTokenManager("test-secret", "expenses", time.Hour)

	token, err := manager.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenVerifyRejects(t *testing.T) {
	manager := NewTokenManager("test-secret", "expenses", time.Hour)
	token, err := manager.Issue(42)
	require.NoError(t, err)

	t.Run("tampered", func(t *testing.T) {
		_, err := manager.Verify(token + "x")
		assert.Error(t, err)
	})
	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("other-secret", "expenses", time.Hour)
		_, err := other.Verify(token)
		assert.Error(t, err)
	})
	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenManager("test-secret", "elsewhere", time.Hour)
		_, err := other.Verify(token)
		assert.Error(t, err)
	})
	t.Run("expired", func(t *testing.T) {
		expired := NewTokenManager("test-secret", "expenses", -time.Minute)
		token, err := expired.Issue(42)
		require.NoError(t, err)
		_, err = expired.Verify(token)
		assert.Error(t, err)
	})
}
