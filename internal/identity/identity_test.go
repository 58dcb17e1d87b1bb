package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	m := NewManager("secret", time.Hour, "test")

	hash, err := m.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, m.CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, m.CheckPassword(hash, "wrong"))
	assert.False(t, m.CheckPassword("not-a-hash", "correct horse battery staple"))
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour, "test")

	token, err := m.IssueToken("user-1", []string{"student", "tutor"})
	require.NoError(t, err)

	principal, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.UserID)
	assert.Equal(t, []string{"student", "tutor"}, principal.Roles)
	assert.True(t, principal.HasRole("student"))
	assert.False(t, principal.HasRole("admin"))
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	m := NewManager("secret", time.Hour, "test")

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ParseToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("another-secret", time.Hour, "test")
		token, err := other.IssueToken("user-1", nil)
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewManager("secret", -time.Minute, "test")
		token, err := expired.IssueToken("user-1", nil)
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
