package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordResetToken(t *testing.T) {
	t.Parallel()

	t.Run("issues a hex token with the configured lifetime", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		before := time.Now().UTC()

		token, err := NewPasswordResetToken(userID, time.Hour)
		require.NoError(t, err)

		assert.Equal(t, userID, token.UserID)
		assert.Len(t, token.Token, ResetTokenBytes*2)
		assert.Nil(t, token.UsedAt)
		assert.True(t, token.ExpiresAt.After(before.Add(59*time.Minute)))
		assert.NoError(t, token.Validate())
	})

	t.Run("generates distinct values", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()

		a, err := NewPasswordResetToken(userID, time.Hour)
		require.NoError(t, err)
		b, err := NewPasswordResetToken(userID, time.Hour)
		require.NoError(t, err)

		assert.NotEqual(t, a.Token, b.Token)
	})

	t.Run("requires a user", func(t *testing.T) {
		t.Parallel()
		_, err := NewPasswordResetToken(uuid.Nil, time.Hour)
		assert.ErrorIs(t, err, ErrResetTokenUserNil)
	})
}

func TestPasswordResetTokenLifecycle(t *testing.T) {
	t.Parallel()

	token, err := NewPasswordResetToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	now := time.Now().UTC()

	t.Run("fresh token is usable", func(t *testing.T) {
		assert.False(t, token.IsUsed())
		assert.False(t, token.IsExpired(now))
		assert.True(t, token.Usable(now))
	})

	t.Run("expired token is not usable", func(t *testing.T) {
		later := token.ExpiresAt.Add(time.Second)
		assert.True(t, token.IsExpired(later))
		assert.False(t, token.Usable(later))
	})

	t.Run("used token is terminal even before expiry", func(t *testing.T) {
		used := *token
		usedAt := now
		used.UsedAt = &usedAt

		assert.True(t, used.IsUsed())
		assert.False(t, used.Usable(now))
	})
}
