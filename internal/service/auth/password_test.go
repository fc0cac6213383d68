package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	t.Run("hash verifies against the original password", func(t *testing.T) {
		t.Parallel()
		hasher := NewBcryptHasher(bcrypt.MinCost)

		hashed, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery staple", hashed)

		verifier := NewBcryptVerifier()
		assert.NoError(t, verifier.Compare(hashed, "correct horse battery staple"))
		assert.Error(t, verifier.Compare(hashed, "wrong password"))
	})

	t.Run("clamps out of range costs to the default", func(t *testing.T) {
		t.Parallel()

		for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
			hasher := NewBcryptHasher(cost)
			assert.Equal(t, bcrypt.DefaultCost, hasher.cost, "cost %d should clamp", cost)
		}
	})

	t.Run("keeps valid costs", func(t *testing.T) {
		t.Parallel()
		hasher := NewBcryptHasher(bcrypt.MinCost)
		assert.Equal(t, bcrypt.MinCost, hasher.cost)
	})
}
