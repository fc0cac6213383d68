package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResetTokenBytes is the number of random bytes behind a reset token.
// Hex encoding yields a 64-character token string.
const ResetTokenBytes = 32

// Reset token validation errors.
var (
	ErrEmptyResetToken   = errors.New("reset token cannot be empty")
	ErrResetTokenUserNil = errors.New("reset token must reference a user")
)

// PasswordResetToken is a single-use, time-limited credential proving
// control of an email's reset request. Its lifecycle state is derived from
// the (UsedAt, ExpiresAt) pair rather than stored explicitly: a token is
// usable only while UsedAt is nil and ExpiresAt is in the future.
// Superseded tokens are marked used, so "used" and "superseded" collapse
// into the same terminal state.
type PasswordResetToken struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewPasswordResetToken issues a fresh token for the given user with a
// cryptographically random value, expiring after the given lifetime.
func NewPasswordResetToken(userID uuid.UUID, lifetime time.Duration) (*PasswordResetToken, error) {
	if userID == uuid.Nil {
		return nil, ErrResetTokenUserNil
	}

	value, err := generateResetTokenValue()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &PasswordResetToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     value,
		ExpiresAt: now.Add(lifetime),
		CreatedAt: now,
	}, nil
}

// IsUsed reports whether the token has been consumed or superseded.
func (t *PasswordResetToken) IsUsed() bool {
	return t.UsedAt != nil
}

// IsExpired reports whether the token's expiry has passed at the given time.
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Usable reports whether the token can still redeem a password reset:
// never used and not yet expired.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return !t.IsUsed() && !t.IsExpired(now)
}

// Validate checks if the token has valid data.
func (t *PasswordResetToken) Validate() error {
	if t.ID == uuid.Nil {
		return ErrInvalidID
	}
	if t.UserID == uuid.Nil {
		return ErrResetTokenUserNil
	}
	if t.Token == "" {
		return ErrEmptyResetToken
	}
	return nil
}

// generateResetTokenValue returns a 256-bit random value, hex-encoded.
func generateResetTokenValue() (string, error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
