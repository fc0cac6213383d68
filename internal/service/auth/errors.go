package auth

import "errors"

// Authentication and token lifecycle errors.
var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// failed password comparison. The two cases are deliberately
	// indistinguishable to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a session token fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a session token has expired.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a session token's nbf/iat lies
	// in the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrInvalidResetToken is returned when a password reset token does not
	// match any issued token.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrResetTokenUsed is returned when a reset token was already redeemed
	// or superseded by a newer request.
	ErrResetTokenUsed = errors.New("reset token already used")

	// ErrResetTokenExpired is returned when a reset token's expiry passed
	// before redemption.
	ErrResetTokenExpired = errors.New("reset token expired")
)
