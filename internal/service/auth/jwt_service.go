package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT session tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT embedding the user's identity,
	// email and role. Returns the token string or an error.
	GenerateToken(ctx context.Context, userID uuid.UUID, email, role string) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims, or returns an error (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims carried by session tokens.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Email is the user's email at issuance time.
	Email string `json:"email,omitempty"`

	// Role is the user's role at issuance time.
	Role string `json:"role,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
