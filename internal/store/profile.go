package store

import (
	"context"
	"database/sql"

	"github.com/allrails/api/internal/domain"
	"github.com/google/uuid"
)

// ProfileStore defines the interface for profile persistence.
type ProfileStore interface {
	// GetByUserID retrieves the profile belonging to a user.
	// Returns ErrProfileNotFound if the user has not created one yet.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// GetByUsername retrieves a profile by its unique username. The caller
	// must lowercase the username first; usernames are stored lowercase.
	// Returns ErrProfileNotFound if no profile matches.
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)

	// Upsert inserts the user's profile row or updates it if one exists.
	// Returns ErrUsernameExists if the username is taken by another user.
	Upsert(ctx context.Context, profile *domain.Profile) error

	// WithTx returns a ProfileStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ProfileStore
}
