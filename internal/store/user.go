package store

import (
	"context"
	"database/sql"

	"github.com/allrails/api/internal/domain"
	"github.com/google/uuid"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user's HashedPassword must
	// already be populated by the caller.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (lowercased).
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateHashedPassword replaces the user's password hash.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateHashedPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error

	// WithTx returns a UserStore bound to the provided transaction, so
	// multiple operations can commit or roll back together.
	WithTx(tx *sql.Tx) UserStore
}
