package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/allrails/api/internal/domain"
	"github.com/google/uuid"
)

// PasswordResetTokenStore defines the interface for reset token persistence.
// Tokens are never physically deleted; terminal states are recorded by
// setting used_at.
type PasswordResetTokenStore interface {
	// Create persists a freshly issued token.
	Create(ctx context.Context, token *domain.PasswordResetToken) error

	// GetByToken retrieves a token by its exact string value.
	// Returns ErrResetTokenNotFound if no row matches.
	GetByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)

	// MarkUsed sets used_at on a single token, moving it to a terminal state.
	// Returns ErrResetTokenNotFound if the token does not exist.
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error

	// InvalidateActiveForUser bulk-marks every unused token belonging to the
	// user as used, superseding any outstanding reset requests. Returns the
	// number of tokens invalidated.
	InvalidateActiveForUser(ctx context.Context, userID uuid.UUID, usedAt time.Time) (int64, error)

	// WithTx returns a PasswordResetTokenStore bound to the provided
	// transaction.
	WithTx(tx *sql.Tx) PasswordResetTokenStore
}
