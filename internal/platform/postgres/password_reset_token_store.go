package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/allrails/api/internal/domain"
	"github.com/allrails/api/internal/platform/logger"
	"github.com/allrails/api/internal/store"
	"github.com/google/uuid"
)

// PasswordResetTokenStore implements store.PasswordResetTokenStore using
// PostgreSQL.
type PasswordResetTokenStore struct {
	db store.DBTX
}

// NewPasswordResetTokenStore creates a PostgreSQL implementation of
// store.PasswordResetTokenStore.
func NewPasswordResetTokenStore(db store.DBTX) *PasswordResetTokenStore {
	return &PasswordResetTokenStore{db: db}
}

// Ensure PasswordResetTokenStore implements the interface.
var _ store.PasswordResetTokenStore = (*PasswordResetTokenStore)(nil)

// WithTx returns a PasswordResetTokenStore bound to the given transaction.
func (s *PasswordResetTokenStore) WithTx(tx *sql.Tx) store.PasswordResetTokenStore {
	return &PasswordResetTokenStore{db: tx}
}

// Create implements store.PasswordResetTokenStore.Create.
func (s *PasswordResetTokenStore) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	log := logger.FromContext(ctx)

	if err := token.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO password_reset_tokens (id, user_id, token, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.UsedAt,
		token.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create password reset token",
			"error", err,
			"user_id", token.UserID)
		return fmt.Errorf("failed to create password reset token: %w", err)
	}

	return nil
}

// GetByToken implements store.PasswordResetTokenStore.GetByToken.
func (s *PasswordResetTokenStore) GetByToken(ctx context.Context, tokenValue string) (*domain.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, used_at, created_at
		FROM password_reset_tokens
		WHERE token = $1
	`

	var token domain.PasswordResetToken
	var usedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, tokenValue).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.ExpiresAt,
		&usedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("failed to scan password reset token row: %w", err)
	}

	if usedAt.Valid {
		t := usedAt.Time
		token.UsedAt = &t
	}

	return &token, nil
}

// MarkUsed implements store.PasswordResetTokenStore.MarkUsed.
func (s *PasswordResetTokenStore) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	query := `
		UPDATE password_reset_tokens
		SET used_at = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, usedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark password reset token used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrResetTokenNotFound
	}

	return nil
}

// InvalidateActiveForUser implements
// store.PasswordResetTokenStore.InvalidateActiveForUser.
func (s *PasswordResetTokenStore) InvalidateActiveForUser(ctx context.Context, userID uuid.UUID, usedAt time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query := `
		UPDATE password_reset_tokens
		SET used_at = $1
		WHERE user_id = $2 AND used_at IS NULL
	`

	result, err := s.db.ExecContext(ctx, query, usedAt, userID)
	if err != nil {
		log.Error("failed to invalidate password reset tokens",
			"error", err,
			"user_id", userID)
		return 0, fmt.Errorf("failed to invalidate password reset tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
