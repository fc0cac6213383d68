package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/allrails/api/internal/domain"
	"github.com/allrails/api/internal/platform/logger"
	"github.com/allrails/api/internal/store"
	"github.com/google/uuid"
)

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	db store.DBTX
}

// NewUserStore creates a PostgreSQL implementation of store.UserStore.
// The database handle is initialized and managed by the caller.
func NewUserStore(db store.DBTX) *UserStore {
	return &UserStore{db: db}
}

// Ensure UserStore implements store.UserStore.
var _ store.UserStore = (*UserStore)(nil)

// WithTx returns a UserStore bound to the given transaction.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx}
}

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, email, hashed_password, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.HashedPassword,
		nullableString(user.Name),
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, hashed_password, name, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, hashed_password, name, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// UpdateHashedPassword implements store.UserStore.UpdateHashedPassword.
func (s *UserStore) UpdateHashedPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	log := logger.FromContext(ctx)

	if hashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	query := `
		UPDATE users
		SET hashed_password = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, hashedPassword, id)
	if err != nil {
		log.Error("failed to update user password",
			"error", err,
			"user_id", id)
		return fmt.Errorf("failed to update user password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

func (s *UserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var name sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&name,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}

	user.Name = name.String
	return &user, nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
