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

// ProfileStore implements store.ProfileStore using PostgreSQL.
type ProfileStore struct {
	db store.DBTX
}

// NewProfileStore creates a PostgreSQL implementation of store.ProfileStore.
func NewProfileStore(db store.DBTX) *ProfileStore {
	return &ProfileStore{db: db}
}

// Ensure ProfileStore implements the interface.
var _ store.ProfileStore = (*ProfileStore)(nil)

// WithTx returns a ProfileStore bound to the given transaction.
func (s *ProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &ProfileStore{db: tx}
}

// GetByUserID implements store.ProfileStore.GetByUserID.
func (s *ProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, username, display_name, avatar, bio, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	return s.scanProfile(s.db.QueryRowContext(ctx, query, userID))
}

// GetByUsername implements store.ProfileStore.GetByUsername.
func (s *ProfileStore) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	query := `
		SELECT user_id, username, display_name, avatar, bio, created_at, updated_at
		FROM profiles
		WHERE username = $1
	`
	return s.scanProfile(s.db.QueryRowContext(ctx, query, username))
}

// Upsert implements store.ProfileStore.Upsert. The profiles table keys on
// user_id, so a conflict there means update; a unique violation on
// username means another user owns it.
func (s *ProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContext(ctx)

	if err := profile.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO profiles (user_id, username, display_name, avatar, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    display_name = EXCLUDED.display_name,
		    avatar = EXCLUDED.avatar,
		    bio = EXCLUDED.bio,
		    updated_at = now()
	`

	_, err := s.db.ExecContext(ctx, query,
		profile.UserID,
		profile.Username,
		nullableString(profile.DisplayName),
		nullableString(profile.Avatar),
		nullableString(profile.Bio),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrUsernameExists
		}
		log.Error("failed to upsert profile",
			"error", err,
			"user_id", profile.UserID)
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

func (s *ProfileStore) scanProfile(row *sql.Row) (*domain.Profile, error) {
	var profile domain.Profile
	var displayName, avatar, bio sql.NullString

	err := row.Scan(
		&profile.UserID,
		&profile.Username,
		&displayName,
		&avatar,
		&bio,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile row: %w", err)
	}

	profile.DisplayName = displayName.String
	profile.Avatar = avatar.String
	profile.Bio = bio.String
	return &profile, nil
}
