package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/allrails/api/internal/domain"
	"github.com/allrails/api/internal/store"
	"github.com/google/uuid"
)

// UpsertProfileInput carries the fields for creating or replacing the
// caller's profile.
type UpsertProfileInput struct {
	Username    string
	DisplayName string
	Avatar      string
	Bio         string
}

// ProfileService manages the one-per-user public profile.
type ProfileService interface {
	// GetMyProfile returns the caller's profile.
	// Returns store.ErrProfileNotFound if none has been created yet.
	GetMyProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Upsert creates or replaces the caller's profile. Returns
	// store.ErrUsernameExists if another user holds the username.
	Upsert(ctx context.Context, userID uuid.UUID, input UpsertProfileInput) (*domain.Profile, error)
}

// ProfileServiceImpl implements the ProfileService interface.
type ProfileServiceImpl struct {
	profiles store.ProfileStore
	logger   *slog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles store.ProfileStore, logger *slog.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		profiles: profiles,
		logger:   logger.With("component", "profile_service"),
	}
}

// Ensure ProfileServiceImpl implements ProfileService.
var _ ProfileService = (*ProfileServiceImpl)(nil)

// GetMyProfile implements ProfileService.GetMyProfile.
func (s *ProfileServiceImpl) GetMyProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get profile", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// Upsert implements ProfileService.Upsert.
//
// Username uniqueness excludes the caller's own row, so re-saving a profile
// without changing the username never conflicts.
func (s *ProfileServiceImpl) Upsert(ctx context.Context, userID uuid.UUID, input UpsertProfileInput) (*domain.Profile, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))

	existing, err := s.profiles.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, store.ErrProfileNotFound) {
		s.logger.Error("failed to check username availability", "error", err)
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}
	if existing != nil && existing.UserID != userID {
		s.logger.Debug("username already taken", "username", username)
		return nil, store.ErrUsernameExists
	}

	profile, err := domain.NewProfile(userID, username, input.DisplayName, input.Avatar, input.Bio)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return nil, err
		}
		s.logger.Error("failed to upsert profile", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	s.logger.Debug("profile upserted", "user_id", userID, "username", username)
	return profile, nil
}
