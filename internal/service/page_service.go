package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/allrails/api/internal/store"
	"github.com/google/uuid"
)

// PublicPaymentMethod is the public-safe projection of a payment method:
// the id is kept for client rendering, owner and activity flags are not.
type PublicPaymentMethod struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Label     string    `json:"label,omitempty"`
	Handle    string    `json:"handle"`
	SortOrder int       `json:"sort_order"`
}

// PublicPage is the anonymous view of a user's profile and active payment
// methods. It never carries emails, hashes or inactive methods.
type PublicPage struct {
	Username       string                `json:"username"`
	DisplayName    string                `json:"display_name,omitempty"`
	Avatar         string                `json:"avatar,omitempty"`
	Bio            string                `json:"bio,omitempty"`
	PaymentMethods []PublicPaymentMethod `json:"payment_methods"`
}

// PageService assembles the public page at /p/:username.
type PageService interface {
	// GetPublicPage looks up a profile case-insensitively and joins it with
	// the owner's active payment methods sorted by sort order.
	// Returns store.ErrProfileNotFound if no profile matches.
	GetPublicPage(ctx context.Context, username string) (*PublicPage, error)
}

// PageServiceImpl implements the PageService interface.
type PageServiceImpl struct {
	profiles store.ProfileStore
	users    store.UserStore
	methods  store.PaymentMethodStore
	logger   *slog.Logger
}

// NewPageService creates a new PageService.
func NewPageService(
	profiles store.ProfileStore,
	users store.UserStore,
	methods store.PaymentMethodStore,
	logger *slog.Logger,
) *PageServiceImpl {
	return &PageServiceImpl{
		profiles: profiles,
		users:    users,
		methods:  methods,
		logger:   logger.With("component", "page_service"),
	}
}

// Ensure PageServiceImpl implements PageService.
var _ PageService = (*PageServiceImpl)(nil)

// GetPublicPage implements PageService.GetPublicPage.
func (s *PageServiceImpl) GetPublicPage(ctx context.Context, username string) (*PublicPage, error) {
	profile, err := s.profiles.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, err
		}
		s.logger.Error("failed to look up profile", "error", err)
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	displayName := profile.DisplayName
	if displayName == "" {
		// Fall back to the name given at registration.
		user, err := s.users.GetByID(ctx, profile.UserID)
		if err != nil && !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to load profile owner", "error", err, "user_id", profile.UserID)
			return nil, fmt.Errorf("failed to load profile owner: %w", err)
		}
		if user != nil {
			displayName = user.Name
		}
	}

	methods, err := s.methods.ListActiveByUser(ctx, profile.UserID)
	if err != nil {
		s.logger.Error("failed to list active payment methods", "error", err, "user_id", profile.UserID)
		return nil, fmt.Errorf("failed to list active payment methods: %w", err)
	}

	public := make([]PublicPaymentMethod, 0, len(methods))
	for _, m := range methods {
		public = append(public, PublicPaymentMethod{
			ID:        m.ID,
			Type:      m.Type,
			Label:     m.Label,
			Handle:    m.Handle,
			SortOrder: m.SortOrder,
		})
	}

	return &PublicPage{
		Username:       profile.Username,
		DisplayName:    displayName,
		Avatar:         profile.Avatar,
		Bio:            profile.Bio,
		PaymentMethods: public,
	}, nil
}
