package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/allrails/api/internal/domain"
	"github.com/allrails/api/internal/service/auth"
	"github.com/allrails/api/internal/store"
)

// Messages returned verbatim to clients. ForgotPasswordMessage is returned
// for every input, registered or not, so responses never reveal whether an
// email has an account.
const (
	ForgotPasswordMessage = "If that email is registered, a password reset link has been sent."
	ResetPasswordMessage  = "Password has been reset. Please log in with your new password."
)

// AuthResult bundles a signed session token with the authenticated user.
type AuthResult struct {
	AccessToken string
	User        *domain.User
}

// AuthService orchestrates registration, login and the password reset
// lifecycle over the user and reset token stores.
type AuthService interface {
	// Register creates a user and returns a session token.
	// Returns store.ErrEmailExists if the email is already registered.
	Register(ctx context.Context, email, password, name string) (*AuthResult, error)

	// Login authenticates by email and password. Unknown email and wrong
	// password both return auth.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// ForgotPassword begins a reset flow. It always returns
	// ForgotPasswordMessage; side effects happen only for registered emails.
	ForgotPassword(ctx context.Context, email string) (string, error)

	// ResetPassword redeems a reset token, setting the user's new password
	// and consuming the token atomically.
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
}

// AuthServiceConfig carries the scalar settings of the auth service.
type AuthServiceConfig struct {
	// ResetTokenLifetime is how long issued reset tokens stay redeemable.
	ResetTokenLifetime time.Duration

	// FrontendBaseURL is the origin used to build reset links.
	FrontendBaseURL string
}

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	userStore  store.UserStore
	tokenStore store.PasswordResetTokenStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	txRunner   store.TxRunner
	cfg        AuthServiceConfig
	logger     *slog.Logger
	timeFunc   func() time.Time // Injectable for testing
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userStore store.UserStore,
	tokenStore store.PasswordResetTokenStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	txRunner store.TxRunner,
	cfg AuthServiceConfig,
	logger *slog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userStore:  userStore,
		tokenStore: tokenStore,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
		txRunner:   txRunner,
		cfg:        cfg,
		logger:     logger.With("component", "auth_service"),
		timeFunc:   func() time.Time { return time.Now().UTC() },
	}
}

// Ensure AuthServiceImpl implements AuthService.
var _ AuthService = (*AuthServiceImpl)(nil)

// Register implements AuthService.Register.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	user, err := domain.NewUser(email, password, name)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register existing email")
			return nil, err
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.buildTokenResponse(ctx, user)
}

// Login implements AuthService.Login.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userStore.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same error as a bad password: callers cannot probe for
			// registered emails.
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user by email", "error", err)
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return s.buildTokenResponse(ctx, user)
}

// ForgotPassword implements AuthService.ForgotPassword.
//
// The returned message is identical on every path. For registered emails it
// supersedes all outstanding tokens, issues a fresh one valid for the
// configured lifetime and logs the reset link; delivery is out of scope.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userStore.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("password reset requested for unknown email")
			return ForgotPasswordMessage, nil
		}
		s.logger.Error("failed to look up user for password reset", "error", err)
		return "", fmt.Errorf("failed to process password reset request: %w", err)
	}

	token, err := domain.NewPasswordResetToken(user.ID, s.cfg.ResetTokenLifetime)
	if err != nil {
		s.logger.Error("failed to generate reset token", "error", err, "user_id", user.ID)
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	now := s.timeFunc()
	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTokens := s.tokenStore.WithTx(tx)

		// Only the most recent request stays honorable.
		superseded, err := txTokens.InvalidateActiveForUser(ctx, user.ID, now)
		if err != nil {
			return err
		}
		if superseded > 0 {
			s.logger.Debug("superseded outstanding reset tokens",
				"user_id", user.ID,
				"count", superseded)
		}

		return txTokens.Create(ctx, token)
	})
	if err != nil {
		s.logger.Error("failed to persist reset token", "error", err, "user_id", user.ID)
		return "", fmt.Errorf("failed to persist reset token: %w", err)
	}

	// Email delivery is out of scope; the link goes to the operational log.
	s.logger.Info("password reset link generated",
		"user_id", user.ID,
		"reset_link", s.resetLink(token.Token),
		"expires_at", token.ExpiresAt)

	return ForgotPasswordMessage, nil
}

// ResetPassword implements AuthService.ResetPassword.
//
// The new password hash and the token's used_at are written in a single
// transaction: a reset can never leave the password changed with the token
// still redeemable, or the reverse.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, tokenValue, newPassword string) (string, error) {
	token, err := s.tokenStore.GetByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, store.ErrResetTokenNotFound) {
			return "", auth.ErrInvalidResetToken
		}
		s.logger.Error("failed to look up reset token", "error", err)
		return "", fmt.Errorf("failed to look up reset token: %w", err)
	}

	now := s.timeFunc()
	if token.IsUsed() {
		s.logger.Debug("attempted reuse of reset token", "token_id", token.ID)
		return "", auth.ErrResetTokenUsed
	}
	if token.IsExpired(now) {
		s.logger.Debug("attempted use of expired reset token", "token_id", token.ID)
		return "", auth.ErrResetTokenExpired
	}

	if len(newPassword) < domain.MinPasswordLength {
		return "", domain.ErrPasswordTooShort
	}
	if len(newPassword) > domain.MaxPasswordLength {
		return "", domain.ErrPasswordTooLong
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password", "error", err)
		return "", fmt.Errorf("failed to hash new password: %w", err)
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).UpdateHashedPassword(ctx, token.UserID, hashed); err != nil {
			return err
		}
		return s.tokenStore.WithTx(tx).MarkUsed(ctx, token.ID, now)
	})
	if err != nil {
		s.logger.Error("failed to apply password reset",
			"error", err,
			"user_id", token.UserID)
		return "", fmt.Errorf("failed to apply password reset: %w", err)
	}

	s.logger.Info("password reset completed", "user_id", token.UserID)
	return ResetPasswordMessage, nil
}

// buildTokenResponse signs a session token for the user and pairs it with
// the public user fields.
func (s *AuthServiceImpl) buildTokenResponse(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwtService.GenerateToken(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("failed to generate session token", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &AuthResult{
		AccessToken: accessToken,
		User:        user,
	}, nil
}

func (s *AuthServiceImpl) resetLink(token string) string {
	return strings.TrimRight(s.cfg.FrontendBaseURL, "/") + "/reset-password?token=" + token
}
