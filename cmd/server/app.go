package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/allrails/api/internal/config"
	"github.com/allrails/api/internal/platform/postgres"
	"github.com/allrails/api/internal/service"
	"github.com/allrails/api/internal/service/auth"
	"github.com/allrails/api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore          store.UserStore
	resetTokenStore    store.PasswordResetTokenStore
	profileStore       store.ProfileStore
	paymentMethodStore store.PaymentMethodStore

	// Services
	jwtService           auth.JWTService
	authService          service.AuthService
	profileService       service.ProfileService
	paymentMethodService service.PaymentMethodService
	pageService          service.PageService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies that must be established before
// application wiring.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	verifier := auth.NewBcryptVerifier()
	txRunner := store.NewDBTxRunner(db)

	app.userStore = postgres.NewUserStore(db)
	app.resetTokenStore = postgres.NewPasswordResetTokenStore(db)
	app.profileStore = postgres.NewProfileStore(db)
	app.paymentMethodStore = postgres.NewPaymentMethodStore(db)

	app.authService = service.NewAuthService(
		app.userStore,
		app.resetTokenStore,
		app.jwtService,
		hasher,
		verifier,
		txRunner,
		service.AuthServiceConfig{
			ResetTokenLifetime: time.Duration(cfg.Auth.ResetTokenLifetimeMinutes) * time.Minute,
			FrontendBaseURL:    cfg.Server.FrontendBaseURL,
		},
		logger,
	)

	app.profileService = service.NewProfileService(app.profileStore, logger)
	app.paymentMethodService = service.NewPaymentMethodService(app.paymentMethodStore, txRunner, logger)
	app.pageService = service.NewPageService(app.profileStore, app.userStore, app.paymentMethodStore, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
