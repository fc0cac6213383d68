package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/allrails/api/internal/api"
	apiMiddleware "github.com/allrails/api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.authService, app.logger)
	profileHandler := api.NewProfileHandler(app.profileService, app.logger)
	paymentMethodHandler := api.NewPaymentMethodHandler(app.paymentMethodService, app.logger)
	pageHandler := api.NewPageHandler(app.pageService, app.logger)
	healthHandler := api.NewHealthHandler(app.db, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Authentication endpoints (public)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/forgot-password", authHandler.ForgotPassword)
	r.Post("/auth/reset-password", authHandler.ResetPassword)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/profile", profileHandler.GetMyProfile)
		r.Put("/profile", profileHandler.UpsertProfile)

		r.Get("/payment-methods", paymentMethodHandler.GetAll)
		r.Post("/payment-methods", paymentMethodHandler.Create)
		r.Patch("/payment-methods/reorder", paymentMethodHandler.Reorder)
		r.Put("/payment-methods/{id}", paymentMethodHandler.Update)
		r.Delete("/payment-methods/{id}", paymentMethodHandler.Delete)
	})

	// Public page endpoint
	r.Get("/p/{username}", pageHandler.GetPublicPage)

	// Health check endpoint
	r.Get("/health", healthHandler.Check)

	return r
}
