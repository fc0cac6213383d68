package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/allrails/api/internal/api/shared"
	"github.com/allrails/api/internal/service"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService service.AuthService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   newValidator(),
		logger:      logger.With("handler", "auth"),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		AccessToken: result.AccessToken,
		User: UserResponse{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  result.User.Role,
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		AccessToken: result.AccessToken,
		User: UserResponse{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  result.User.Role,
		},
	})
}

// ForgotPassword handles POST /auth/forgot-password. The response message
// is identical whether or not the email belongs to an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	message, err := h.authService.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: message})
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	message, err := h.authService.ResetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: message})
}

// decodeAndValidate parses and validates the request body, writing a 400
// response and returning false on failure.
func (h *AuthHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	return decodeAndValidate(w, r, h.validator, dst)
}
