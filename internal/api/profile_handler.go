package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/allrails/api/internal/api/shared"
	"github.com/allrails/api/internal/service"
	"github.com/allrails/api/internal/store"
)

// ProfileHandler handles the authenticated profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler with the given dependencies.
func NewProfileHandler(profileService service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validator:      newValidator(),
		logger:         logger.With("handler", "profile"),
	}
}

// GetMyProfile handles GET /profile. A user who has not created a profile
// yet receives an empty object rather than a 404.
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.GetMyProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			shared.RespondWithJSON(w, r, http.StatusOK, struct{}{})
			return
		}
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// UpsertProfile handles PUT /profile.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpsertProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	profile, err := h.profileService.Upsert(r.Context(), userID, service.UpsertProfileInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
		Bio:         req.Bio,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}
