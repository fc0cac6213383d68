package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/allrails/api/internal/api/shared"
	"github.com/allrails/api/internal/service"
	"github.com/allrails/api/internal/store"
)

// PageHandler serves the public, unauthenticated page endpoint.
type PageHandler struct {
	pageService service.PageService
	logger      *slog.Logger
}

// NewPageHandler creates a new PageHandler with the given dependencies.
func NewPageHandler(pageService service.PageService, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		pageService: pageService,
		logger:      logger.With("handler", "page"),
	}
}

// GetPublicPage handles GET /p/{username}. Usernames are matched
// case-insensitively.
func (h *PageHandler) GetPublicPage(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Username is required")
		return
	}

	page, err := h.pageService.GetPublicPage(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Page not found")
			return
		}
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, page)
}
