package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/allrails/api/internal/api/shared"
	"github.com/allrails/api/internal/service"
)

// PaymentMethodHandler handles the authenticated payment method endpoints.
type PaymentMethodHandler struct {
	paymentMethodService service.PaymentMethodService
	validator            *validator.Validate
	logger               *slog.Logger
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler with the given
// dependencies.
func NewPaymentMethodHandler(
	paymentMethodService service.PaymentMethodService,
	logger *slog.Logger,
) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		paymentMethodService: paymentMethodService,
		validator:            newValidator(),
		logger:               logger.With("handler", "payment_method"),
	}
}

// GetAll handles GET /payment-methods.
func (h *PaymentMethodHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	methods, err := h.paymentMethodService.GetAll(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, methods)
}

// Create handles POST /payment-methods.
func (h *PaymentMethodHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreatePaymentMethodRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	method, err := h.paymentMethodService.Create(r.Context(), userID, service.CreatePaymentMethodInput{
		Type:      req.Type,
		Label:     req.Label,
		Handle:    req.Handle,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, method)
}

// Update handles PUT /payment-methods/{id}.
func (h *PaymentMethodHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req UpdatePaymentMethodRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	method, err := h.paymentMethodService.Update(r.Context(), userID, id, service.UpdatePaymentMethodInput{
		Type:      req.Type,
		Label:     req.Label,
		Handle:    req.Handle,
		SortOrder: req.SortOrder,
		Active:    req.Active,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, method)
}

// Delete handles DELETE /payment-methods/{id}.
func (h *PaymentMethodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.paymentMethodService.Delete(r.Context(), userID, id); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteResponse{Success: true})
}

// Reorder handles PATCH /payment-methods/reorder. Validation precedes every
// write, so a rejected request leaves all sort orders untouched.
func (h *PaymentMethodHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ReorderPaymentMethodsRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	order := make([]service.ReorderEntry, 0, len(req.Order))
	for _, item := range req.Order {
		order = append(order, service.ReorderEntry{
			ID:        item.ID,
			SortOrder: item.SortOrder,
		})
	}

	methods, err := h.paymentMethodService.Reorder(r.Context(), userID, order)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, methods)
}
