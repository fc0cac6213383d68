package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allrails/api/internal/api/shared"
	"github.com/allrails/api/internal/domain"
	"github.com/allrails/api/internal/service"
	"github.com/allrails/api/internal/store"
)

func strPtr(v string) *string { return &v }

// fakePaymentMethodService returns canned results and records inputs.
type fakePaymentMethodService struct {
	methods   []*domain.PaymentMethod
	method    *domain.PaymentMethod
	err       error
	lastUser  uuid.UUID
	lastID    uuid.UUID
	lastOrder []service.ReorderEntry
}

func (s *fakePaymentMethodService) GetAll(ctx context.Context, userID uuid.UUID) ([]*domain.PaymentMethod, error) {
	s.lastUser = userID
	return s.methods, s.err
}

func (s *fakePaymentMethodService) Create(ctx context.Context, userID uuid.UUID, input service.CreatePaymentMethodInput) (*domain.PaymentMethod, error) {
	s.lastUser = userID
	return s.method, s.err
}

func (s *fakePaymentMethodService) Update(ctx context.Context, userID, id uuid.UUID, input service.UpdatePaymentMethodInput) (*domain.PaymentMethod, error) {
	s.lastUser = userID
	s.lastID = id
	return s.method, s.err
}

func (s *fakePaymentMethodService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.lastUser = userID
	s.lastID = id
	return s.err
}

func (s *fakePaymentMethodService) Reorder(ctx context.Context, userID uuid.UUID, order []service.ReorderEntry) ([]*domain.PaymentMethod, error) {
	s.lastUser = userID
	s.lastOrder = order
	return s.methods, s.err
}

// serveAuthenticated routes the request through a minimal chi router with
// the user id already placed in context, mirroring the auth middleware.
func serveAuthenticated(t *testing.T, userID uuid.UUID, method, path string, body []byte, register func(r chi.Router)) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	register(r)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPaymentMethodHandlerGetAll(t *testing.T) {
	t.Parallel()

	t.Run("returns the caller's methods", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		seeded, err := domain.NewPaymentMethod(userID, "venmo", "", "@alice", 0)
		require.NoError(t, err)

		svc := &fakePaymentMethodService{methods: []*domain.PaymentMethod{seeded}}
		handler := NewPaymentMethodHandler(svc, testLogger())

		rec := serveAuthenticated(t, userID, http.MethodGet, "/payment-methods", nil, func(r chi.Router) {
			r.Get("/payment-methods", handler.GetAll)
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, svc.lastUser)

		var got []*domain.PaymentMethod
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, seeded.ID, got[0].ID)
	})

	t.Run("returns 401 without an authenticated user", func(t *testing.T) {
		t.Parallel()
		handler := NewPaymentMethodHandler(&fakePaymentMethodService{}, testLogger())

		req := httptest.NewRequest(http.MethodGet, "/payment-methods", nil)
		rec := httptest.NewRecorder()
		handler.GetAll(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPaymentMethodHandlerCreate(t *testing.T) {
	t.Parallel()

	t.Run("returns 201 with the created method", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		created, err := domain.NewPaymentMethod(userID, "venmo", "", "@alice", 0)
		require.NoError(t, err)

		svc := &fakePaymentMethodService{method: created}
		handler := NewPaymentMethodHandler(svc, testLogger())

		body, _ := json.Marshal(CreatePaymentMethodRequest{Type: "venmo", Handle: "@alice"})
		rec := serveAuthenticated(t, userID, http.MethodPost, "/payment-methods", body, func(r chi.Router) {
			r.Post("/payment-methods", handler.Create)
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("returns 400 for missing required fields", func(t *testing.T) {
		t.Parallel()
		handler := NewPaymentMethodHandler(&fakePaymentMethodService{}, testLogger())

		body, _ := json.Marshal(CreatePaymentMethodRequest{Type: "venmo"})
		rec := serveAuthenticated(t, uuid.New(), http.MethodPost, "/payment-methods", body, func(r chi.Router) {
			r.Post("/payment-methods", handler.Create)
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPaymentMethodHandlerUpdate(t *testing.T) {
	t.Parallel()

	t.Run("maps ownership failures to 403", func(t *testing.T) {
		t.Parallel()
		svc := &fakePaymentMethodService{err: domain.ErrNotOwner}
		handler := NewPaymentMethodHandler(svc, testLogger())

		id := uuid.New()
		body, _ := json.Marshal(UpdatePaymentMethodRequest{Label: strPtr("x")})
		rec := serveAuthenticated(t, uuid.New(), http.MethodPut, "/payment-methods/"+id.String(), body, func(r chi.Router) {
			r.Put("/payment-methods/{id}", handler.Update)
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, id, svc.lastID)
	})

	t.Run("maps absent methods to 404", func(t *testing.T) {
		t.Parallel()
		svc := &fakePaymentMethodService{err: store.ErrPaymentMethodNotFound}
		handler := NewPaymentMethodHandler(svc, testLogger())

		body, _ := json.Marshal(UpdatePaymentMethodRequest{})
		rec := serveAuthenticated(t, uuid.New(), http.MethodPut, "/payment-methods/"+uuid.NewString(), body, func(r chi.Router) {
			r.Put("/payment-methods/{id}", handler.Update)
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects malformed ids with 400", func(t *testing.T) {
		t.Parallel()
		handler := NewPaymentMethodHandler(&fakePaymentMethodService{}, testLogger())

		body, _ := json.Marshal(UpdatePaymentMethodRequest{})
		rec := serveAuthenticated(t, uuid.New(), http.MethodPut, "/payment-methods/not-a-uuid", body, func(r chi.Router) {
			r.Put("/payment-methods/{id}", handler.Update)
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPaymentMethodHandlerDelete(t *testing.T) {
	t.Parallel()

	t.Run("acknowledges the delete", func(t *testing.T) {
		t.Parallel()
		svc := &fakePaymentMethodService{}
		handler := NewPaymentMethodHandler(svc, testLogger())

		rec := serveAuthenticated(t, uuid.New(), http.MethodDelete, "/payment-methods/"+uuid.NewString(), nil, func(r chi.Router) {
			r.Delete("/payment-methods/{id}", handler.Delete)
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp DeleteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})
}

func TestPaymentMethodHandlerReorder(t *testing.T) {
	t.Parallel()

	t.Run("forwards the order and returns the fresh list", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		first := uuid.New()
		second := uuid.New()

		svc := &fakePaymentMethodService{methods: []*domain.PaymentMethod{}}
		handler := NewPaymentMethodHandler(svc, testLogger())

		body, _ := json.Marshal(ReorderPaymentMethodsRequest{Order: []ReorderItem{
			{ID: first, SortOrder: 1},
			{ID: second, SortOrder: 0},
		}})
		rec := serveAuthenticated(t, userID, http.MethodPatch, "/payment-methods/reorder", body, func(r chi.Router) {
			r.Patch("/payment-methods/reorder", handler.Reorder)
		})

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, svc.lastOrder, 2)
		assert.Equal(t, first, svc.lastOrder[0].ID)
		assert.Equal(t, 1, svc.lastOrder[0].SortOrder)
	})

	t.Run("rejects an empty order list", func(t *testing.T) {
		t.Parallel()
		handler := NewPaymentMethodHandler(&fakePaymentMethodService{}, testLogger())

		body, _ := json.Marshal(ReorderPaymentMethodsRequest{})
		rec := serveAuthenticated(t, uuid.New(), http.MethodPatch, "/payment-methods/reorder", body, func(r chi.Router) {
			r.Patch("/payment-methods/reorder", handler.Reorder)
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps foreign ids to 403 naming the id", func(t *testing.T) {
		t.Parallel()
		foreign := uuid.New()
		svc := &fakePaymentMethodService{err: &domain.PaymentMethodMembershipError{ID: foreign}}
		handler := NewPaymentMethodHandler(svc, testLogger())

		body, _ := json.Marshal(ReorderPaymentMethodsRequest{Order: []ReorderItem{
			{ID: foreign, SortOrder: 0},
		}})
		rec := serveAuthenticated(t, uuid.New(), http.MethodPatch, "/payment-methods/reorder", body, func(r chi.Router) {
			r.Patch("/payment-methods/reorder", handler.Reorder)
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), foreign.String())
	})
}
