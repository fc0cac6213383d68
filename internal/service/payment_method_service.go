package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/allrails/api/internal/domain"
	"github.com/allrails/api/internal/store"
	"github.com/google/uuid"
)

// CreatePaymentMethodInput carries the fields for creating a payment method.
// A nil SortOrder means "append after the caller's existing methods".
type CreatePaymentMethodInput struct {
	Type      string
	Label     string
	Handle    string
	SortOrder *int
}

// UpdatePaymentMethodInput carries a partial update; nil fields keep their
// current values.
type UpdatePaymentMethodInput struct {
	Type      *string
	Label     *string
	Handle    *string
	SortOrder *int
	Active    *bool
}

// ReorderEntry assigns a new sort order to one of the caller's methods.
type ReorderEntry struct {
	ID        uuid.UUID
	SortOrder int
}

// PaymentMethodService manages a user's payment methods, enforcing
// ownership on every mutation and applying reorders atomically.
type PaymentMethodService interface {
	// GetAll returns the user's methods ordered by sort order ascending.
	GetAll(ctx context.Context, userID uuid.UUID) ([]*domain.PaymentMethod, error)

	// Create adds a method for the user, defaulting the sort order to the
	// current count of their methods when not given.
	Create(ctx context.Context, userID uuid.UUID, input CreatePaymentMethodInput) (*domain.PaymentMethod, error)

	// Update mutates one of the user's methods. Returns
	// store.ErrPaymentMethodNotFound if no such method exists and
	// domain.ErrNotOwner if it belongs to another user.
	Update(ctx context.Context, userID, id uuid.UUID, input UpdatePaymentMethodInput) (*domain.PaymentMethod, error)

	// Delete removes one of the user's methods, with the same error
	// contract as Update.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Reorder validates that every entry references one of the user's
	// methods, then applies all sort order updates in one transaction and
	// returns the freshly sorted list. No partial reorder is ever visible.
	Reorder(ctx context.Context, userID uuid.UUID, order []ReorderEntry) ([]*domain.PaymentMethod, error)
}

// PaymentMethodServiceImpl implements the PaymentMethodService interface.
type PaymentMethodServiceImpl struct {
	methods  store.PaymentMethodStore
	txRunner store.TxRunner
	logger   *slog.Logger
}

// NewPaymentMethodService creates a new PaymentMethodService.
func NewPaymentMethodService(
	methods store.PaymentMethodStore,
	txRunner store.TxRunner,
	logger *slog.Logger,
) *PaymentMethodServiceImpl {
	return &PaymentMethodServiceImpl{
		methods:  methods,
		txRunner: txRunner,
		logger:   logger.With("component", "payment_method_service"),
	}
}

// Ensure PaymentMethodServiceImpl implements PaymentMethodService.
var _ PaymentMethodService = (*PaymentMethodServiceImpl)(nil)

// GetAll implements PaymentMethodService.GetAll.
func (s *PaymentMethodServiceImpl) GetAll(ctx context.Context, userID uuid.UUID) ([]*domain.PaymentMethod, error) {
	methods, err := s.methods.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list payment methods", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// Create implements PaymentMethodService.Create.
func (s *PaymentMethodServiceImpl) Create(ctx context.Context, userID uuid.UUID, input CreatePaymentMethodInput) (*domain.PaymentMethod, error) {
	sortOrder := 0
	if input.SortOrder != nil {
		sortOrder = *input.SortOrder
	} else {
		// Append semantics. Count-then-insert races with concurrent
		// creates by the same user, but sort_order is not unique so a tie
		// only affects display order.
		count, err := s.methods.CountByUser(ctx, userID)
		if err != nil {
			s.logger.Error("failed to count payment methods", "error", err, "user_id", userID)
			return nil, fmt.Errorf("failed to count payment methods: %w", err)
		}
		sortOrder = count
	}

	method, err := domain.NewPaymentMethod(userID, input.Type, input.Label, input.Handle, sortOrder)
	if err != nil {
		return nil, err
	}

	if err := s.methods.Create(ctx, method); err != nil {
		s.logger.Error("failed to create payment method", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}

	s.logger.Debug("payment method created",
		"user_id", userID,
		"payment_method_id", method.ID,
		"sort_order", method.SortOrder)

	return method, nil
}

// Update implements PaymentMethodService.Update.
func (s *PaymentMethodServiceImpl) Update(ctx context.Context, userID, id uuid.UUID, input UpdatePaymentMethodInput) (*domain.PaymentMethod, error) {
	method, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		method.Type = *input.Type
	}
	if input.Label != nil {
		method.Label = *input.Label
	}
	if input.Handle != nil {
		method.Handle = *input.Handle
	}
	if input.SortOrder != nil {
		method.SortOrder = *input.SortOrder
	}
	if input.Active != nil {
		method.Active = *input.Active
	}

	if err := s.methods.Update(ctx, method); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, domain.ErrValidation) ||
			errors.Is(err, domain.ErrNegativeSortOrder) ||
			errors.Is(err, domain.ErrEmptyPaymentType) ||
			errors.Is(err, domain.ErrEmptyPaymentHandle) {
			return nil, err
		}
		s.logger.Error("failed to update payment method", "error", err, "payment_method_id", id)
		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}

	return method, nil
}

// Delete implements PaymentMethodService.Delete.
func (s *PaymentMethodServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	method, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.methods.Delete(ctx, method.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete payment method", "error", err, "payment_method_id", id)
		return fmt.Errorf("failed to delete payment method: %w", err)
	}

	return nil
}

// Reorder implements PaymentMethodService.Reorder.
func (s *PaymentMethodServiceImpl) Reorder(ctx context.Context, userID uuid.UUID, order []ReorderEntry) ([]*domain.PaymentMethod, error) {
	owned, err := s.methods.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list payment methods for reorder", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}

	ownedIDs := make(map[uuid.UUID]struct{}, len(owned))
	for _, method := range owned {
		ownedIDs[method.ID] = struct{}{}
	}

	// Full membership validation before any write: a single foreign or
	// unknown id rejects the whole request.
	for _, entry := range order {
		if _, ok := ownedIDs[entry.ID]; !ok {
			s.logger.Debug("reorder rejected for unrecognized payment method",
				"user_id", userID,
				"payment_method_id", entry.ID)
			return nil, &domain.PaymentMethodMembershipError{ID: entry.ID}
		}
		if entry.SortOrder < 0 {
			return nil, domain.ErrNegativeSortOrder
		}
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txMethods := s.methods.WithTx(tx)
		for _, entry := range order {
			if err := txMethods.UpdateSortOrder(ctx, entry.ID, entry.SortOrder); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to apply reorder", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to apply reorder: %w", err)
	}

	return s.GetAll(ctx, userID)
}

// findOwned resolves a payment method and verifies ownership: absent rows
// yield store.ErrPaymentMethodNotFound, rows owned by someone else yield
// domain.ErrNotOwner. The error mapping layer translates the two cases to
// distinct client-facing statuses.
func (s *PaymentMethodServiceImpl) findOwned(ctx context.Context, userID, id uuid.UUID) (*domain.PaymentMethod, error) {
	method, err := s.methods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrPaymentMethodNotFound) {
			return nil, err
		}
		s.logger.Error("failed to look up payment method", "error", err, "payment_method_id", id)
		return nil, fmt.Errorf("failed to look up payment method: %w", err)
	}

	if !method.OwnedBy(userID) {
		s.logger.Debug("ownership check failed",
			"user_id", userID,
			"owner_id", method.UserID,
			"payment_method_id", id)
		return nil, domain.ErrNotOwner
	}

	return method, nil
}
