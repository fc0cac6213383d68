package store

import (
	"context"
	"database/sql"

	"github.com/allrails/api/internal/domain"
	"github.com/google/uuid"
)

// PaymentMethodStore defines the interface for payment method persistence.
type PaymentMethodStore interface {
	// Create persists a new payment method.
	Create(ctx context.Context, method *domain.PaymentMethod) error

	// GetByID retrieves a payment method by its unique ID regardless of
	// owner; ownership checks belong to the service layer.
	// Returns ErrPaymentMethodNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error)

	// ListByUser returns all of a user's methods ordered by sort_order
	// ascending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PaymentMethod, error)

	// ListActiveByUser returns the user's active methods ordered by
	// sort_order ascending, for public page assembly.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PaymentMethod, error)

	// CountByUser returns how many methods the user currently has.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// Update persists changes to an existing method.
	// Returns ErrPaymentMethodNotFound if it does not exist.
	Update(ctx context.Context, method *domain.PaymentMethod) error

	// UpdateSortOrder sets just the sort_order of a single method.
	// Returns ErrPaymentMethodNotFound if it does not exist.
	UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error

	// Delete removes a method permanently.
	// Returns ErrPaymentMethodNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a PaymentMethodStore bound to the provided transaction.
	WithTx(tx *sql.Tx) PaymentMethodStore
}
