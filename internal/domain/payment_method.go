package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Payment method validation errors.
var (
	ErrEmptyPaymentType   = errors.New("payment method type cannot be empty")
	ErrEmptyPaymentHandle = errors.New("payment method handle cannot be empty")
	ErrNegativeSortOrder  = errors.New("sort order cannot be negative")
)

// PaymentMethod is one way a user can receive money (venmo, cashapp,
// zelle, paypal, crypto, ...). Many belong to a user. SortOrder is a
// caller-controlled display ordering hint: non-negative but neither
// contiguous nor unique.
type PaymentMethod struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Label     string    `json:"label,omitempty"`
	Handle    string    `json:"handle"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPaymentMethod creates an active payment method owned by the given user.
func NewPaymentMethod(userID uuid.UUID, methodType, label, handle string, sortOrder int) (*PaymentMethod, error) {
	now := time.Now().UTC()
	m := &PaymentMethod{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      methodType,
		Label:     label,
		Handle:    handle,
		SortOrder: sortOrder,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate checks if the PaymentMethod has valid data.
func (m *PaymentMethod) Validate() error {
	if m.ID == uuid.Nil {
		return ErrInvalidID
	}
	if m.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if m.Type == "" {
		return ErrEmptyPaymentType
	}
	if m.Handle == "" {
		return ErrEmptyPaymentHandle
	}
	if m.SortOrder < 0 {
		return ErrNegativeSortOrder
	}
	return nil
}

// OwnedBy reports whether the method belongs to the given user.
func (m *PaymentMethod) OwnedBy(userID uuid.UUID) bool {
	return m.UserID == userID
}

// PaymentMethodMembershipError identifies the first payment method id in a
// batch request that does not belong to the caller. It unwraps to
// ErrNotOwner so the ownership status mapping still applies, while the
// message names the offending id for the client.
type PaymentMethodMembershipError struct {
	ID uuid.UUID
}

// Error implements the error interface for PaymentMethodMembershipError.
func (e *PaymentMethodMembershipError) Error() string {
	return fmt.Sprintf("payment method %s not owned by caller", e.ID)
}

// Unwrap returns ErrNotOwner to support errors.Is.
func (e *PaymentMethodMembershipError) Unwrap() error {
	return ErrNotOwner
}
