package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/allrails/api/internal/domain"
	"github.com/allrails/api/internal/platform/logger"
	"github.com/allrails/api/internal/store"
	"github.com/google/uuid"
)

// PaymentMethodStore implements store.PaymentMethodStore using PostgreSQL.
type PaymentMethodStore struct {
	db store.DBTX
}

// NewPaymentMethodStore creates a PostgreSQL implementation of
// store.PaymentMethodStore.
func NewPaymentMethodStore(db store.DBTX) *PaymentMethodStore {
	return &PaymentMethodStore{db: db}
}

// Ensure PaymentMethodStore implements the interface.
var _ store.PaymentMethodStore = (*PaymentMethodStore)(nil)

// WithTx returns a PaymentMethodStore bound to the given transaction.
func (s *PaymentMethodStore) WithTx(tx *sql.Tx) store.PaymentMethodStore {
	return &PaymentMethodStore{db: tx}
}

const paymentMethodColumns = `id, user_id, type, label, handle, sort_order, active, created_at, updated_at`

// Create implements store.PaymentMethodStore.Create.
func (s *PaymentMethodStore) Create(ctx context.Context, method *domain.PaymentMethod) error {
	log := logger.FromContext(ctx)

	if err := method.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO payment_methods (id, user_id, type, label, handle, sort_order, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		method.ID,
		method.UserID,
		method.Type,
		nullableString(method.Label),
		method.Handle,
		method.SortOrder,
		method.Active,
		method.CreatedAt,
		method.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		log.Error("failed to create payment method",
			"error", err,
			"user_id", method.UserID)
		return fmt.Errorf("failed to create payment method: %w", err)
	}

	return nil
}

// GetByID implements store.PaymentMethodStore.GetByID.
func (s *PaymentMethodStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error) {
	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE id = $1
	`

	row := s.db.QueryRowContext(ctx, query, id)
	method, err := scanPaymentMethod(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("failed to scan payment method row: %w", err)
	}

	return method, nil
}

// ListByUser implements store.PaymentMethodStore.ListByUser.
func (s *PaymentMethodStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PaymentMethod, error) {
	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY sort_order ASC, created_at ASC
	`
	return s.listMethods(ctx, query, userID)
}

// ListActiveByUser implements store.PaymentMethodStore.ListActiveByUser.
func (s *PaymentMethodStore) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PaymentMethod, error) {
	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE user_id = $1 AND active = true
		ORDER BY sort_order ASC, created_at ASC
	`
	return s.listMethods(ctx, query, userID)
}

// CountByUser implements store.PaymentMethodStore.CountByUser.
func (s *PaymentMethodStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM payment_methods WHERE user_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payment methods: %w", err)
	}

	return count, nil
}

// Update implements store.PaymentMethodStore.Update.
func (s *PaymentMethodStore) Update(ctx context.Context, method *domain.PaymentMethod) error {
	log := logger.FromContext(ctx)

	if err := method.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE payment_methods
		SET type = $1, label = $2, handle = $3, sort_order = $4, active = $5, updated_at = now()
		WHERE id = $6
	`

	result, err := s.db.ExecContext(ctx, query,
		method.Type,
		nullableString(method.Label),
		method.Handle,
		method.SortOrder,
		method.Active,
		method.ID,
	)
	if err != nil {
		log.Error("failed to update payment method",
			"error", err,
			"payment_method_id", method.ID)
		return fmt.Errorf("failed to update payment method: %w", err)
	}

	return requireRowAffected(result, store.ErrPaymentMethodNotFound)
}

// UpdateSortOrder implements store.PaymentMethodStore.UpdateSortOrder.
func (s *PaymentMethodStore) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	query := `
		UPDATE payment_methods
		SET sort_order = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, sortOrder, id)
	if err != nil {
		return fmt.Errorf("failed to update payment method sort order: %w", err)
	}

	return requireRowAffected(result, store.ErrPaymentMethodNotFound)
}

// Delete implements store.PaymentMethodStore.Delete.
func (s *PaymentMethodStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM payment_methods WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}

	return requireRowAffected(result, store.ErrPaymentMethodNotFound)
}

func (s *PaymentMethodStore) listMethods(ctx context.Context, query string, userID uuid.UUID) ([]*domain.PaymentMethod, error) {
	log := logger.FromContext(ctx)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query payment methods",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to query payment methods: %w", err)
	}
	defer rows.Close()

	var methods []*domain.PaymentMethod
	for rows.Next() {
		method, err := scanPaymentMethod(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment method row: %w", err)
		}
		methods = append(methods, method)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment method rows: %w", err)
	}

	return methods, nil
}

// scanPaymentMethod reads one payment method from a row or rows scanner.
func scanPaymentMethod(scan func(dest ...any) error) (*domain.PaymentMethod, error) {
	var method domain.PaymentMethod
	var label sql.NullString

	err := scan(
		&method.ID,
		&method.UserID,
		&method.Type,
		&label,
		&method.Handle,
		&method.SortOrder,
		&method.Active,
		&method.CreatedAt,
		&method.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	method.Label = label.String
	return &method, nil
}

// requireRowAffected converts a zero-row update or delete into notFoundErr.
func requireRowAffected(result sql.Result, notFoundErr error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundErr
	}
	return nil
}
