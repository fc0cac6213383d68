package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/allrails/api/internal/api/shared"
	"github.com/allrails/api/internal/domain"
	"github.com/allrails/api/internal/service/auth"
	"github.com/allrails/api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes. This keeps the error taxonomy in one place and prevents leaking
// internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// Ownership violations
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflicts on unique fields
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Reset token lifecycle failures are client errors, not auth failures
	case errors.Is(err, auth.ErrInvalidResetToken),
		errors.Is(err, auth.ErrResetTokenUsed),
		errors.Is(err, auth.ErrResetTokenExpired):
		return http.StatusBadRequest

	// Domain validation failures
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrEmptyPaymentType),
		errors.Is(err, domain.ErrEmptyPaymentHandle),
		errors.Is(err, domain.ErrNegativeSortOrder):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// Reorder rejections name the offending id so the client can surface
	// which entry failed; plain ownership failures stay generic.
	var membership *domain.PaymentMethodMembershipError
	if errors.As(err, &membership) {
		return fmt.Sprintf("Payment method %s not found", membership.ID)
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidResetToken):
		return "Invalid or expired reset token"

	case errors.Is(err, auth.ErrResetTokenUsed):
		return "Reset token already used"

	case errors.Is(err, auth.ErrResetTokenExpired):
		return "Reset token expired"

	case errors.Is(err, domain.ErrNotOwner):
		return "You do not own this payment method"

	case errors.Is(err, store.ErrPaymentMethodNotFound):
		return "Payment method not found"

	case errors.Is(err, store.ErrProfileNotFound):
		return "Profile not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already taken"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrEmptyPaymentType),
		errors.Is(err, domain.ErrEmptyPaymentHandle),
		errors.Is(err, domain.ErrNegativeSortOrder):
		// Domain validation sentinels carry no internal details.
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// HandleServiceError writes the response for an error returned by a
// service, using the central status and message mapping.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}

// SanitizeValidationError converts a go-playground validation error into a
// short, user-friendly message without echoing request contents.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// validationTagMessage maps validation tags to user-friendly error messages.
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "must not be negative"
	case "username":
		return "must be lowercase alphanumeric with hyphens only (no leading/trailing hyphens)"
	default:
		return "validation failed"
	}
}
