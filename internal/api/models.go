// Package api implements the HTTP handlers and request/response models.
package api

import (
	"github.com/google/uuid"
)

// Auth payloads

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name"     validate:"omitempty,max=50"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// ForgotPasswordRequest defines the payload for the forgot-password
// endpoint. The email is deliberately not format-validated: malformed
// addresses get the same generic response as unknown ones, so validation
// failures cannot be used to probe the account base.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetPasswordRequest defines the payload for the reset-password endpoint.
type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// MessageResponse wraps endpoints that return only a status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Profile payloads

// UpsertProfileRequest defines the payload for creating or replacing the
// caller's profile. The username tag enforces lowercase alphanumerics plus
// interior hyphens.
type UpsertProfileRequest struct {
	Username    string `json:"username"     validate:"required,min=3,max=30,username"`
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
	Avatar      string `json:"avatar"       validate:"omitempty,max=500"`
	Bio         string `json:"bio"          validate:"omitempty,max=200"`
}

// Payment method payloads

// CreatePaymentMethodRequest defines the payload for adding a payment
// method. SortOrder is optional; omitted means append-to-end.
type CreatePaymentMethodRequest struct {
	Type      string `json:"type"       validate:"required,max=30"`
	Label     string `json:"label"      validate:"omitempty,max=50"`
	Handle    string `json:"handle"     validate:"required,max=200"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

// UpdatePaymentMethodRequest defines a partial update; absent fields keep
// their current values.
type UpdatePaymentMethodRequest struct {
	Type      *string `json:"type"       validate:"omitempty,min=1,max=30"`
	Label     *string `json:"label"      validate:"omitempty,max=50"`
	Handle    *string `json:"handle"     validate:"omitempty,min=1,max=200"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
	Active    *bool   `json:"active"`
}

// ReorderItem assigns a new sort order to one payment method.
type ReorderItem struct {
	ID        uuid.UUID `json:"id"         validate:"required"`
	SortOrder int       `json:"sort_order" validate:"gte=0"`
}

// ReorderPaymentMethodsRequest defines the payload for the reorder endpoint.
type ReorderPaymentMethodsRequest struct {
	Order []ReorderItem `json:"order" validate:"required,min=1,dive"`
}

// DeleteResponse acknowledges a successful delete.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// HealthResponse reports service and database health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
