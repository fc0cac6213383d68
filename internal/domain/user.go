package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User roles. New registrations always start as RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Common user validation errors.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Password length bounds. The upper bound is bcrypt's practical limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User represents a registered user of the AllRails application.
// HashedPassword is never serialized; the plaintext Password field is
// only populated transiently during registration and password resets.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
	Name           string    `json:"name,omitempty"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email, plaintext password and
// optional display name. It generates a new UUID, normalizes the email to
// lowercase and sets the creation/update timestamps.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password, name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
		Name:      strings.TrimSpace(name),
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Users loaded from the database carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// validEmailFormat performs basic structural validation of an email
// address: a non-empty local part, an @, and a dotted domain.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
