package domain

import (
	"time"

	"github.com/google/uuid"
)

// Username length bounds, matching the public page URL contract.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// Profile is the public-facing identity of a user: the claimed username
// plus display fields. Exactly one profile exists per user. Usernames are
// stored lowercase and are globally unique case-insensitively.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProfile creates a profile for the given user.
func NewProfile(userID uuid.UUID, username, displayName, avatar, bio string) (*Profile, error) {
	now := time.Now().UTC()
	p := &Profile{
		UserID:      userID,
		Username:    username,
		DisplayName: displayName,
		Avatar:      avatar,
		Bio:         bio,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Profile has valid data.
func (p *Profile) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if !ValidUsername(p.Username) {
		return ErrInvalidUsername
	}
	return nil
}

// ValidUsername reports whether s is a valid public username: 3-30
// characters, lowercase alphanumeric with hyphens, and no leading or
// trailing hyphen.
func ValidUsername(s string) bool {
	if len(s) < MinUsernameLength || len(s) > MaxUsernameLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
			if i == 0 || i == len(s)-1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
