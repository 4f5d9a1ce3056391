package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated application user.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds the public-facing profile row keyed by the auth identifier.
// One profile row is expected to exist per user.
type Profile struct {
	UserID    uuid.UUID
	Name      string
	AvatarURL *string
	Bio       *string
	UpdatedAt time.Time
}

// ProfileUpdate describes a partial profile update. Nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string
	AvatarURL *string
	Bio       *string
}

// RefreshToken represents a hashed refresh token stored in the database.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked returns true if the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired returns true if the token has expired relative to now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
