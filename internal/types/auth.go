package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserAuth represents the core user entity in the domain.
type UserAuth struct {
	ID          string    `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Username    string    `json:"username,omitempty" example:"johndoe"`              // Optional unique username.
	DisplayName string    `json:"display_name,omitempty" example:"John Doe"`         // Optional display name.
	Email       string    `json:"email" example:"john.doe@example.com"`              // Unique email address used for login.
	Password    string    `json:"-"`                                                 // Hashed password (never exposed).
	AvatarURL   string    `json:"avatar_url,omitempty"`                              // Optional avatar URI.
	CreatedAt   time.Time `json:"created_at"`                                        // Timestamp when the user was created.
	UpdatedAt   time.Time `json:"updated_at"`                                        // Timestamp when the user was last updated.

	// RefreshTokens is the set of currently-valid refresh tokens issued to
	// this user. A well-formed, unexpired token that is absent from this set
	// is invalid for rotation and logout. Never serialized to clients.
	RefreshTokens []string `json:"-"`
}

// Claims is the fixed-shape JWT payload for both access and refresh tokens.
// Nonce makes two tokens issued in the same instant for the same subject
// distinct strings.
type Claims struct {
	UserID string `json:"user_id"`
	Nonce  int64  `json:"nonce"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileParams carries the mutable profile fields. Nil means "leave
// unchanged".
type UpdateProfileParams struct {
	Username    *string `json:"username,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}
