package dto

import (
	"time"

	"github.com/spec-kit/job-marketplace/internal/domain"
)

// SignupRequest payload for registration.
type SignupRequest struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role,omitempty"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest payload for refresh-token rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse is the login payload: tokens plus the caller's profile.
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	Profile      *UserProfile `json:"profile,omitempty"`
}

// UserProfile is the public view of an account. Role is the single
// highest-privilege role, used for display only.
type UserProfile struct {
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Enabled     bool      `json:"enabled"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewUserProfile maps a domain user to its profile view.
func NewUserProfile(user *domain.User) *UserProfile {
	return &UserProfile{
		Name:        user.Name,
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Enabled:     user.Enabled,
		Role:        domain.PrimaryRole(user.Roles).String(),
		CreatedAt:   user.CreatedAt,
	}
}
