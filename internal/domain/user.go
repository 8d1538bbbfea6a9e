package domain

import "time"

// User is the domain model for marketplace accounts.
type User struct {
	ID               string
	Name             string
	Username         string
	Email            string
	PhoneNumber      string
	PasswordHash     string
	Roles            []Role
	Enabled          bool
	VerificationCode *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Identity is the authenticated caller as seen by downstream handlers:
// the token's subject plus the role snapshot taken when the token was issued.
type Identity struct {
	Subject string
	Roles   []Role
}
