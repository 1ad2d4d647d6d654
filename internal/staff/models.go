// Package staff manages the admin and security accounts that operate the
// system, and the access tokens they log in with.
package staff

import "time"

const (
	RoleAdmin    = "admin"
	RoleSecurity = "security"
)

// Staff is an operator account. Security staff carry an allowlist of event
// IDs they may work; admins see everything.
type Staff struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	AllowedEvents []int64   `json:"allowed_events"`
	CreatedAt     time.Time `json:"created_at"`

	PasswordHash string `json:"-"`
}

// RegisterInput carries the fields for creating a staff account.
type RegisterInput struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	Role          string  `json:"role"`
	AllowedEvents []int64 `json:"allowed_events"`
}

// LoginInput carries credentials for a login attempt.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned to a successfully authenticated staffer.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *Staff `json:"user"`
}
