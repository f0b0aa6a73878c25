// Package domain defines the core entities of the Pantry recipe manager.
package domain

import (
	"strings"
	"time"
)

// User represents an authenticated user account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLoginAt  time.Time `json:"last_login_at,omitzero"`
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// NormalizeEmail lowercases the domain part of an email address.
// The local part is kept as entered so providers that treat it as
// case sensitive still work.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// IsAdmin returns true if the user has administrative privileges.
// Superusers are automatically staff, regardless of their staff flag.
func (u *User) IsAdmin() bool {
	return u.IsSuperuser || u.IsStaff
}

// DisplayName returns the best available name to display for the user.
// Prefers Name, falls back to the email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
