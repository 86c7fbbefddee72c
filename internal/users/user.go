package users

import (
	"errors"
	"time"

	"classtrack/internal/auth"
)

var (
	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and password mismatch,
	// so a caller cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound is returned when a user id does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrLastAdmin guards the invariant that at least one admin always exists.
	ErrLastAdmin = errors.New("cannot delete the last admin user")
)

// User is an account in the credential store. PasswordHash never leaves the
// package boundary in API responses.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Patch names the only fields an admin update may change. Nil means
// leave unchanged.
type Patch struct {
	Name  *string
	Email *string
	Role  *auth.Role
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Role == nil
}
