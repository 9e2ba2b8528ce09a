package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// User represents an account that can sign in.
type User struct {
	ID           int64      `json:"id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// MaxNameLength and MaxEmailLength bound the full name and email, in characters.
const (
	MaxNameLength  = 120
	MaxEmailLength = 120
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail performs a minimal shape check on an already normalized address.
func ValidateEmail(email string) error {
	if email == "" || utf8.RuneCountInString(email) > MaxEmailLength {
		return fmt.Errorf("email must be between 1 and %d characters", MaxEmailLength)
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("email must contain a local part and a domain")
	}
	return nil
}

// Actor is a snapshot of the user performing an operation.
type Actor struct {
	UserID int64
	Email  string
	Name   string
	Role   string
	Active bool
}

// Actor returns the actor snapshot for u. A soft-deleted user is never active.
func (u *User) Actor() *Actor {
	return &Actor{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.FullName,
		Role:   u.Role,
		Active: u.Active && u.DeletedAt == nil,
	}
}
