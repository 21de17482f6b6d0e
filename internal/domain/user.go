package domain

import "errors"

// User is the authenticated caller extracted from a token.
type User struct {
	ID    string
	Email string
	Role  Role
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin may manage payable accounts.
	RoleAdmin Role = "admin"

	// RoleUser is any other authenticated caller.
	RoleUser Role = "user"
)

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// CanManageAccounts checks if the role can manage accounts
func (r Role) CanManageAccounts() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
