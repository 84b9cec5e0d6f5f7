// Package types holds the request and response shapes shared between the
// HTTP API and its clients.
package types

import (
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest is the signup request.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest changes the authenticated user's password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// User is the API view of an account. The password hash never appears
// here.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	TokenBalance int       `json:"token_balance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthResponse carries the account and its session token after signup or
// login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
