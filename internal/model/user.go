package model

import "time"

const (
	RoleUser      = "user"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

// User represents a registered account in the system
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is used for creating a new account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=255"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
	Phone    string `json:"phone" binding:"required,min=10,max=15"`
	Role     string `json:"role" binding:"omitempty,oneof=user volunteer admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest carries the replacement password; the reset code itself
// arrives as a query parameter on the verify endpoint
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// UpdateProfileRequest allows partial updates, pointers distinguish "absent" from "empty"
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty" binding:"omitempty,email,max=100"`
	FullName *string `json:"full_name,omitempty" binding:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,min=10,max=15"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required,min=6,max=255"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=255"`
}
