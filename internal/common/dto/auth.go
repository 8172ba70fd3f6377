// Package dto defines the request and response payloads of the HTTP API.
package dto

// LoginRequest is the credential payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// ChangePasswordRequest is the payload of POST /auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
