package dto

import (
	"time"

	"claimsdesk/internal/domain/users"
)

// LoginRequest for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents an issued access token.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}

// LoginResponse includes the token and user info.
type LoginResponse struct {
	Token TokenResponse `json:"token"`
	User  users.User    `json:"user"`
}
