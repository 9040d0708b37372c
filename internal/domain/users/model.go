// Package users manages back-office accounts: cached CRUD, password
// lifecycle and the login security lock.
package users

import (
	"context"
	"strings"
	"time"

	"claimsdesk/internal/core/apperror"
)

// Roles assignable to an account.
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// User is a back-office account. LastLoginAttempt and TimeLastAttempt
// carry the security-lock state; the lock itself is derived, never stored.
type User struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	Role             string    `db:"role" json:"role"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	LastLoginAttempt int       `db:"last_login_attempt" json:"-"`
	TimeLastAttempt  time.Time `db:"time_last_attempt" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

func (u User) Validate(ctx context.Context) error {
	if strings.TrimSpace(u.Name) == "" {
		return apperror.NewValidation("user name is required").WithDetail("field", "name")
	}
	if strings.TrimSpace(u.Email) == "" {
		return apperror.NewValidation("user email is required").WithDetail("field", "email")
	}
	switch u.Role {
	case RoleAdmin, RoleAgent:
	default:
		return apperror.NewValidation("unknown role").WithDetail("role", u.Role)
	}
	return nil
}

// PasswordRecord is one historical password hash. Temporary-password
// generation must not reuse any password present here.
type PasswordRecord struct {
	ID        int64     `db:"id" json:"-"`
	UserID    int64     `db:"user_id" json:"-"`
	Hash      string    `db:"hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// LoginResult is the outcome of one authentication attempt for a known
// user. An unknown email yields no result at all.
type LoginResult struct {
	User    User
	Success bool
	Locked  bool
}
