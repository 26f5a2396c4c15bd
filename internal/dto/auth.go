package dto

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/coachly/backend-auth/internal/domain"
)

// RegisterRequest represents a signup request. Role is chosen at signup but
// limited to member or trainer; admins are provisioned out of band.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,min=2"`
	Role     string `json:"role" binding:"required"`
}

// NormalizedEmail returns the email lowercased and trimmed, the canonical
// form stored and matched everywhere.
func (r *RegisterRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

// ValidateRole checks that the requested role is registrable.
func (r *RegisterRequest) ValidateRole() (domain.Role, bool) {
	role, ok := domain.ParseRole(r.Role)
	if !ok || !role.CanRegister() {
		return "", false
	}
	return role, true
}

// ValidatePassword validates password strength requirements:
// at least 8 characters with upper, lower, digit and special.
func (r *RegisterRequest) ValidatePassword() (bool, string) {
	return validatePasswordStrength(r.Password)
}

// ValidateEmail validates email format more strictly than the binding tag.
func (r *RegisterRequest) ValidateEmail() (bool, string) {
	if !emailRegex.MatchString(r.NormalizedEmail()) {
		return false, "Invalid email format"
	}
	return true, ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validatePasswordStrength(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 72 {
		return false, "Password must not exceed 72 characters"
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "Password must contain at least one lowercase letter"
	}
	if !hasDigit {
		return false, "Password must contain at least one digit"
	}
	if !hasSpecial {
		return false, "Password must contain at least one special character"
	}
	return true, ""
}

// LoginRequest represents a login request. RememberMe selects the
// long-lived token expiry.
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// NormalizedEmail returns the canonical lowercase form.
func (r *LoginRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

// ChangePasswordRequest represents a password change for the authenticated
// account.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// ValidateNewPassword applies the same strength policy as registration.
func (r *ChangePasswordRequest) ValidateNewPassword() (bool, string) {
	return validatePasswordStrength(r.NewPassword)
}

// UpdateAccountRequest represents a profile update for the authenticated
// account.
type UpdateAccountRequest struct {
	Name string `json:"name" binding:"required,min=2"`
}

// AuthResponse represents a successful registration or login.
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresIn int64           `json:"expires_in"`
	Account   AccountResponse `json:"account"`
}

// AccountResponse is the public view of an account. It never carries the
// password hash.
type AccountResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
	IsApproved bool   `json:"is_approved"`
	CreatedAt  string `json:"created_at"`
}

// NewAccountResponse converts an account to its public view.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:         account.ID,
		Email:      account.Email,
		Name:       account.Name,
		Role:       string(account.Role),
		IsActive:   account.IsActive,
		IsApproved: account.IsApproved,
		CreatedAt:  account.CreatedAt.Format(time.RFC3339),
	}
}
