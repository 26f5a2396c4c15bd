package domain

import (
	"time"
)

// Role is the closed set of account roles. Authorization decisions always
// compare against these constants, never raw request strings.
type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a wire string onto a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleMember, RoleTrainer, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// CanRegister reports whether the role may be chosen at signup.
// Admin accounts are provisioned out of band.
func (r Role) CanRegister() bool {
	return r == RoleMember || r == RoleTrainer
}

// Account represents a person on the marketplace, member or trainer.
// Email is stored lowercased and is unique among non-deleted rows.
type Account struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"` // never serialized
	Name              string    `json:"name"`
	Role              Role      `json:"role"`
	IsActive          bool      `json:"is_active"`
	IsApproved        bool      `json:"is_approved"`
	IsDeleted         bool      `json:"-"`
	PasswordChangedAt time.Time `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Identity is the authenticated caller attached to a request after the
// access gate resolves its token. It never carries the password hash.
type Identity struct {
	AccountID string
	Role      Role
	Approved  bool
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// TrainerProfile is the public listing owned by a trainer account.
// It exists so callers can edit and publish their marketplace page;
// publishing is gated on the owning account being approved.
type TrainerProfile struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Headline    string    `json:"headline"`
	Bio         string    `json:"bio"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
