package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch means the plaintext does not verify against the hash.
// Any other error out of Verify is an internal failure (corrupt hash, bad
// cost) and must not be reported to the caller as a wrong password.
var ErrPasswordMismatch = errors.New("password mismatch")

// DefaultCost matches the cost used across the platform.
const DefaultCost = 12

// PasswordHasher wraps bcrypt with a fixed cost. Plaintext passwords pass
// through Hash and Verify only; they are never stored on an Account or
// written to logs.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given cost. Costs outside
// bcrypt's valid range fall back to DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a salted one-way hash of plaintext. Two calls with the same
// input produce different hashes; both verify.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks plaintext against a stored hash. A wrong password returns
// ErrPasswordMismatch; anything else is an internal error.
func (h *PasswordHasher) Verify(plaintext, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return fmt.Errorf("verify password: %w", err)
}
