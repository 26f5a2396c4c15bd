package domain

import "errors"

// Authentication and authorization failures surfaced to callers as distinct,
// user-safe kinds. Handlers map these onto HTTP statuses and stable codes;
// anything not in this list is treated as an internal error and collapsed to
// a generic 500.
var (
	// ErrUnauthenticated means the request carried no bearer token at all.
	ErrUnauthenticated = errors.New("no credentials provided")

	// ErrTokenInvalid covers malformed, tampered and wrongly signed tokens.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired is a structurally valid token past its expiry. Kept
	// separate from ErrTokenInvalid so clients can prompt re-login instead
	// of rejecting outright.
	ErrTokenExpired = errors.New("token expired")

	// ErrStaleToken is a valid, unexpired token issued before the account's
	// last password change.
	ErrStaleToken = errors.New("token predates password change")

	// ErrAccountNotFound means the token's subject no longer resolves to a
	// live account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountDeactivated means the account exists but is soft-disabled.
	ErrAccountDeactivated = errors.New("account deactivated")

	// ErrForbidden is a role or ownership mismatch.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is a missing resource or pending-trainer lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps connectivity and timeout failures from the
	// account store so they are distinguishable from lookup misses.
	ErrStoreUnavailable = errors.New("account store unavailable")

	// ErrEmailTaken is returned on registration when the email already
	// belongs to a non-deleted account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password on
	// login, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTrainerNotApproved gates trainer-only actions until an admin
	// approves the account.
	ErrTrainerNotApproved = errors.New("trainer account pending approval")
)
