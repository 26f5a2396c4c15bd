package repository

import (
	"context"
	"time"

	"github.com/coachly/backend-auth/internal/domain"
)

// AccountRepository is the persistence boundary for accounts. Lookups return
// (nil, nil) when no row matches; connectivity and timeout failures come back
// wrapped in domain.ErrStoreUnavailable. Deleted accounts are invisible to
// every method here.
//
// State transitions (approve, deactivate, password change) are single atomic
// statements so that concurrent admins cannot lose updates.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error

	// GetByID resolves an account without its password hash.
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIDWithSecret includes the password hash, for password changes.
	GetByIDWithSecret(ctx context.Context, id string) (*domain.Account, error)
	// GetByEmailWithSecret includes the password hash, for login.
	GetByEmailWithSecret(ctx context.Context, email string) (*domain.Account, error)

	// UpdateName rewrites the display name and returns the updated account.
	UpdateName(ctx context.Context, id, name string) (*domain.Account, error)

	// SetPassword atomically swaps the stored hash and records the change
	// time used for stale-token checks.
	SetPassword(ctx context.Context, id, hash string, changedAt time.Time) error

	// Deactivate soft-disables the account.
	Deactivate(ctx context.Context, id string) error

	// Approve flips is_approved for a trainer account. The match is scoped
	// to role=trainer; a hit that is already approved still counts, so the
	// operation is idempotent. Returns (nil, nil) when no trainer matches.
	Approve(ctx context.Context, id string) (*domain.Account, error)
	ApproveByEmail(ctx context.Context, email string) (*domain.Account, error)

	// ListPendingTrainers returns trainers awaiting approval.
	ListPendingTrainers(ctx context.Context) ([]*domain.Account, error)
}

// ProfileRepository persists trainer marketplace profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.TrainerProfile) error
	GetByID(ctx context.Context, id string) (*domain.TrainerProfile, error)
	GetByAccountID(ctx context.Context, accountID string) (*domain.TrainerProfile, error)
	Update(ctx context.Context, profile *domain.TrainerProfile) (*domain.TrainerProfile, error)
}
