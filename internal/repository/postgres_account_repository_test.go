package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coachly/backend-auth/internal/domain"
)

// The id columns are UUID, so a malformed path id must read as a lookup
// miss before it reaches the driver, never as a store failure. These run
// without a pool: a malformed id short-circuits before any query.
func TestAccountRepository_MalformedIDReadsAsMiss(t *testing.T) {
	repo := NewPostgresAccountRepository(nil)
	ctx := context.Background()

	t.Run("GetByID", func(t *testing.T) {
		account, err := repo.GetByID(ctx, "not-a-uuid")
		if err != nil {
			t.Fatalf("GetByID() error = %v, want nil", err)
		}
		if account != nil {
			t.Errorf("GetByID() = %+v, want nil", account)
		}
	})

	t.Run("GetByIDWithSecret", func(t *testing.T) {
		account, err := repo.GetByIDWithSecret(ctx, "not-a-uuid")
		if err != nil {
			t.Fatalf("GetByIDWithSecret() error = %v, want nil", err)
		}
		if account != nil {
			t.Errorf("GetByIDWithSecret() = %+v, want nil", account)
		}
	})

	t.Run("Approve", func(t *testing.T) {
		account, err := repo.Approve(ctx, "not-a-uuid")
		if err != nil {
			t.Fatalf("Approve() error = %v, want nil", err)
		}
		if account != nil {
			t.Errorf("Approve() = %+v, want nil", account)
		}
	})

	t.Run("UpdateName", func(t *testing.T) {
		account, err := repo.UpdateName(ctx, "not-a-uuid", "New Name")
		if err != nil {
			t.Fatalf("UpdateName() error = %v, want nil", err)
		}
		if account != nil {
			t.Errorf("UpdateName() = %+v, want nil", account)
		}
	})

	t.Run("SetPassword", func(t *testing.T) {
		err := repo.SetPassword(ctx, "not-a-uuid", "hash", time.Now())
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("SetPassword() error = %v, want ErrAccountNotFound", err)
		}
	})

	t.Run("Deactivate", func(t *testing.T) {
		err := repo.Deactivate(ctx, "not-a-uuid")
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("Deactivate() error = %v, want ErrAccountNotFound", err)
		}
	})
}

func TestProfileRepository_MalformedIDReadsAsMiss(t *testing.T) {
	repo := NewPostgresProfileRepository(nil)
	ctx := context.Background()

	t.Run("GetByID", func(t *testing.T) {
		profile, err := repo.GetByID(ctx, "not-a-uuid")
		if err != nil {
			t.Fatalf("GetByID() error = %v, want nil", err)
		}
		if profile != nil {
			t.Errorf("GetByID() = %+v, want nil", profile)
		}
	})

	t.Run("GetByAccountID", func(t *testing.T) {
		profile, err := repo.GetByAccountID(ctx, "not-a-uuid")
		if err != nil {
			t.Fatalf("GetByAccountID() error = %v, want nil", err)
		}
		if profile != nil {
			t.Errorf("GetByAccountID() = %+v, want nil", profile)
		}
	})
}
