package service

import (
	"context"
	"errors"
	"testing"

	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/internal/dto"
)

func boolPtr(b bool) *bool { return &b }

func TestProfileService_Get(t *testing.T) {
	profiles := newMockProfileRepository()
	accounts := newMockAccountRepository()
	svc := NewProfileService(profiles, accounts)

	profiles.put(&domain.TrainerProfile{
		ID:          "prof-pub",
		AccountID:   "trainer-1",
		Headline:    "Strength coach",
		IsPublished: true,
	})
	profiles.put(&domain.TrainerProfile{
		ID:        "prof-draft",
		AccountID: "trainer-1",
		Headline:  "Draft page",
	})

	owner := &domain.Identity{AccountID: "trainer-1", Role: domain.RoleTrainer}
	admin := &domain.Identity{AccountID: "admin-1", Role: domain.RoleAdmin}
	other := &domain.Identity{AccountID: "member-1", Role: domain.RoleMember}

	t.Run("published is visible to anonymous", func(t *testing.T) {
		profile, err := svc.Get(context.Background(), "prof-pub", nil)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if profile.Headline != "Strength coach" {
			t.Errorf("Get() headline = %v", profile.Headline)
		}
	})

	t.Run("draft is hidden from anonymous", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "prof-draft", nil)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("draft is hidden from other users", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "prof-draft", other)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("draft is visible to owner", func(t *testing.T) {
		if _, err := svc.Get(context.Background(), "prof-draft", owner); err != nil {
			t.Errorf("Get() error = %v", err)
		}
	})

	t.Run("draft is visible to admin", func(t *testing.T) {
		if _, err := svc.Get(context.Background(), "prof-draft", admin); err != nil {
			t.Errorf("Get() error = %v", err)
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "nope", admin)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})
}

func TestProfileService_OwnerOf(t *testing.T) {
	profiles := newMockProfileRepository()
	accounts := newMockAccountRepository()
	svc := NewProfileService(profiles, accounts)

	profiles.put(&domain.TrainerProfile{ID: "prof-1", AccountID: "trainer-9"})

	ownerID, err := svc.OwnerOf(context.Background(), "prof-1")
	if err != nil {
		t.Fatalf("OwnerOf() error = %v", err)
	}
	if ownerID != "trainer-9" {
		t.Errorf("OwnerOf() = %v, want trainer-9", ownerID)
	}

	if _, err := svc.OwnerOf(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("OwnerOf() error = %v, want ErrNotFound", err)
	}
}

func TestProfileService_Update(t *testing.T) {
	profiles := newMockProfileRepository()
	accounts := newMockAccountRepository()
	svc := NewProfileService(profiles, accounts)

	profiles.put(&domain.TrainerProfile{
		ID:        "prof-1",
		AccountID: "trainer-1",
	})

	pending := domain.Identity{AccountID: "trainer-1", Role: domain.RoleTrainer, Approved: false}
	approved := domain.Identity{AccountID: "trainer-1", Role: domain.RoleTrainer, Approved: true}
	admin := domain.Identity{AccountID: "admin-1", Role: domain.RoleAdmin}

	t.Run("pending trainer can edit drafts", func(t *testing.T) {
		profile, err := svc.Update(context.Background(), "prof-1", pending, &dto.UpdateTrainerProfileRequest{
			Headline: "Kettlebell specialist",
			Bio:      "Ten years of coaching.",
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if profile.Headline != "Kettlebell specialist" {
			t.Errorf("Update() headline = %v", profile.Headline)
		}
		if profile.IsPublished {
			t.Error("Update() draft should stay unpublished")
		}
	})

	t.Run("pending trainer cannot publish", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "prof-1", pending, &dto.UpdateTrainerProfileRequest{
			IsPublished: boolPtr(true),
		})
		if !errors.Is(err, domain.ErrTrainerNotApproved) {
			t.Errorf("Update() error = %v, want ErrTrainerNotApproved", err)
		}
	})

	t.Run("approved trainer can publish", func(t *testing.T) {
		profile, err := svc.Update(context.Background(), "prof-1", approved, &dto.UpdateTrainerProfileRequest{
			IsPublished: boolPtr(true),
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if !profile.IsPublished {
			t.Error("Update() profile not published")
		}
	})

	t.Run("unpublish and admin republish", func(t *testing.T) {
		if _, err := svc.Update(context.Background(), "prof-1", approved, &dto.UpdateTrainerProfileRequest{
			IsPublished: boolPtr(false),
		}); err != nil {
			t.Fatalf("Update() unpublish error = %v", err)
		}

		profile, err := svc.Update(context.Background(), "prof-1", admin, &dto.UpdateTrainerProfileRequest{
			IsPublished: boolPtr(true),
		})
		if err != nil {
			t.Fatalf("Update() admin publish error = %v", err)
		}
		if !profile.IsPublished {
			t.Error("Update() admin publish did not stick")
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "missing", admin, &dto.UpdateTrainerProfileRequest{})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})
}

func TestProfileService_GetOwn(t *testing.T) {
	profiles := newMockProfileRepository()
	accounts := newMockAccountRepository()
	svc := NewProfileService(profiles, accounts)

	profiles.put(&domain.TrainerProfile{
		ID:        "prof-own",
		AccountID: "trainer-1",
		Headline:  "Unpublished draft",
	})

	t.Run("owner sees own draft", func(t *testing.T) {
		profile, err := svc.GetOwn(context.Background(), "trainer-1")
		if err != nil {
			t.Fatalf("GetOwn() error = %v", err)
		}
		if profile.ID != "prof-own" {
			t.Errorf("GetOwn() id = %v, want prof-own", profile.ID)
		}
	})

	t.Run("account without a profile gets not found", func(t *testing.T) {
		_, err := svc.GetOwn(context.Background(), "member-1")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetOwn() error = %v, want ErrNotFound", err)
		}
	})
}
