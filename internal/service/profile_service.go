package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/internal/dto"
	"github.com/coachly/backend-auth/internal/repository"
	"github.com/coachly/backend-auth/pkg/telemetry"
)

// ProfileService manages trainer marketplace profiles. Ownership is enforced
// by the access gate before Update is reached; this service enforces the
// approval gate on publishing and the visibility rule on reads.
type ProfileService interface {
	// Get returns a profile. Unpublished profiles are only visible to
	// their owner and to admins; everyone else gets domain.ErrNotFound.
	// viewer is nil for anonymous callers.
	Get(ctx context.Context, id string, viewer *domain.Identity) (*domain.TrainerProfile, error)
	// GetOwn returns the profile owned by the calling account, draft or
	// live. domain.ErrNotFound when the account has no profile.
	GetOwn(ctx context.Context, accountID string) (*domain.TrainerProfile, error)
	// OwnerOf resolves the owning account id for the access gate's
	// ownership check. domain.ErrNotFound when the profile is missing.
	OwnerOf(ctx context.Context, id string) (string, error)
	// Update edits the profile. Setting is_published=true requires the
	// owning trainer to be approved.
	Update(ctx context.Context, id string, identity domain.Identity, req *dto.UpdateTrainerProfileRequest) (*domain.TrainerProfile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	accounts repository.AccountRepository
}

// NewProfileService creates a ProfileService.
func NewProfileService(profiles repository.ProfileRepository, accounts repository.AccountRepository) ProfileService {
	return &profileService{profiles: profiles, accounts: accounts}
}

func (s *profileService) Get(ctx context.Context, id string, viewer *domain.Identity) (*domain.TrainerProfile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.profile.get")
	defer span.End()

	span.SetAttributes(attribute.String("profile_id", id))

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if profile == nil {
		span.SetStatus(codes.Error, "profile not found")
		return nil, domain.ErrNotFound
	}

	if !profile.IsPublished {
		// Hidden from everyone but the owner and admins; reported as
		// missing rather than forbidden to avoid leaking existence.
		if viewer == nil || (viewer.AccountID != profile.AccountID && !viewer.IsAdmin()) {
			span.SetStatus(codes.Error, "profile not visible")
			return nil, domain.ErrNotFound
		}
	}

	span.SetStatus(codes.Ok, "")
	return profile, nil
}

func (s *profileService) GetOwn(ctx context.Context, accountID string) (*domain.TrainerProfile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.profile.get_own")
	defer span.End()

	span.SetAttributes(attribute.String("account_id", accountID))

	profile, err := s.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if profile == nil {
		span.SetStatus(codes.Error, "profile not found")
		return nil, domain.ErrNotFound
	}

	span.SetStatus(codes.Ok, "")
	return profile, nil
}

func (s *profileService) OwnerOf(ctx context.Context, id string) (string, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", domain.ErrNotFound
	}
	return profile.AccountID, nil
}

func (s *profileService) Update(ctx context.Context, id string, identity domain.Identity, req *dto.UpdateTrainerProfileRequest) (*domain.TrainerProfile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.profile.update")
	defer span.End()

	span.SetAttributes(attribute.String("profile_id", id))

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if profile == nil {
		span.SetStatus(codes.Error, "profile not found")
		return nil, domain.ErrNotFound
	}

	if req.Headline != "" {
		profile.Headline = req.Headline
	}
	if req.Bio != "" {
		profile.Bio = req.Bio
	}
	if req.IsPublished != nil {
		// A pending trainer can edit drafts but not go live.
		if *req.IsPublished && !profile.IsPublished && !identity.Approved && !identity.IsAdmin() {
			span.SetStatus(codes.Error, "trainer not approved")
			return nil, domain.ErrTrainerNotApproved
		}
		profile.IsPublished = *req.IsPublished
	}

	updated, err := s.profiles.Update(ctx, profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if updated == nil {
		span.SetStatus(codes.Error, "profile not found")
		return nil, domain.ErrNotFound
	}

	span.SetStatus(codes.Ok, "")
	return updated, nil
}
