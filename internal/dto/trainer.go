package dto

import (
	"time"

	"github.com/coachly/backend-auth/internal/domain"
)

// ApproveTrainerRequest approves a pending trainer by email.
type ApproveTrainerRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UpdateTrainerProfileRequest edits a trainer's marketplace profile.
// Publishing is only honored once the owning account is approved.
type UpdateTrainerProfileRequest struct {
	Headline    string `json:"headline" binding:"max=140"`
	Bio         string `json:"bio" binding:"max=4000"`
	IsPublished *bool  `json:"is_published"`
}

// TrainerProfileResponse is the public view of a trainer profile.
type TrainerProfileResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	Headline    string `json:"headline"`
	Bio         string `json:"bio"`
	IsPublished bool   `json:"is_published"`
	UpdatedAt   string `json:"updated_at"`
}

// NewTrainerProfileResponse converts a profile to its public view.
func NewTrainerProfileResponse(profile *domain.TrainerProfile) TrainerProfileResponse {
	return TrainerProfileResponse{
		ID:          profile.ID,
		AccountID:   profile.AccountID,
		Headline:    profile.Headline,
		Bio:         profile.Bio,
		IsPublished: profile.IsPublished,
		UpdatedAt:   profile.UpdatedAt.Format(time.RFC3339),
	}
}
