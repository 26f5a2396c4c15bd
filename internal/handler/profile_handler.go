package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/internal/dto"
	"github.com/coachly/backend-auth/internal/middleware"
	"github.com/coachly/backend-auth/internal/service"
	"github.com/coachly/backend-auth/pkg/response"
)

// ProfileHandler handles trainer marketplace profile requests.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile returns a trainer profile. Unpublished profiles are visible
// only to their owner and admins, so the route runs behind OptionalAuth.
// GET /api/v1/trainers/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	var viewer *domain.Identity
	if identity, ok := middleware.GetIdentity(c); ok {
		viewer = &identity
	}

	profile, err := h.profileService.Get(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, dto.NewTrainerProfileResponse(profile))
}

// MyProfile returns the calling trainer's own profile, draft or live.
// GET /api/v1/trainers/me
func (h *ProfileHandler) MyProfile(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
		return
	}

	profile, err := h.profileService.GetOwn(c.Request.Context(), identity.AccountID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, dto.NewTrainerProfileResponse(profile))
}

// PublishProfile flips a trainer profile live. The approval gate in front
// of this route rejects pending trainers before it runs.
// POST /api/v1/trainers/:id/publish
func (h *ProfileHandler) PublishProfile(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
		return
	}

	published := true
	profile, err := h.profileService.Update(c.Request.Context(), c.Param("id"), identity, &dto.UpdateTrainerProfileRequest{
		IsPublished: &published,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, dto.NewTrainerProfileResponse(profile))
}

// UpdateProfile edits a trainer profile. Ownership is enforced by the
// access gate before this handler runs.
// PATCH /api/v1/trainers/:id
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
		return
	}

	var req dto.UpdateTrainerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), c.Param("id"), identity, &req)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, dto.NewTrainerProfileResponse(profile))
}
