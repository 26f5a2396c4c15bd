package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/internal/dto"
	"github.com/coachly/backend-auth/internal/service"
	"github.com/coachly/backend-auth/pkg/response"
)

// AdminHandler handles the trainer approval workflow. All routes behind it
// require the admin role.
type AdminHandler struct {
	approvalService service.ApprovalService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(approvalService service.ApprovalService) *AdminHandler {
	return &AdminHandler{approvalService: approvalService}
}

// ListPendingTrainers lists trainers awaiting approval
// GET /api/v1/admin/trainers/pending
func (h *AdminHandler) ListPendingTrainers(c *gin.Context) {
	accounts, err := h.approvalService.ListPending(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}

	result := make([]dto.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, dto.NewAccountResponse(account))
	}

	response.SuccessWithMeta(c, result, gin.H{"count": len(result)})
}

// ApproveTrainer approves a trainer by account id. Re-approving an
// already-approved trainer succeeds.
// POST /api/v1/admin/trainers/:id/approve
func (h *AdminHandler) ApproveTrainer(c *gin.Context) {
	account, err := h.approvalService.ApproveByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "no pending or approved trainer with this id")
			return
		}
		writeDomainError(c, err)
		return
	}

	response.Success(c, dto.NewAccountResponse(account))
}

// ApproveTrainerByEmail approves a trainer by email
// POST /api/v1/admin/trainers/approve
func (h *AdminHandler) ApproveTrainerByEmail(c *gin.Context) {
	var req dto.ApproveTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, err := h.approvalService.ApproveByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "no pending or approved trainer with this email")
			return
		}
		writeDomainError(c, err)
		return
	}

	response.Success(c, dto.NewAccountResponse(account))
}
