package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/internal/dto"
	"github.com/coachly/backend-auth/internal/middleware"
	"github.com/coachly/backend-auth/internal/service"
	"github.com/coachly/backend-auth/pkg/response"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles account registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, ok := req.ValidateRole(); !ok {
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "role must be member or trainer", "")
		return
	}
	if valid, msg := req.ValidateEmail(); !valid {
		response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", msg, "")
		return
	}
	if valid, msg := req.ValidatePassword(); !valid {
		response.Error(c, http.StatusBadRequest, "WEAK_PASSWORD", msg, "")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.Conflict(c, "EMAIL_TAKEN", "An account with this email already exists")
			return
		}
		writeDomainError(c, err)
		return
	}

	response.Created(c, result)
}

// Login handles credential login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Unauthorized(c, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		if errors.Is(err, domain.ErrAccountDeactivated) {
			response.Error(c, http.StatusForbidden, "ACCOUNT_DEACTIVATED", "Account is deactivated", "")
			return
		}
		writeDomainError(c, err)
		return
	}

	response.Success(c, result)
}

// Me returns the authenticated account
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
		return
	}

	account, err := h.authService.GetAccount(c.Request.Context(), identity.AccountID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, dto.NewAccountResponse(account))
}

// UpdateMe changes the authenticated account's display name
// PATCH /api/v1/auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, err := h.authService.UpdateName(c.Request.Context(), identity.AccountID, req.Name)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, dto.NewAccountResponse(account))
}

// ChangePassword rotates the authenticated account's password. All tokens
// issued before the change stop working.
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := req.ValidateNewPassword(); !valid {
		response.Error(c, http.StatusBadRequest, "WEAK_PASSWORD", msg, "")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identity.AccountID, &req); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Unauthorized(c, "INVALID_CREDENTIALS", "Current password is incorrect")
			return
		}
		writeDomainError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "password changed"})
}

// Deactivate soft-disables the authenticated account
// DELETE /api/v1/auth/me
func (h *AuthHandler) Deactivate(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
		return
	}

	if err := h.authService.Deactivate(c.Request.Context(), identity.AccountID); err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "account deactivated"})
}
