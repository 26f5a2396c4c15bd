package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/pkg/response"
)

// writeDomainError maps domain error kinds onto HTTP statuses. Handlers
// intercept the errors they want to phrase specially before calling this.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
	case errors.Is(err, domain.ErrTokenExpired):
		response.Unauthorized(c, "TOKEN_EXPIRED", "token has expired")
	case errors.Is(err, domain.ErrStaleToken):
		response.Unauthorized(c, "STALE_TOKEN", "token predates a password change")
	case errors.Is(err, domain.ErrTokenInvalid):
		response.Unauthorized(c, "INVALID_TOKEN", "token is invalid")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(c, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, domain.ErrAccountNotFound):
		response.NotFound(c, "account not found")
	case errors.Is(err, domain.ErrAccountDeactivated):
		response.Error(c, http.StatusForbidden, "ACCOUNT_DEACTIVATED", "account is deactivated", "")
	case errors.Is(err, domain.ErrTrainerNotApproved):
		response.Error(c, http.StatusForbidden, "TRAINER_NOT_APPROVED", "trainer is not approved yet", "")
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(c, "operation not allowed")
	case errors.Is(err, domain.ErrEmailTaken):
		response.Conflict(c, "EMAIL_TAKEN", "an account with this email already exists")
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(c, "resource not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		response.ServiceUnavailable(c, "store unavailable")
	default:
		response.InternalError(c, err)
	}
}
