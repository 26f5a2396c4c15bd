package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/internal/service"
	"github.com/coachly/backend-auth/pkg/response"
)

const (
	// ContextKeyIdentity is the gin context key holding the resolved
	// domain.Identity after authentication.
	ContextKeyIdentity = "identity"
	// ContextKeyAccountID duplicates the account id as a plain string for
	// middleware that only needs the id, such as idempotency hashing.
	ContextKeyAccountID = "account_id"

	accessTokenHeader = "X-Access-Token"
	bearerPrefix      = "Bearer "
)

// RequireAuth resolves the caller's bearer token into an Identity and
// aborts with the matching status when the token or account is not
// usable. Handlers behind it can assume GetIdentity succeeds.
func RequireAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortAuthError(c, domain.ErrUnauthenticated)
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortAuthError(c, err)
			return
		}

		attachIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth attaches an Identity when a valid token is present and
// silently continues anonymous otherwise. It never aborts.
func OptionalAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err == nil {
			attachIdentity(c, identity)
		}
		c.Next()
	}
}

// RequireRoles allows only the listed roles past. It must run after
// RequireAuth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortAuthError(c, domain.ErrUnauthenticated)
			return
		}
		if _, ok := allowed[identity.Role]; !ok {
			response.Forbidden(c, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireApprovedTrainer blocks trainer identities that have not been
// approved by an admin yet. Non-trainer identities pass through, so the
// gate composes with RequireRoles or an ownership gate that scopes who
// reaches the handler at all. It must run after RequireAuth.
func RequireApprovedTrainer() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortAuthError(c, domain.ErrUnauthenticated)
			return
		}
		if identity.Role == domain.RoleTrainer && !identity.Approved {
			response.Error(c, http.StatusForbidden, "TRAINER_NOT_APPROVED", "trainer account pending approval", "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireProfileOwner allows only the owner of the trainer profile named
// by the id path param, or an admin. It must run after RequireAuth.
func RequireProfileOwner(profiles service.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortAuthError(c, domain.ErrUnauthenticated)
			return
		}
		if identity.IsAdmin() {
			c.Next()
			return
		}

		ownerID, err := profiles.OwnerOf(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				response.NotFound(c, "profile not found")
			} else if errors.Is(err, domain.ErrStoreUnavailable) {
				response.ServiceUnavailable(c, "store unavailable")
			} else {
				response.InternalError(c, err)
			}
			c.Abort()
			return
		}
		if ownerID != identity.AccountID {
			response.Forbidden(c, "not the profile owner")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity returns the authenticated identity attached by RequireAuth
// or OptionalAuth.
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	v, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}

func attachIdentity(c *gin.Context, identity *domain.Identity) {
	c.Set(ContextKeyIdentity, *identity)
	c.Set(ContextKeyAccountID, identity.AccountID)
}

// extractToken pulls the bearer token from the Authorization header, with
// X-Access-Token as a fallback for clients that cannot set Authorization.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return strings.TrimSpace(c.GetHeader(accessTokenHeader))
}

func abortAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		response.Unauthorized(c, "UNAUTHENTICATED", "authentication required")
	case errors.Is(err, domain.ErrTokenExpired):
		response.Unauthorized(c, "TOKEN_EXPIRED", "token has expired")
	case errors.Is(err, domain.ErrStaleToken):
		response.Unauthorized(c, "STALE_TOKEN", "token predates a password change")
	case errors.Is(err, domain.ErrTokenInvalid):
		response.Unauthorized(c, "INVALID_TOKEN", "token is invalid")
	case errors.Is(err, domain.ErrAccountNotFound):
		response.Unauthorized(c, "ACCOUNT_NOT_FOUND", "account no longer exists")
	case errors.Is(err, domain.ErrAccountDeactivated):
		response.Error(c, http.StatusForbidden, "ACCOUNT_DEACTIVATED", "account is deactivated", "")
	case errors.Is(err, domain.ErrStoreUnavailable):
		response.ServiceUnavailable(c, "store unavailable")
	default:
		response.InternalError(c, err)
	}
	c.Abort()
}
