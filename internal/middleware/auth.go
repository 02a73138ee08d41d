package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/inkwellhq/inkwell/internal/auth"
	"github.com/inkwellhq/inkwell/internal/permissions"
	"github.com/inkwellhq/inkwell/internal/services"
	"github.com/inkwellhq/inkwell/pkg/errors"
	"github.com/inkwellhq/inkwell/pkg/response"
)

const (
	CtxClaimsKey   = "authClaims"
	CtxUserIDKey   = "userID"
	CtxIdentityKey = "authIdentity"
)

// Auth enforces JWT authentication and resolves the caller's permission set.
// The identity is rebuilt on every request so role or permission changes take
// effect immediately, not at the next token refresh.
func Auth(jwt *iauth.JWTService, perms *services.PermissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		identity, err := perms.IdentityFor(c.Request.Context(), claims.UserID)
		if err != nil {
			// Deleted or deactivated accounts keep presenting valid tokens
			// until expiry; treat them the same as a bad token.
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxIdentityKey, identity)

		c.Next()
	}
}

// IdentityFrom extracts the resolved identity stored by Auth.
func IdentityFrom(c *gin.Context) (permissions.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return permissions.Identity{}, false
	}
	id, ok := v.(permissions.Identity)
	return id, ok
}

// UserIDFrom extracts the authenticated user ID stored by Auth.
func UserIDFrom(c *gin.Context) (uint, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
