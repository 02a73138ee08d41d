package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwellhq/inkwell/internal/permissions"
	"github.com/inkwellhq/inkwell/pkg/errors"
	"github.com/inkwellhq/inkwell/pkg/logger"
	"github.com/inkwellhq/inkwell/pkg/response"
)

// Require evaluates a declared requirement against the authenticated identity.
// It must run after Auth. The route's resource and action name the operation
// for auditing; routes carrying an ownership alternative read the resource ID
// from the named path parameter (conventionally "id").
func Require(engine *permissions.Engine, req permissions.Requirement, resource, action string) gin.HandlerFunc {
	return RequireParam(engine, req, resource, action, "id")
}

// RequireParam is Require with an explicit path parameter for the resource ID.
func RequireParam(engine *permissions.Engine, req permissions.Requirement, resource, action, idParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		target := permissions.Target{Action: action, Resource: resource}
		if raw := c.Param(idParam); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				response.Error(c, errors.NewBadRequest("invalid resource id"))
				c.Abort()
				return
			}
			target.ResourceID = uint(id)
		}

		decision := engine.Authorize(c.Request.Context(), identity, req, target)
		if decision.Err != nil {
			logger.WithModule("authz").Error("authorization check failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Uint("user_id", identity.UserID),
				zap.Error(decision.Err),
			)
			response.Error(c, errors.ErrInternalServer)
			c.Abort()
			return
		}
		if !decision.Allowed {
			err := errors.ErrForbidden
			if len(decision.MissingPermissions) > 0 {
				err = err.WithDetails(map[string]any{
					"missing_permissions": decision.MissingPermissions,
				})
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
