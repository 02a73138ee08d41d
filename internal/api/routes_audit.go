package api

import (
	"github.com/gin-gonic/gin"

	"github.com/inkwellhq/inkwell/internal/handlers"
	"github.com/inkwellhq/inkwell/internal/middleware"
	"github.com/inkwellhq/inkwell/internal/permissions"
)

func registerAuditRoutes(api *gin.RouterGroup, handler *handlers.AuditHandler, engine *permissions.Engine) {
	// Audit logs are not part of the catalog; requiring the sentinel name
	// restricts the listing to super admins, who pass on the bypass step.
	audit := api.Group("/audit-logs")
	{
		audit.GET("", middleware.Require(engine,
			permissions.RequireAll(permissions.FullAccess),
			"audit_logs", "list"), handler.List)
	}
}
