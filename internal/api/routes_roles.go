package api

import (
	"github.com/gin-gonic/gin"

	"github.com/inkwellhq/inkwell/internal/handlers"
	"github.com/inkwellhq/inkwell/internal/middleware"
	"github.com/inkwellhq/inkwell/internal/permissions"
)

func registerRoleRoutes(api *gin.RouterGroup, handler *handlers.RoleHandler, engine *permissions.Engine) {
	require := func(req permissions.Requirement, action string) gin.HandlerFunc {
		return middleware.Require(engine, req, permissions.ResourceRoles, action)
	}

	roles := api.Group("/roles")
	{
		roles.GET("", require(permissions.RequireAll("roles:read"), "list"), handler.List)
		roles.POST("", require(permissions.RequireAll("roles:create"), "create"), handler.Create)
		roles.PATCH("/:id", require(permissions.RequireAll("roles:update"), "update"), handler.Update)
		roles.DELETE("/:id", require(permissions.RequireAll("roles:delete"), "delete"), handler.Delete)
		roles.PUT("/:id/permissions", require(permissions.RequireAll("roles:assign_permissions"), "assign_permissions"), handler.AssignPermissions)
		roles.DELETE("/:id/permissions", require(permissions.RequireAll("roles:assign_permissions"), "remove_permissions"), handler.RemovePermissions)
	}
}
