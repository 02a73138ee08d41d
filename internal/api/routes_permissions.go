package api

import (
	"github.com/gin-gonic/gin"

	"github.com/inkwellhq/inkwell/internal/handlers"
	"github.com/inkwellhq/inkwell/internal/middleware"
	"github.com/inkwellhq/inkwell/internal/permissions"
)

func registerPermissionRoutes(api *gin.RouterGroup, handler *handlers.PermissionHandler, engine *permissions.Engine) {
	require := func(req permissions.Requirement, action string) gin.HandlerFunc {
		return middleware.Require(engine, req, permissions.ResourcePermissions, action)
	}

	perms := api.Group("/permissions")
	{
		perms.GET("", require(permissions.RequireAll("permissions:read"), "list"), handler.List)
		perms.GET("/options", require(permissions.RequireAll("permissions:read"), "options"), handler.Options)
		perms.GET("/:id", require(permissions.RequireAll("permissions:read"), "get"), handler.Get)
		perms.POST("", require(permissions.RequireAll("permissions:create"), "create"), handler.Create)
		perms.PATCH("/:id", require(permissions.RequireAll("permissions:update"), "update"), handler.Update)
		perms.DELETE("/:id", require(permissions.RequireAll("permissions:delete"), "delete"), handler.Delete)
		perms.POST("/:id/restore", require(permissions.RequireAll("permissions:restore"), "restore"), handler.Restore)
		perms.DELETE("/:id/permanent", require(permissions.RequireAll("permissions:delete"), "permanent_delete"), handler.PermanentDelete)
		perms.POST("/sync", require(permissions.RequireAll("permissions:sync"), "sync"), handler.Sync)
	}
}
