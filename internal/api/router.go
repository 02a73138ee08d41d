package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/app"
	iauth "github.com/inkwellhq/inkwell/internal/auth"
	"github.com/inkwellhq/inkwell/internal/handlers"
	"github.com/inkwellhq/inkwell/internal/middleware"
	"github.com/inkwellhq/inkwell/internal/permissions"
	"github.com/inkwellhq/inkwell/internal/services"
)

// Deps carries the constructed collaborators the router wires together.
type Deps struct {
	DB        *gorm.DB
	Config    *app.Config
	JWT       *iauth.JWTService
	Login     *iauth.LoginService
	Engine    *permissions.Engine
	Perms     *services.PermissionService
	Roles     *services.RoleService
	Audit     *services.AuditService
	RateStore middleware.RateStore
}

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("decision engine must be provided")
	}
	if deps.Perms == nil {
		return nil, fmt.Errorf("permission service must be provided")
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	if rl := deps.Config.RateLimit; rl.Enabled {
		r.Use(middleware.RateLimit(deps.RateStore, rl.MaxRequests, rl.Window))
	}

	r.NoRoute(middleware.NotFoundHandler)

	registerHealthRoutes(r, deps.DB)
	if mon := deps.Config.Monitoring.Prometheus; mon.Enabled {
		endpoint := mon.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	authHandler := handlers.NewAuthHandler(deps.Login, deps.Perms)
	registerAuthRoutes(r, authHandler)

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.JWT, deps.Perms))

	api.GET("/auth/me/permissions", authHandler.MyPermissions)

	registerPermissionRoutes(api, handlers.NewPermissionHandler(deps.Perms), deps.Engine)
	registerRoleRoutes(api, handlers.NewRoleHandler(deps.Roles), deps.Engine)
	registerAuditRoutes(api, handlers.NewAuditHandler(deps.Audit), deps.Engine)

	return r, nil
}
