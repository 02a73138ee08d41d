package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/api"
	"github.com/inkwellhq/inkwell/internal/app"
	"github.com/inkwellhq/inkwell/internal/app/maintenance"
	iauth "github.com/inkwellhq/inkwell/internal/auth"
	"github.com/inkwellhq/inkwell/internal/database"
	"github.com/inkwellhq/inkwell/internal/middleware"
	"github.com/inkwellhq/inkwell/internal/permissions"
	"github.com/inkwellhq/inkwell/internal/services"
	"github.com/inkwellhq/inkwell/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB        *gorm.DB
	AuditSvc  *services.AuditService
	Cleaner   *maintenance.Cleaner
	RateStore middleware.RateStore
	Router    *gin.Engine
}

// bootstrapRuntime initialises the database, services, and the HTTP router.
func bootstrapRuntime(cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(log)
		}
	}()

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         cfg.Auth.JWT.Secret,
		Issuer:         cfg.Auth.JWT.Issuer,
		AccessTokenTTL: cfg.Auth.JWT.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	loginSvc, err := iauth.NewLoginService(stack.DB, jwtSvc)
	if err != nil {
		return nil, fmt.Errorf("initialise login service: %w", err)
	}

	stack.AuditSvc, err = services.NewAuditService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise audit service: %w", err)
	}

	permSvc, err := services.NewPermissionService(stack.DB, stack.AuditSvc)
	if err != nil {
		return nil, fmt.Errorf("initialise permission service: %w", err)
	}

	roleSvc, err := services.NewRoleService(stack.DB, stack.AuditSvc)
	if err != nil {
		return nil, fmt.Errorf("initialise role service: %w", err)
	}

	owners, err := permissions.NewOwnershipService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise ownership service: %w", err)
	}
	engine := permissions.NewEngine(owners, permissions.WithAuditObserver(stack.AuditSvc))

	stack.RateStore = middleware.NewMemoryRateStore()

	if cfg.Maintenance.Enabled {
		opts := []maintenance.Option{
			maintenance.WithAuditRetentionDays(cfg.Audit.RetentionDays),
		}
		if cfg.Maintenance.Schedule != "" {
			opts = append(opts, maintenance.WithRateSweepSchedule(cfg.Maintenance.Schedule))
		}
		sweeper, _ := stack.RateStore.(maintenance.RateSweeper)
		stack.Cleaner = maintenance.NewCleaner(stack.AuditSvc, sweeper, opts...)
		if err := stack.Cleaner.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	}

	stack.Router, err = api.NewRouter(api.Deps{
		DB:        stack.DB,
		Config:    cfg,
		JWT:       jwtSvc,
		Login:     loginSvc,
		Engine:    engine,
		Perms:     permSvc,
		Roles:     roleSvc,
		Audit:     stack.AuditSvc,
		RateStore: stack.RateStore,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		stopCtx := s.Cleaner.Stop()
		if err := s.Cleaner.RunOnce(stopCtx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.DatabaseConnection()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
