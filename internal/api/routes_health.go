package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkwellhq/inkwell/internal/handlers"
)

func registerHealthRoutes(r *gin.Engine, db *gorm.DB) {
	health := handlers.Health(db)
	r.GET("/health", health)
	r.GET("/api/health", health)
}
