package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/eduspace/course-server-go/internal/features/auth"
	"github.com/eduspace/course-server-go/internal/features/course"
	"github.com/eduspace/course-server-go/internal/middleware"
	"github.com/eduspace/course-server-go/pkg/config"
	"github.com/eduspace/course-server-go/pkg/health"
	"github.com/eduspace/course-server-go/pkg/storage"
)

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, cfg *config.Config, db *gorm.DB, logger *slog.Logger, uploads *storage.LocalStore) {
	// Health check endpoints (no /api prefix for Kubernetes probes)
	healthHandler := health.NewHandler(db, logger)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.VersionInfo)

	// Metrics endpoint for Prometheus
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded course images are served straight from disk.
	engine.Static(cfg.Uploads.PublicPrefix, uploads.Dir())

	api := engine.Group("/api")

	authMiddleware := middleware.NewAuthMiddleware(db, cfg.JWTSecret, logger)
	authenticated := authMiddleware.AuthenticateToken()

	authHandler := auth.NewHandler(db, logger, cfg)
	auth.RegisterRoutes(api, authHandler, authenticated)

	courseHandler := course.NewHandler(db, logger, uploads)
	course.RegisterRoutes(api, courseHandler, authenticated)
}
