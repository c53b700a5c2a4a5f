package routes

import (
	"context"
	"time"

	"go-gallery/internal/bootstrap"
	"go-gallery/internal/config"
	mw "go-gallery/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, cfg *config.Config, logger *zap.Logger, components *bootstrap.AppComponents) {
	logger.Info("Setting up application routes...")

	app.Get("/health", func(c *fiber.Ctx) error {
		healthStatus := fiber.Map{"status": "healthy", "timestamp": time.Now().UTC()}
		dbStatus := fiber.Map{}

		if components.DB != nil {
			pingCtx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
			defer cancel()
			if err := components.DB.PingContext(pingCtx); err == nil {
				dbStatus[components.DB.Dialect.Name()] = "connected"
			} else {
				dbStatus[components.DB.Dialect.Name()] = "disconnected"
				healthStatus["status"] = "degraded"
				mw.GetRequestFileLogger(c).Warn("Health check: database ping failed", zap.Error(err))
			}
		} else {
			dbStatus["database"] = "uninitialized"
			healthStatus["status"] = "degraded"
		}
		healthStatus["dependencies"] = dbStatus
		return c.Status(fiber.StatusOK).JSON(healthStatus)
	})

	gate := mw.RequireIdentity()

	components.GalleryHandler.SetupGalleryRoutes(app)
	components.AuthHandler.SetupAuthRoutes(app, gate)
	components.AdminHandler.SetupAdminRoutes(app, gate)

	logger.Info("Routes registered", zap.String("uploads_url", cfg.UploadURLPrefix), zap.String("uploads_dir", components.ImageStore.Dir()))
}
