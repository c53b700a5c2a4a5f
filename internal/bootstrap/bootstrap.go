package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go-gallery/internal/config"
	"go-gallery/internal/database"
	"go-gallery/internal/handlers"
	"go-gallery/internal/repositories"
	"go-gallery/internal/services"
	"go-gallery/internal/storage"

	"go.uber.org/zap"
)

// AppComponents is the application context: everything built once at startup and
// injected into the HTTP layer.
type AppComponents struct {
	DB         *database.DB
	ImageStore *storage.ImageStore

	PhotoRepo repositories.PhotoRepository
	UserRepo  repositories.UserRepository
	LogRepo   repositories.LogRepository

	AuthService    services.AuthService
	GalleryService services.GalleryService

	AuthHandler    *handlers.AuthHandler
	GalleryHandler *handlers.GalleryHandler
	AdminHandler   *handlers.AdminHandler
}

// InitializeAppComponents wires repositories, storage, services and handlers, then seeds the admin user.
func InitializeAppComponents(cfg *config.Config, logger *zap.Logger, db *database.DB, logRepo repositories.LogRepository) (*AppComponents, error) {
	logger.Info("Initializing application components: Repositories, Storage, Services, Handlers...")

	if logRepo == nil {
		logRepo = repositories.NewLogRepository(db, logger)
	}
	photoRepo := repositories.NewPhotoRepository(db, logger)
	userRepo := repositories.NewUserRepository(db, logger)
	logger.Info("Repositories initialized.")

	store := storage.NewImageStore(cfg.UploadDir, logger)
	resizer := storage.NewResizer(store, cfg.MaxImageWidth, cfg.MaxImageHeight, cfg.JPEGQuality, logger)
	logger.Info("Image storage initialized.", zap.String("directory", store.Dir()))

	authService := services.NewAuthService(userRepo, logger, cfg.SecretKey, time.Duration(cfg.SessionTTLHours)*time.Hour)
	uploadService := services.NewUploadService(photoRepo, store, resizer, cfg.AllowedExtensionSet(), logger)
	photoService := services.NewPhotoService(photoRepo, store, logger)
	galleryService := services.NewGalleryService(photoRepo, logRepo, cfg.PageSize, cfg.UploadURLPrefix, logger)
	logger.Info("Services initialized.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return nil, fmt.Errorf("failed to seed admin user: %w", err)
	}
	if cfg.AdminPassword == config.DefaultAdminPassword {
		logger.Warn("Admin account uses the default password; set ADMIN_PASSWORD", zap.String("username", cfg.AdminUsername))
	}

	components := &AppComponents{
		DB:             db,
		ImageStore:     store,
		PhotoRepo:      photoRepo,
		UserRepo:       userRepo,
		LogRepo:        logRepo,
		AuthService:    authService,
		GalleryService: galleryService,
		AuthHandler:    handlers.NewAuthHandler(authService, cfg.AppEnv == "production"),
		GalleryHandler: handlers.NewGalleryHandler(galleryService, store),
		AdminHandler:   handlers.NewAdminHandler(authService, uploadService, photoService, galleryService, cfg.AllowedExtensions, cfg.MaxContentLength),
	}
	logger.Info("Application components initialization complete.")
	return components, nil
}
