package handlers

import (
	"errors"
	"strings"

	mw "go-gallery/internal/middleware"
	"go-gallery/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const dashboardActivityLimit = 20

// AdminHandler handles the authenticated photo management routes
type AdminHandler struct {
	authService    services.AuthService
	uploadService  services.UploadService
	photoService   services.PhotoService
	galleryService services.GalleryService
	allowed        []string
	maxUploadBytes int
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	authService services.AuthService,
	uploadService services.UploadService,
	photoService services.PhotoService,
	galleryService services.GalleryService,
	allowedExtensions []string,
	maxUploadBytes int,
) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		uploadService:  uploadService,
		photoService:   photoService,
		galleryService: galleryService,
		allowed:        allowedExtensions,
		maxUploadBytes: maxUploadBytes,
	}
}

// EditRequest carries the editable fields; is_favorite follows checkbox semantics.
// Captions have no length limit, matching the upload path.
type EditRequest struct {
	Caption    string
	IsFavorite bool
}

func checkboxChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes", "y":
		return true
	}
	return false
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	identity, _ := mw.CurrentIdentity(c)
	user, err := h.authService.CurrentUser(c.Context(), identity)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Redirect("/logout", fiber.StatusFound)
		}
		return err
	}
	photos, err := h.galleryService.All(c.Context())
	if err != nil {
		return err
	}
	stats, err := h.galleryService.Stats(c.Context())
	if err != nil {
		return err
	}
	activity, err := h.galleryService.ActivityFeed(c.Context(), dashboardActivityLimit)
	if err != nil {
		mw.GetRequestFileLogger(c).Warn("Could not load activity log for dashboard", zap.Error(err))
		activity = nil
	}
	return c.JSON(fiber.Map{
		"user":     fiber.Map{"id": user.ID, "username": user.Username},
		"photos":   photos,
		"stats":    stats,
		"activity": activity,
	})
}

// UploadForm handles GET /upload
func (h *AdminHandler) UploadForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"fields":             []string{"image", "caption"},
		"allowed_extensions": h.allowed,
		"max_content_length": h.maxUploadBytes,
	})
}

// Upload handles POST /upload (multipart: image, caption)
func (h *AdminHandler) Upload(c *fiber.Ctx) error {
	fileLogger := mw.GetRequestFileLogger(c)
	identity, _ := mw.CurrentIdentity(c)

	req := services.UploadRequest{Caption: c.FormValue("caption")}
	fileHeader, err := c.FormFile("image")
	if err == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			fileLogger.Error("Failed to open uploaded file", zap.String("filename", fileHeader.Filename), zap.Error(openErr))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Error processing photo upload"})
		}
		defer file.Close()
		req.Filename = fileHeader.Filename
		req.Content = file
	} else {
		fileLogger.Debug("No file in upload request", zap.Error(err))
	}

	photo, err := h.uploadService.Upload(c.Context(), identity, req)
	if err != nil {
		return respondError(c, fileLogger, err)
	}

	mw.GetRequestActivityLogger(c).Info("Photo uploaded", zap.Int64("photo_id", photo.ID), zap.String("filename", photo.Filename))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Photo uploaded successfully!",
		"photo":   h.galleryService.View(photo),
	})
}

// EditForm handles GET /edit/:id
func (h *AdminHandler) EditForm(c *fiber.Ctx) error {
	id, err := photoID(c)
	if err != nil {
		return respondError(c, mw.GetRequestFileLogger(c), err)
	}
	photo, err := h.photoService.Get(c.Context(), id)
	if err != nil {
		return respondError(c, mw.GetRequestFileLogger(c), err)
	}
	return c.JSON(fiber.Map{"photo": h.galleryService.View(photo)})
}

// Edit handles POST /edit/:id (form: caption, is_favorite checkbox)
func (h *AdminHandler) Edit(c *fiber.Ctx) error {
	fileLogger := mw.GetRequestFileLogger(c)
	identity, _ := mw.CurrentIdentity(c)
	id, err := photoID(c)
	if err != nil {
		return respondError(c, fileLogger, err)
	}

	req := EditRequest{
		Caption:    c.FormValue("caption"),
		IsFavorite: checkboxChecked(c.FormValue("is_favorite")),
	}
	photo, err := h.photoService.Edit(c.Context(), identity, id, req.Caption, req.IsFavorite)
	if err != nil {
		return respondError(c, fileLogger, err)
	}
	mw.GetRequestActivityLogger(c).Info("Photo edited", zap.Int64("photo_id", id), zap.Bool("is_favorite", photo.IsFavorite))
	return c.JSON(fiber.Map{
		"message": "Photo updated successfully!",
		"photo":   h.galleryService.View(photo),
	})
}

// Delete handles POST /delete/:id
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	fileLogger := mw.GetRequestFileLogger(c)
	identity, _ := mw.CurrentIdentity(c)
	id, err := photoID(c)
	if err != nil {
		return respondError(c, fileLogger, err)
	}

	photo, err := h.photoService.Delete(c.Context(), identity, id)
	if err != nil {
		return respondError(c, fileLogger, err)
	}
	mw.GetRequestActivityLogger(c).Info("Photo deleted", zap.Int64("photo_id", id), zap.String("filename", photo.Filename))
	return c.JSON(fiber.Map{"message": "Photo deleted successfully!", "id": id})
}

// ToggleFavorite handles POST /toggle_favorite/:id
func (h *AdminHandler) ToggleFavorite(c *fiber.Ctx) error {
	fileLogger := mw.GetRequestFileLogger(c)
	identity, _ := mw.CurrentIdentity(c)
	id, err := photoID(c)
	if err != nil {
		return respondError(c, fileLogger, err)
	}

	favorite, err := h.photoService.ToggleFavorite(c.Context(), identity, id)
	if err != nil {
		return respondError(c, fileLogger, err)
	}
	mw.GetRequestActivityLogger(c).Info("Photo favorite toggled", zap.Int64("photo_id", id), zap.Bool("is_favorite", favorite))
	return c.JSON(fiber.Map{"is_favorite": favorite})
}

// DebugFiles handles GET /debug/files
func (h *AdminHandler) DebugFiles(c *fiber.Ctx) error {
	report, err := h.photoService.FileReport(c.Context())
	if err != nil {
		return err
	}
	for i := range report.Files {
		report.Files[i].URL = h.galleryService.URLFor(report.Files[i].Filename)
	}
	return c.JSON(report)
}

// SetupAdminRoutes registers the management routes behind gate
func (h *AdminHandler) SetupAdminRoutes(router fiber.Router, gate fiber.Handler) {
	router.Get("/admin", gate, h.Dashboard)
	router.Get("/upload", gate, h.UploadForm)
	router.Post("/upload", gate, h.Upload)
	router.Get("/edit/:id", gate, h.EditForm)
	router.Post("/edit/:id", gate, h.Edit)
	router.Post("/delete/:id", gate, h.Delete)
	router.Post("/toggle_favorite/:id", gate, h.ToggleFavorite)
	router.Get("/debug/files", gate, h.DebugFiles)
}
