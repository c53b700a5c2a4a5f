package handlers

import (
	"errors"

	mw "go-gallery/internal/middleware"
	"go-gallery/internal/services"
	"go-gallery/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GalleryHandler serves the public read-only views.
type GalleryHandler struct {
	galleryService services.GalleryService
	store          *storage.ImageStore
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(galleryService services.GalleryService, store *storage.ImageStore) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService, store: store}
}

// Index handles GET / with an optional ?page=N
func (h *GalleryHandler) Index(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	result, err := h.galleryService.Page(c.Context(), page)
	if err != nil {
		return respondError(c, mw.GetRequestFileLogger(c), err)
	}
	return c.JSON(result)
}

// Favorites handles GET /favorites
func (h *GalleryHandler) Favorites(c *fiber.Ctx) error {
	photos, err := h.galleryService.Favorites(c.Context())
	if err != nil {
		return respondError(c, mw.GetRequestFileLogger(c), err)
	}
	return c.JSON(fiber.Map{"photos": photos})
}

// Search handles GET /search?q=
func (h *GalleryHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	photos, err := h.galleryService.Search(c.Context(), query)
	if err != nil {
		return respondError(c, mw.GetRequestFileLogger(c), err)
	}
	return c.JSON(fiber.Map{"photos": photos, "search_query": query})
}

// APIPhotos handles GET /api/photos, the full unpaginated feed
func (h *GalleryHandler) APIPhotos(c *fiber.Ctx) error {
	photos, err := h.galleryService.Feed(c.Context())
	if err != nil {
		return respondError(c, mw.GetRequestFileLogger(c), err)
	}
	return c.JSON(photos)
}

// ServeUpload handles GET /static/uploads/:filename
func (h *GalleryHandler) ServeUpload(c *fiber.Ctx) error {
	key := c.Params("filename")
	data, err := h.store.Read(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			mw.GetRequestFileLogger(c).Warn("Requested image not found", zap.String("filename", key))
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
		}
		return err
	}
	c.Set(fiber.HeaderContentType, mimetype.Detect(data).String())
	return c.Send(data)
}

// SetupGalleryRoutes registers the public routes
func (h *GalleryHandler) SetupGalleryRoutes(router fiber.Router) {
	router.Get("/", h.Index)
	router.Get("/favorites", h.Favorites)
	router.Get("/search", h.Search)
	router.Get("/api/photos", h.APIPhotos)
	router.Get("/static/uploads/:filename", h.ServeUpload)
}
