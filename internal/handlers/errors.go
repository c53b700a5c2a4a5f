package handlers

import (
	"errors"

	"go-gallery/internal/pkg/validation"
	"go-gallery/internal/services"
	"go-gallery/internal/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps service errors onto JSON responses. Unknown errors are handed to the
// app's ErrorHandler.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var uploadErr *validation.UploadError
	switch {
	case errors.As(err, &uploadErr):
		logger.Warn("Upload validation failed", zap.String("code", string(uploadErr.Code)), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": uploadErr.Message(),
			"code":  uploadErr.Code,
		})
	case errors.Is(err, services.ErrPhotoNotFound), errors.Is(err, storage.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
	case errors.Is(err, services.ErrStorageWrite), errors.Is(err, services.ErrRecordInsert):
		logger.Error("Upload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error uploading photo: " + err.Error(),
		})
	default:
		return err
	}
}

// photoID parses the :id route parameter; anything but a positive integer is a 404.
func photoID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, services.ErrPhotoNotFound
	}
	return int64(id), nil
}
