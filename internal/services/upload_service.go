package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go-gallery/internal/models"
	"go-gallery/internal/pkg/validation"
	"go-gallery/internal/repositories"
	"go-gallery/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrStorageWrite = errors.New("could not save photo")
	ErrRecordInsert = errors.New("could not record photo")
)

// UploadStage names a step of the upload pipeline.
type UploadStage string

const (
	StageReceived   UploadStage = "received"
	StageValidated  UploadStage = "validated"
	StageStored     UploadStage = "stored"
	StageNormalized UploadStage = "normalized"
	StageRecorded   UploadStage = "recorded"
	StageDone       UploadStage = "done"
	StageAborted    UploadStage = "aborted"
)

// UploadRequest is one submitted image. Filename is empty when no file was chosen.
type UploadRequest struct {
	Filename string
	Content  io.Reader
	Caption  string
}

// UploadService turns a submitted file into a stored image plus a photo record.
type UploadService interface {
	Upload(ctx context.Context, identity models.Identity, req UploadRequest) (*models.Photo, error)
}

type uploadServiceImpl struct {
	photoRepo repositories.PhotoRepository
	store     *storage.ImageStore
	resizer   *storage.Resizer
	allowed   map[string]bool
	logger    *zap.Logger
	now       func() time.Time
}

// NewUploadService creates an UploadService accepting the given lower-case extensions.
func NewUploadService(photoRepo repositories.PhotoRepository, store *storage.ImageStore, resizer *storage.Resizer, allowed map[string]bool, logger *zap.Logger) UploadService {
	return &uploadServiceImpl{
		photoRepo: photoRepo,
		store:     store,
		resizer:   resizer,
		allowed:   allowed,
		logger:    logger,
		now:       time.Now,
	}
}

func stage(s UploadStage) zap.Field {
	return zap.String("stage", string(s))
}

// Upload runs validate, store, normalize and record in order.
// Validation failures return a *validation.UploadError and touch nothing.
// A failed record insert removes the stored file before returning ErrRecordInsert.
func (s *uploadServiceImpl) Upload(ctx context.Context, identity models.Identity, req UploadRequest) (*models.Photo, error) {
	logger := s.logger.With(zap.String("original_filename", req.Filename), zap.String("uploaded_by", identity.Username))
	logger.Debug("Upload received", stage(StageReceived))

	if _, verr := validation.ValidateImageFilename(req.Filename, s.allowed); verr != nil {
		logger.Warn("Upload rejected", stage(StageAborted), zap.String("reason", string(verr.Code)))
		return nil, verr
	}
	logger.Debug("Upload validated", stage(StageValidated))

	key, err := s.store.Store(req.Content, req.Filename)
	if err != nil {
		logger.Error("Upload aborted while storing file", stage(StageAborted), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	logger = logger.With(zap.String("filename", key))
	logger.Debug("Upload stored", stage(StageStored))

	if s.resizer != nil {
		s.resizer.Normalize(key)
	}
	logger.Debug("Upload normalized", stage(StageNormalized))

	photo := &models.Photo{
		Filename:     key,
		Caption:      req.Caption,
		DateUploaded: s.now().UTC(),
		IsFavorite:   false,
		UploadedBy:   identity.Username,
	}
	if _, err := s.photoRepo.Create(ctx, photo); err != nil {
		logger.Error("Upload aborted while recording photo", stage(StageAborted), zap.Error(err))
		if _, rmErr := s.store.Remove(key); rmErr != nil {
			logger.Error("Failed to remove orphaned upload", zap.Error(rmErr))
		}
		return nil, fmt.Errorf("%w: %v", ErrRecordInsert, err)
	}
	logger.Debug("Upload recorded", stage(StageRecorded), zap.Int64("photo_id", photo.ID))

	logger.Info("Photo uploaded", stage(StageDone), zap.Int64("photo_id", photo.ID))
	return photo, nil
}
