package services

import (
	"context"
	"errors"
	"fmt"

	"go-gallery/internal/models"
	"go-gallery/internal/repositories"
	"go-gallery/internal/storage"
	"go.uber.org/zap"
)

var ErrPhotoNotFound = errors.New("photo not found")

// FileStatus reports whether the image behind a photo record is still on disk.
// URL is left for the caller to fill in, since only the gallery knows the serving prefix.
type FileStatus struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Exists   bool   `json:"exists"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// FileReport summarizes the upload directory against the photo records.
type FileReport struct {
	UploadFolder       string       `json:"upload_folder"`
	UploadFolderExists bool         `json:"upload_folder_exists"`
	PhotosCount        int          `json:"photos_count"`
	FilesExist         int          `json:"files_exist"`
	Files              []FileStatus `json:"files"`
}

// PhotoService holds the mutations an authenticated user can make to existing photos.
type PhotoService interface {
	Get(ctx context.Context, id int64) (*models.Photo, error)
	Edit(ctx context.Context, identity models.Identity, id int64, caption string, isFavorite bool) (*models.Photo, error)
	ToggleFavorite(ctx context.Context, identity models.Identity, id int64) (bool, error)
	Delete(ctx context.Context, identity models.Identity, id int64) (*models.Photo, error)
	FileReport(ctx context.Context) (*FileReport, error)
}

type photoServiceImpl struct {
	photoRepo repositories.PhotoRepository
	store     *storage.ImageStore
	logger    *zap.Logger
}

// NewPhotoService creates a new PhotoService
func NewPhotoService(photoRepo repositories.PhotoRepository, store *storage.ImageStore, logger *zap.Logger) PhotoService {
	return &photoServiceImpl{photoRepo: photoRepo, store: store, logger: logger}
}

func (s *photoServiceImpl) Get(ctx context.Context, id int64) (*models.Photo, error) {
	photo, err := s.photoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve photo: %w", err)
	}
	if photo == nil {
		return nil, ErrPhotoNotFound
	}
	return photo, nil
}

// Edit replaces caption and favorite flag. Filename, upload date and uploader never change.
func (s *photoServiceImpl) Edit(ctx context.Context, identity models.Identity, id int64, caption string, isFavorite bool) (*models.Photo, error) {
	photo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	photo.Caption = caption
	photo.IsFavorite = isFavorite
	if err := s.photoRepo.Update(ctx, photo); err != nil {
		if errors.Is(err, repositories.ErrPhotoNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("could not update photo: %w", err)
	}
	s.logger.Info("Photo edited", zap.Int64("photo_id", id), zap.String("user", identity.Username))
	return photo, nil
}

func (s *photoServiceImpl) ToggleFavorite(ctx context.Context, identity models.Identity, id int64) (bool, error) {
	favorite, err := s.photoRepo.ToggleFavorite(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPhotoNotFound) {
			return false, ErrPhotoNotFound
		}
		return false, fmt.Errorf("could not toggle favorite: %w", err)
	}
	s.logger.Info("Photo favorite toggled", zap.Int64("photo_id", id), zap.Bool("is_favorite", favorite), zap.String("user", identity.Username))
	return favorite, nil
}

// Delete removes the record first; the image file is then removed best-effort.
func (s *photoServiceImpl) Delete(ctx context.Context, identity models.Identity, id int64) (*models.Photo, error) {
	photo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	deleted, err := s.photoRepo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not delete photo: %w", err)
	}
	if !deleted {
		return nil, ErrPhotoNotFound
	}

	removed, err := s.store.Remove(photo.Filename)
	if err != nil {
		s.logger.Warn("Photo record deleted but file removal failed", zap.Int64("photo_id", id), zap.String("filename", photo.Filename), zap.Error(err))
	} else if !removed {
		s.logger.Warn("Photo record deleted, file was already missing", zap.Int64("photo_id", id), zap.String("filename", photo.Filename))
	}
	s.logger.Info("Photo deleted", zap.Int64("photo_id", id), zap.String("user", identity.Username))
	return photo, nil
}

// FileReport checks every photo record against the image store.
func (s *photoServiceImpl) FileReport(ctx context.Context) (*FileReport, error) {
	photos, err := s.photoRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list photos: %w", err)
	}
	report := &FileReport{
		UploadFolder:       s.store.Dir(),
		UploadFolderExists: s.store.DirExists(),
		PhotosCount:        len(photos),
		Files:              make([]FileStatus, 0, len(photos)),
	}
	for _, photo := range photos {
		status := FileStatus{ID: photo.ID, Filename: photo.Filename}
		if size, err := s.store.Stat(photo.Filename); err == nil {
			status.Exists = true
			status.Size = size
			report.FilesExist++
		}
		report.Files = append(report.Files, status)
	}
	return report, nil
}
