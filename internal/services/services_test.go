package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go-gallery/internal/database/dbtest"
	"go-gallery/internal/models"
	"go-gallery/internal/repositories"
	"go-gallery/internal/storage"
	"go.uber.org/zap"
)

var (
	testAllowed = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true}
	admin       = models.Identity{UserID: 1, Username: "admin"}
)

type fixture struct {
	photoRepo repositories.PhotoRepository
	logRepo   repositories.LogRepository
	userRepo  repositories.UserRepository
	store     *storage.ImageStore
	uploads   UploadService
	photos    PhotoService
	gallery   GalleryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	logger := zap.NewNop()
	f := &fixture{
		photoRepo: repositories.NewPhotoRepository(db, logger),
		logRepo:   repositories.NewLogRepository(db, logger),
		userRepo:  repositories.NewUserRepository(db, logger),
		store:     storage.NewImageStore(filepath.Join(t.TempDir(), "uploads"), logger),
	}
	resizer := storage.NewResizer(f.store, 1200, 1200, 85, logger)
	f.uploads = NewUploadService(f.photoRepo, f.store, resizer, testAllowed, logger)
	f.photos = NewPhotoService(f.photoRepo, f.store, logger)
	f.gallery = NewGalleryService(f.photoRepo, f.logRepo, 12, "/static/uploads", logger)
	return f
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func (f *fixture) upload(t *testing.T, name, caption string) *models.Photo {
	t.Helper()
	photo, err := f.uploads.Upload(context.Background(), admin, UploadRequest{
		Filename: name,
		Content:  bytes.NewReader(pngBytes(t)),
		Caption:  caption,
	})
	require.NoError(t, err)
	return photo
}

func uploadDirEntries(t *testing.T, store *storage.ImageStore) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(store.Dir())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	return entries
}
