package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-gallery/internal/models"
	"go-gallery/internal/pkg/validation"
	"go-gallery/internal/repositories"
	"go-gallery/internal/storage"
	"go.uber.org/zap"
)

func TestUploadStoresFileAndRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photo := f.upload(t, "Beach Day.PNG", "Sunset")
	assert.NotZero(t, photo.ID)
	assert.True(t, strings.HasSuffix(photo.Filename, "_Beach_Day.PNG"), photo.Filename)
	assert.Equal(t, "Sunset", photo.Caption)
	assert.Equal(t, "admin", photo.UploadedBy)
	assert.False(t, photo.IsFavorite)
	assert.True(t, f.store.Exists(photo.Filename))

	stored, err := f.photoRepo.FindByID(ctx, photo.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, photo.Filename, stored.Filename)

	count, err := f.photoRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUploadRejectsInvalidFilesWithoutSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, code := range map[string]validation.UploadErrorCode{
		"":           validation.CodeMissingFile,
		"notes":      validation.CodeNoExtension,
		"shell.php":  validation.CodeExtensionNotAllowed,
		"image.tiff": validation.CodeExtensionNotAllowed,
	} {
		_, err := f.uploads.Upload(ctx, admin, UploadRequest{Filename: name, Content: strings.NewReader("x")})
		var uploadErr *validation.UploadError
		require.ErrorAs(t, err, &uploadErr, name)
		assert.Equal(t, code, uploadErr.Code, name)
	}

	count, err := f.photoRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, uploadDirEntries(t, f.store))
}

func TestUploadStorageFailureCreatesNoRecord(t *testing.T) {
	f := newFixture(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	uploads := NewUploadService(f.photoRepo, storage.NewImageStore(blocker, zap.NewNop()), nil, testAllowed, zap.NewNop())

	_, err := uploads.Upload(context.Background(), admin, UploadRequest{Filename: "a.png", Content: bytes.NewReader(pngBytes(t))})
	assert.ErrorIs(t, err, ErrStorageWrite)

	count, err := f.photoRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

type failingPhotoRepo struct {
	repositories.PhotoRepository
}

func (failingPhotoRepo) Create(context.Context, *models.Photo) (int64, error) {
	return 0, errors.New("database is locked")
}

func TestUploadRecordFailureRemovesStoredFile(t *testing.T) {
	f := newFixture(t)
	uploads := NewUploadService(failingPhotoRepo{f.photoRepo}, f.store, nil, testAllowed, zap.NewNop())

	_, err := uploads.Upload(context.Background(), admin, UploadRequest{Filename: "a.png", Content: bytes.NewReader(pngBytes(t))})
	assert.ErrorIs(t, err, ErrRecordInsert)
	assert.Empty(t, uploadDirEntries(t, f.store), "no orphaned file")
}

func TestConcurrentSameNameUploads(t *testing.T) {
	f := newFixture(t)
	const n = 8

	var wg sync.WaitGroup
	photos := make([]*models.Photo, n)
	errs := make([]error, n)
	data := pngBytes(t)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			photos[i], errs[i] = f.uploads.Upload(context.Background(), admin, UploadRequest{
				Filename: "same.png",
				Content:  bytes.NewReader(data),
			})
		}(i)
	}
	wg.Wait()

	keys := make(map[string]bool, n)
	ids := make(map[int64]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		keys[photos[i].Filename] = true
		ids[photos[i].ID] = true
	}
	assert.Len(t, keys, n)
	assert.Len(t, ids, n)
	assert.Len(t, uploadDirEntries(t, f.store), n)
}
