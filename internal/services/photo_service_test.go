package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditKeepsImmutableFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	original := f.upload(t, "a.png", "old")

	edited, err := f.photos.Edit(ctx, admin, original.ID, "new caption", true)
	require.NoError(t, err)
	assert.Equal(t, "new caption", edited.Caption)
	assert.True(t, edited.IsFavorite)

	reloaded, err := f.photos.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "new caption", reloaded.Caption)
	assert.True(t, reloaded.IsFavorite)
	assert.Equal(t, original.Filename, reloaded.Filename)
	assert.Equal(t, original.UploadedBy, reloaded.UploadedBy)
	assert.True(t, original.DateUploaded.Equal(reloaded.DateUploaded))

	_, err = f.photos.Edit(ctx, admin, 9999, "x", false)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestToggleFavoriteTwiceRestores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := f.upload(t, "a.png", "")

	favorite, err := f.photos.ToggleFavorite(ctx, admin, photo.ID)
	require.NoError(t, err)
	assert.True(t, favorite)

	favorite, err = f.photos.ToggleFavorite(ctx, admin, photo.ID)
	require.NoError(t, err)
	assert.False(t, favorite)

	_, err = f.photos.ToggleFavorite(ctx, admin, 9999)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestDeleteRemovesRecordAndFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := f.upload(t, "a.png", "bye")

	deleted, err := f.photos.Delete(ctx, admin, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, photo.Filename, deleted.Filename)
	assert.False(t, f.store.Exists(photo.Filename))

	_, err = f.photos.Get(ctx, photo.ID)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
	_, err = f.photos.Delete(ctx, admin, photo.ID)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestDeleteToleratesMissingFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := f.upload(t, "a.png", "")
	_, err := f.store.Remove(photo.Filename)
	require.NoError(t, err)

	_, err = f.photos.Delete(ctx, admin, photo.ID)
	require.NoError(t, err)

	count, err := f.photoRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFileReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kept := f.upload(t, "kept.png", "")
	lost := f.upload(t, "lost.png", "")
	_, err := f.store.Remove(lost.Filename)
	require.NoError(t, err)

	report, err := f.photos.FileReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.store.Dir(), report.UploadFolder)
	assert.True(t, report.UploadFolderExists)
	assert.Equal(t, 2, report.PhotosCount)
	assert.Equal(t, 1, report.FilesExist)
	require.Len(t, report.Files, 2)

	byID := map[int64]FileStatus{}
	for _, s := range report.Files {
		byID[s.ID] = s
	}
	assert.True(t, byID[kept.ID].Exists)
	assert.Positive(t, byID[kept.ID].Size)
	assert.False(t, byID[lost.ID].Exists)
}
