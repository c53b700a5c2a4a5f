package repositories

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-gallery/internal/database/dbtest"
	"go-gallery/internal/models"
	"go.uber.org/zap"
)

func newPhotoRepo(t *testing.T) *sqlPhotoRepository {
	t.Helper()
	return NewPhotoRepository(dbtest.Open(t), zap.NewNop()).(*sqlPhotoRepository)
}

// seedPhotos inserts n photos one minute apart; photo i is "caption i" and the newest is last.
func seedPhotos(t *testing.T, repo PhotoRepository, n int) []*models.Photo {
	t.Helper()
	base := time.Now().UTC().Add(-time.Duration(n) * time.Minute)
	photos := make([]*models.Photo, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Photo{
			Filename:     fmt.Sprintf("20240101_000000_%06d_img%d.jpg", i, i),
			Caption:      fmt.Sprintf("caption %d", i),
			DateUploaded: base.Add(time.Duration(i) * time.Minute),
			UploadedBy:   "admin",
		}
		_, err := repo.Create(context.Background(), p)
		require.NoError(t, err)
		photos = append(photos, p)
	}
	return photos
}

func TestPhotoCreateAndFind(t *testing.T) {
	repo := newPhotoRepo(t)
	ctx := context.Background()
	uploaded := time.Date(2024, 5, 1, 10, 30, 0, 123000, time.UTC)

	photo := &models.Photo{Filename: "a.jpg", Caption: "Sunset walks", DateUploaded: uploaded, UploadedBy: "admin"}
	id, err := repo.Create(ctx, photo)
	require.NoError(t, err)
	assert.Equal(t, id, photo.ID)
	assert.NotZero(t, id)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a.jpg", got.Filename)
	assert.Equal(t, "Sunset walks", got.Caption)
	assert.Equal(t, "admin", got.UploadedBy)
	assert.False(t, got.IsFavorite)
	assert.True(t, uploaded.Equal(got.DateUploaded))

	missing, err := repo.FindByID(ctx, id+100)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPhotoIDsAreMonotonic(t *testing.T) {
	repo := newPhotoRepo(t)
	photos := seedPhotos(t, repo, 3)
	assert.Less(t, photos[0].ID, photos[1].ID)
	assert.Less(t, photos[1].ID, photos[2].ID)
}

func TestPhotoEmptyCaptionRoundTrip(t *testing.T) {
	repo := newPhotoRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &models.Photo{Filename: "b.png", DateUploaded: time.Now(), UploadedBy: "admin"})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "", got.Caption)
}

func TestListByRecencyPagination(t *testing.T) {
	repo := newPhotoRepo(t)
	ctx := context.Background()
	photos := seedPhotos(t, repo, 15)

	page1, total, err := repo.ListByRecency(ctx, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	require.Len(t, page1, 12)
	assert.Equal(t, photos[14].ID, page1[0].ID, "newest first")
	assert.Equal(t, photos[3].ID, page1[11].ID)

	page2, _, err := repo.ListByRecency(ctx, 2, 12)
	require.NoError(t, err)
	require.Len(t, page2, 3)
	assert.Equal(t, photos[2].ID, page2[0].ID)
	assert.Equal(t, photos[0].ID, page2[2].ID)

	page3, _, err := repo.ListByRecency(ctx, 3, 12)
	require.NoError(t, err)
	assert.Empty(t, page3)
	assert.NotNil(t, page3)
}

func TestListByRecencyHugePageIsEmpty(t *testing.T) {
	repo := newPhotoRepo(t)
	ctx := context.Background()
	seedPhotos(t, repo, 15)

	for _, page := range []int{math.MaxInt, math.MaxInt / 12, math.MaxInt/12 + 1} {
		items, total, err := repo.ListByRecency(ctx, page, 12)
		require.NoError(t, err)
		assert.Equal(t, 15, total)
		assert.Empty(t, items, "page %d", page)
	}
}

func TestListByRecencyTieBreaksOnID(t *testing.T) {
	repo := newPhotoRepo(t)
	ctx := context.Background()
	same := time.Now().UTC()
	first := &models.Photo{Filename: "1.jpg", DateUploaded: same, UploadedBy: "admin"}
	second := &models.Photo{Filename: "2.jpg", DateUploaded: same, UploadedBy: "admin"}
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
}

func TestFavoritesAndToggle(t *testing.T) {
	repo := newPhotoRepo(t)
	ctx := context.Background()
	photos := seedPhotos(t, repo, 3)

	favs, err := repo.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)

	on, err := repo.ToggleFavorite(ctx, photos[1].ID)
	require.NoError(t, err)
	assert.True(t, on)

	favs, err = repo.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, photos[1].ID, favs[0].ID)

	off, err := repo.ToggleFavorite(ctx, photos[1].ID)
	require.NoError(t, err)
	assert.False(t, off)

	after, err := repo.FindByID(ctx, photos[1].ID)
	require.NoError(t, err)
	assert.Equal(t, photos[1].Caption, after.Caption)
	assert.Equal(t, photos[1].Filename, after.Filename)
	assert.True(t, photos[1].DateUploaded.Equal(after.DateUploaded))

	_, err = repo.ToggleFavorite(ctx, 9999)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestSearchByCaptionIsCaseSensitive(t *testing.T) {
	repo := newPhotoRepo(t)
	ctx := context.Background()
	for i, caption := range []string{"Beach day", "Mountain hike", "beach bonfire", ""} {
		_, err := repo.Create(ctx, &models.Photo{
			Filename:     fmt.Sprintf("%d.jpg", i),
			Caption:      caption,
			DateUploaded: time.Now().UTC().Add(time.Duration(i) * time.Second),
			UploadedBy:   "admin",
		})
		require.NoError(t, err)
	}

	hits, err := repo.SearchByCaption(ctx, "Mountain")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Mountain hike", hits[0].Caption)

	hits, err = repo.SearchByCaption(ctx, "Beach")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Beach day", hits[0].Caption)

	hits, err = repo.SearchByCaption(ctx, "each")
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = repo.SearchByCaption(ctx, "volcano")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestUpdateAndDelete(t *testing.T) {
	repo := newPhotoRepo(t)
	ctx := context.Background()
	photo := seedPhotos(t, repo, 1)[0]

	photo.Caption = "edited"
	photo.IsFavorite = true
	require.NoError(t, repo.Update(ctx, photo))

	got, err := repo.FindByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Caption)
	assert.True(t, got.IsFavorite)

	deleted, err := repo.Delete(ctx, photo.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, photo.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.ErrorIs(t, repo.Update(ctx, photo), ErrPhotoNotFound)
}

func TestCounts(t *testing.T) {
	repo := newPhotoRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for i, age := range []time.Duration{time.Hour, 3 * 24 * time.Hour, 10 * 24 * time.Hour} {
		_, err := repo.Create(ctx, &models.Photo{
			Filename:     fmt.Sprintf("%d.jpg", i),
			DateUploaded: now.Add(-age),
			IsFavorite:   i == 0,
			UploadedBy:   "admin",
		})
		require.NoError(t, err)
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	favs, err := repo.CountFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, favs)

	recent, err := repo.CountSince(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, recent)
}
