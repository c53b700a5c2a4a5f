package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go-gallery/internal/models"
	"go-gallery/internal/repositories"
	"go.uber.org/zap"
)

const recentUploadWindow = 7 * 24 * time.Hour

// isoMicro is RFC 3339 with the fraction fixed at microseconds
const isoMicro = "2006-01-02T15:04:05.000000Z07:00"

// PhotoView is the public projection of a photo.
type PhotoView struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	Caption      string `json:"caption"`
	DateUploaded string `json:"date_uploaded"`
	IsFavorite   bool   `json:"is_favorite"`
	UploadedBy   string `json:"uploaded_by"`
	URL          string `json:"url"`
}

// PageResult is one page of the gallery listing.
type PageResult struct {
	Items   []PhotoView `json:"items"`
	Page    int         `json:"page"`
	Pages   int         `json:"pages"`
	Total   int         `json:"total"`
	PerPage int         `json:"per_page"`
	HasPrev bool        `json:"has_prev"`
	HasNext bool        `json:"has_next"`
}

// Stats summarizes the gallery for the admin dashboard.
type Stats struct {
	TotalPhotos   int `json:"total_photos"`
	Favorites     int `json:"favorites"`
	RecentUploads int `json:"recent_uploads"`
}

// GalleryService answers the read-only views of the gallery.
type GalleryService interface {
	Page(ctx context.Context, page int) (*PageResult, error)
	All(ctx context.Context) ([]PhotoView, error)
	Favorites(ctx context.Context) ([]PhotoView, error)
	Search(ctx context.Context, query string) ([]PhotoView, error)
	Feed(ctx context.Context) ([]PhotoView, error)
	Stats(ctx context.Context) (*Stats, error)
	ActivityFeed(ctx context.Context, limit int) ([]models.LogEntry, error)
	View(photo *models.Photo) PhotoView
	URLFor(filename string) string
}

type galleryServiceImpl struct {
	photoRepo repositories.PhotoRepository
	logRepo   repositories.LogRepository
	pageSize  int
	urlPrefix string
	logger    *zap.Logger
}

// NewGalleryService creates a GalleryService. urlPrefix is where stored images are served from.
func NewGalleryService(photoRepo repositories.PhotoRepository, logRepo repositories.LogRepository, pageSize int, urlPrefix string, logger *zap.Logger) GalleryService {
	if pageSize < 1 {
		pageSize = 12
	}
	return &galleryServiceImpl{
		photoRepo: photoRepo,
		logRepo:   logRepo,
		pageSize:  pageSize,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger,
	}
}

func (s *galleryServiceImpl) View(photo *models.Photo) PhotoView {
	return PhotoView{
		ID:           photo.ID,
		Filename:     photo.Filename,
		Caption:      photo.Caption,
		DateUploaded: photo.DateUploaded.UTC().Format(isoMicro),
		IsFavorite:   photo.IsFavorite,
		UploadedBy:   photo.UploadedBy,
		URL:          s.URLFor(photo.Filename),
	}
}

// URLFor is where the stored image filename is served from
func (s *galleryServiceImpl) URLFor(filename string) string {
	return s.urlPrefix + "/" + url.PathEscape(filename)
}

func (s *galleryServiceImpl) views(photos []*models.Photo) []PhotoView {
	out := make([]PhotoView, 0, len(photos))
	for _, photo := range photos {
		out = append(out, s.View(photo))
	}
	return out
}

// Page returns one page of the listing, newest first. Pages below 1 are treated as 1.
func (s *galleryServiceImpl) Page(ctx context.Context, page int) (*PageResult, error) {
	if page < 1 {
		page = 1
	}
	photos, total, err := s.photoRepo.ListByRecency(ctx, page, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("could not list photos: %w", err)
	}
	pages := (total + s.pageSize - 1) / s.pageSize
	return &PageResult{
		Items:   s.views(photos),
		Page:    page,
		Pages:   pages,
		Total:   total,
		PerPage: s.pageSize,
		HasPrev: page > 1,
		HasNext: page < pages,
	}, nil
}

func (s *galleryServiceImpl) All(ctx context.Context) ([]PhotoView, error) {
	photos, err := s.photoRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list photos: %w", err)
	}
	return s.views(photos), nil
}

func (s *galleryServiceImpl) Favorites(ctx context.Context) ([]PhotoView, error) {
	photos, err := s.photoRepo.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list favorites: %w", err)
	}
	return s.views(photos), nil
}

// Search matches caption substrings case-sensitively. An empty query matches nothing.
func (s *galleryServiceImpl) Search(ctx context.Context, query string) ([]PhotoView, error) {
	if query == "" {
		return []PhotoView{}, nil
	}
	photos, err := s.photoRepo.SearchByCaption(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not search photos: %w", err)
	}
	s.logger.Debug("Caption search", zap.String("query", query), zap.Int("results", len(photos)))
	return s.views(photos), nil
}

// Feed is the unpaginated listing served by the JSON API.
func (s *galleryServiceImpl) Feed(ctx context.Context) ([]PhotoView, error) {
	return s.All(ctx)
}

func (s *galleryServiceImpl) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.photoRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not count photos: %w", err)
	}
	favorites, err := s.photoRepo.CountFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not count favorites: %w", err)
	}
	recent, err := s.photoRepo.CountSince(ctx, recentUploadWindow)
	if err != nil {
		return nil, fmt.Errorf("could not count recent uploads: %w", err)
	}
	return &Stats{TotalPhotos: total, Favorites: favorites, RecentUploads: recent}, nil
}

func (s *galleryServiceImpl) ActivityFeed(ctx context.Context, limit int) ([]models.LogEntry, error) {
	if s.logRepo == nil || limit < 1 {
		return []models.LogEntry{}, nil
	}
	entries, err := s.logRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("could not load activity log: %w", err)
	}
	return entries, nil
}
