package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-gallery/internal/database"
	"go-gallery/internal/models"
	"go.uber.org/zap"
)

// ErrPhotoNotFound is returned by mutations addressing a photo id that does not exist.
var ErrPhotoNotFound = errors.New("photo not found")

const photoColumns = `id, filename, caption, date_uploaded, is_favorite, uploaded_by`

// newest first; id breaks ties between uploads sharing a timestamp
const newestFirst = ` ORDER BY date_uploaded DESC, id DESC`

// PhotoRepository defines the interface for photo data operations
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) (int64, error) // Returns the new photo ID
	FindByID(ctx context.Context, id int64) (*models.Photo, error)
	Update(ctx context.Context, photo *models.Photo) error // Caption and favorite flag only
	Delete(ctx context.Context, id int64) (bool, error)
	ToggleFavorite(ctx context.Context, id int64) (bool, error) // Returns the new flag

	ListByRecency(ctx context.Context, page, pageSize int) ([]*models.Photo, int, error)
	ListAll(ctx context.Context) ([]*models.Photo, error)
	ListFavorites(ctx context.Context) ([]*models.Photo, error)
	SearchByCaption(ctx context.Context, substring string) ([]*models.Photo, error)

	Count(ctx context.Context) (int, error)
	CountFavorites(ctx context.Context) (int, error)
	CountSince(ctx context.Context, window time.Duration) (int, error)
}

type sqlPhotoRepository struct {
	db     *database.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewPhotoRepository creates a PhotoRepository for whichever dialect db was opened with
func NewPhotoRepository(db *database.DB, logger *zap.Logger) PhotoRepository {
	return &sqlPhotoRepository{db: db, logger: logger, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*models.Photo, error) {
	photo := &models.Photo{}
	var caption sql.NullString // Oracle stores '' as NULL
	var favorite int64
	if err := row.Scan(&photo.ID, &photo.Filename, &caption, &photo.DateUploaded, &favorite, &photo.UploadedBy); err != nil {
		return nil, err
	}
	photo.Caption = caption.String
	photo.IsFavorite = favorite != 0
	photo.DateUploaded = photo.DateUploaded.UTC()
	return photo, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Create inserts a new photo record, filling in its ID
func (r *sqlPhotoRepository) Create(ctx context.Context, photo *models.Photo) (int64, error) {
	query := `INSERT INTO photos (filename, caption, date_uploaded, is_favorite, uploaded_by) VALUES (?, ?, ?, ?, ?)`
	caption := sql.NullString{String: photo.Caption, Valid: photo.Caption != ""}

	r.logger.Debug("Executing Create photo query", zap.String("filename", photo.Filename))

	newID, err := r.db.Dialect.InsertReturningID(ctx, r.db, query,
		photo.Filename,
		caption,
		photo.DateUploaded.UTC(),
		boolToInt(photo.IsFavorite),
		photo.UploadedBy,
	)
	if err != nil {
		r.logger.Error("Error creating photo", zap.String("filename", photo.Filename), zap.Error(err))
		return 0, fmt.Errorf("error creating photo %s: %w", photo.Filename, err)
	}

	photo.ID = newID
	r.logger.Info("Photo record created", zap.Int64("photoID", newID), zap.String("filename", photo.Filename))
	return newID, nil
}

// FindByID retrieves a photo by id; a missing photo yields nil, nil
func (r *sqlPhotoRepository) FindByID(ctx context.Context, id int64) (*models.Photo, error) {
	query := r.db.Dialect.Rebind(`SELECT ` + photoColumns + ` FROM photos WHERE id = ?`)

	photo, err := scanPhoto(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug("Photo not found by ID", zap.Int64("id", id))
			return nil, nil
		}
		r.logger.Error("Error querying photo by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("error finding photo by ID %d: %w", id, err)
	}
	return photo, nil
}

// Update writes the mutable fields (caption, favorite) of an existing photo
func (r *sqlPhotoRepository) Update(ctx context.Context, photo *models.Photo) error {
	query := r.db.Dialect.Rebind(`UPDATE photos SET caption = ?, is_favorite = ? WHERE id = ?`)
	caption := sql.NullString{String: photo.Caption, Valid: photo.Caption != ""}

	res, err := r.db.ExecContext(ctx, query, caption, boolToInt(photo.IsFavorite), photo.ID)
	if err != nil {
		r.logger.Error("Error updating photo", zap.Int64("id", photo.ID), zap.Error(err))
		return fmt.Errorf("error updating photo %d: %w", photo.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPhotoNotFound
	}
	return nil
}

// Delete removes the photo record, reporting whether a row existed
func (r *sqlPhotoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := r.db.Dialect.Rebind(`DELETE FROM photos WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Error deleting photo", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("error deleting photo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows for photo %d: %w", id, err)
	}
	return n > 0, nil
}

// ToggleFavorite flips the favorite flag and reads it back inside one transaction
func (r *sqlPhotoRepository) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	var favorite int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.db.Dialect.Rebind(`UPDATE photos SET is_favorite = 1 - is_favorite WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("error toggling favorite for photo %d: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrPhotoNotFound
		}
		return tx.QueryRowContext(ctx, r.db.Dialect.Rebind(`SELECT is_favorite FROM photos WHERE id = ?`), id).Scan(&favorite)
	})
	if err != nil {
		if !errors.Is(err, ErrPhotoNotFound) {
			r.logger.Error("Error toggling favorite", zap.Int64("id", id), zap.Error(err))
		}
		return false, err
	}
	return favorite != 0, nil
}

// ListByRecency returns one page (1-indexed) of photos, newest first, plus the total count.
// Pages past the end yield an empty slice.
func (r *sqlPhotoRepository) ListByRecency(ctx context.Context, page, pageSize int) ([]*models.Photo, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return nil, 0, fmt.Errorf("invalid page size %d", pageSize)
	}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	// compare page counts before multiplying so huge pages cannot overflow into a negative offset
	if page-1 >= (total+pageSize-1)/pageSize {
		return []*models.Photo{}, total, nil
	}
	offset := (page - 1) * pageSize

	clause, args := r.db.Dialect.Paginate(pageSize, offset)
	photos, err := r.query(ctx, `SELECT `+photoColumns+` FROM photos`+newestFirst+clause, args...)
	if err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}

// ListAll returns every photo, newest first
func (r *sqlPhotoRepository) ListAll(ctx context.Context) ([]*models.Photo, error) {
	return r.query(ctx, `SELECT `+photoColumns+` FROM photos`+newestFirst)
}

// ListFavorites returns every favorite photo, newest first
func (r *sqlPhotoRepository) ListFavorites(ctx context.Context) ([]*models.Photo, error) {
	return r.query(ctx, `SELECT `+photoColumns+` FROM photos WHERE is_favorite = 1`+newestFirst)
}

// SearchByCaption matches captions containing substring exactly (no case folding)
func (r *sqlPhotoRepository) SearchByCaption(ctx context.Context, substring string) ([]*models.Photo, error) {
	return r.query(ctx, `SELECT `+photoColumns+` FROM photos WHERE INSTR(caption, ?) > 0`+newestFirst, substring)
}

func (r *sqlPhotoRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM photos`)
}

func (r *sqlPhotoRepository) CountFavorites(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM photos WHERE is_favorite = 1`)
}

// CountSince counts photos uploaded within the trailing window
func (r *sqlPhotoRepository) CountSince(ctx context.Context, window time.Duration) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM photos WHERE date_uploaded >= ?`, r.now().UTC().Add(-window))
}

func (r *sqlPhotoRepository) query(ctx context.Context, query string, args ...any) ([]*models.Photo, error) {
	query = r.db.Dialect.Rebind(query)
	r.logger.Debug("Executing photo list query", zap.String("query", query))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error querying photos", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("error querying photos: %w", err)
	}
	defer rows.Close()

	photos := make([]*models.Photo, 0)
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	return photos, nil
}

func (r *sqlPhotoRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, r.db.Dialect.Rebind(query), args...).Scan(&n); err != nil {
		r.logger.Error("Error counting photos", zap.String("query", query), zap.Error(err))
		return 0, fmt.Errorf("error counting photos: %w", err)
	}
	return n, nil
}
