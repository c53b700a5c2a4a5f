package storage

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // register webp decoder
)

// MaxDecodePixels caps width*height of images the resizer will decode.
const MaxDecodePixels = 89_478_485

var (
	// ErrUnsupportedEncoding is reported for formats that can be decoded but not written back.
	ErrUnsupportedEncoding = errors.New("no encoder for image format")

	// ErrImageTooLarge is reported when the header declares more than MaxDecodePixels.
	ErrImageTooLarge = errors.New("image dimensions exceed decode limit")
)

// Resizer shrinks stored images in place so neither side exceeds the configured bounds.
type Resizer struct {
	store     *ImageStore
	maxWidth  uint
	maxHeight uint
	quality   int
	logger    *zap.Logger
}

// NewResizer creates a Resizer for images held by store.
func NewResizer(store *ImageStore, maxWidth, maxHeight, quality int, logger *zap.Logger) *Resizer {
	return &Resizer{
		store:     store,
		maxWidth:  uint(maxWidth),
		maxHeight: uint(maxHeight),
		quality:   quality,
		logger:    logger,
	}
}

// Normalize downsizes the image stored under key and re-encodes it in place.
// It never fails outward: on any error the original file is left untouched and the error is logged.
func (r *Resizer) Normalize(key string) {
	before, after, err := r.normalize(key)
	if err != nil {
		r.logger.Warn("Image normalization failed, keeping original", zap.String("key", key), zap.Error(err))
		return
	}
	r.logger.Info("Image normalized",
		zap.String("key", key),
		zap.String("original_size", fmt.Sprintf("%dx%d", before.X, before.Y)),
		zap.String("new_size", fmt.Sprintf("%dx%d", after.X, after.Y)),
	)
}

func (r *Resizer) normalize(key string) (image.Point, image.Point, error) {
	path, err := r.store.Path(key)
	if err != nil {
		return image.Point{}, image.Point{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return image.Point{}, image.Point{}, fmt.Errorf("failed to open image: %w", err)
	}
	img, format, err := decodeBounded(file)
	file.Close()
	if err != nil {
		return image.Point{}, image.Point{}, err
	}

	before := img.Bounds().Size()
	// Thumbnail keeps the aspect ratio and returns img unchanged when it already fits
	thumb := resize.Thumbnail(r.maxWidth, r.maxHeight, img, resize.Lanczos3)

	if err := r.writeInPlace(path, format, thumb); err != nil {
		return before, before, err
	}
	return before, thumb.Bounds().Size(), nil
}

// decodeBounded reads the header first so oversized images are rejected before any pixel buffer is allocated.
func decodeBounded(file io.ReadSeeker) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxDecodePixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("failed to rewind image: %w", err)
	}
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// writeInPlace encodes into a temp file next to path and renames it over the original.
func (r *Resizer) writeInPlace(path, format string, img image.Image) error {
	encode, err := r.encoderFor(format)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".resize-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	err = tmp.Chmod(0644)
	if err == nil {
		err = encode(tmp, img)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace original image: %w", err)
	}
	return nil
}

func (r *Resizer) encoderFor(format string) (func(io.Writer, image.Image) error, error) {
	switch format {
	case "jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: r.quality})
		}, nil
	case "png":
		enc := &png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode, nil
	case "gif":
		return func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, format)
	}
}
