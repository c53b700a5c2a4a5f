package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrNotFound     = errors.New("image not found")
	ErrInvalidKey   = errors.New("invalid storage key")
	ErrStorageWrite = errors.New("failed to write image")
)

// keyTimeLayout matches the %Y%m%d_%H%M%S_%f layout of existing upload folders
const keyTimeLayout = "20060102_150405_000000"

// ImageStore keeps uploaded images in one flat directory addressed by storage key.
type ImageStore struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	last time.Time // last timestamp handed out, keeps keys strictly increasing
}

// NewImageStore creates a store rooted at dir. The directory is created lazily on first Store.
func NewImageStore(dir string, logger *zap.Logger) *ImageStore {
	return &ImageStore{dir: dir, logger: logger, now: time.Now}
}

// Dir returns the absolute directory if it can be resolved.
func (s *ImageStore) Dir() string {
	if abs, err := filepath.Abs(s.dir); err == nil {
		return abs
	}
	return s.dir
}

// DirExists reports whether the store directory has been created.
func (s *ImageStore) DirExists() bool {
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

// Store writes r under a fresh key derived from the current time and originalName.
func (s *ImageStore) Store(r io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.logger.Error("Failed to ensure upload directory exists", zap.String("path", s.dir), zap.Error(err))
		return "", fmt.Errorf("%w: creating %s: %v", ErrStorageWrite, s.dir, err)
	}

	name := SanitizeFilename(originalName)
	var (
		key  string
		file *os.File
		err  error
	)
	// O_EXCL guards against another process writing into the same folder
	for attempt := 0; attempt < 5; attempt++ {
		key = s.nextStamp().Format(keyTimeLayout) + "_" + name
		file, err = os.OpenFile(filepath.Join(s.dir, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil || !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		s.logger.Error("Failed to create image file", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	written, err := io.Copy(file, r)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(file.Name())
		s.logger.Error("Failed to write image file", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	s.logger.Info("Stored image", zap.String("original_filename", originalName), zap.String("key", key), zap.Int64("bytes", written))
	return key, nil
}

// nextStamp returns the current time at microsecond precision, bumped past the last stamp issued.
func (s *ImageStore) nextStamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now().Truncate(time.Microsecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// Remove deletes the image; a missing key reports false without error.
func (s *ImageStore) Remove(key string) (bool, error) {
	path, err := s.Path(key)
	if err != nil {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove image %s: %w", key, err)
	}
	s.logger.Info("Removed image", zap.String("key", key))
	return true, nil
}

// Exists reports whether a regular file is stored under key.
func (s *ImageStore) Exists(key string) bool {
	_, err := s.Stat(key)
	return err == nil
}

// Stat returns the stored size of key.
func (s *ImageStore) Stat(key string) (int64, error) {
	path, err := s.Path(key)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, ErrNotFound
	}
	return info.Size(), nil
}

// Read returns the stored bytes or ErrNotFound.
func (s *ImageStore) Read(key string) ([]byte, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read image %s: %w", key, err)
	}
	return data, nil
}

// Path resolves key inside the store directory, rejecting anything that could escape it.
func (s *ImageStore) Path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.Contains(key, "\x00") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, key), nil
}

// SanitizeFilename reduces an uploaded filename to a safe ASCII name.
// Path separators become spaces, whitespace runs become '_', and anything outside
// [A-Za-z0-9_.-] is dropped. When nothing useful survives, "upload.<ext>" is used.
func SanitizeFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))

	var ascii strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < unicode.MaxASCII {
			ascii.WriteRune(r)
		}
	}
	cleaned := strings.NewReplacer("/", " ", `\`, " ").Replace(ascii.String())
	cleaned = strings.Join(strings.Fields(cleaned), "_")

	var b strings.Builder
	for _, r := range cleaned {
		if r == '_' || r == '.' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	result := strings.Trim(b.String(), "._")

	if result == "" || !strings.HasSuffix(strings.ToLower(result), ext) {
		return "upload" + ext
	}
	return result
}
