package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oguzk/schoolatlas/internal/pkg/logger"
)

const (
	// photosSubdir is the subdirectory of the storage root holding uploads.
	photosSubdir = "photos"

	// DefaultPhotoPath is served for students that never uploaded a photo.
	DefaultPhotoPath = "/static/avatar/default_avatar.png"
)

// LocalStorage stores uploaded photos on the local filesystem.
type LocalStorage struct {
	basePath string // root directory for stored files
	baseURL  string // URL prefix under which basePath is served
}

// NewLocalStorage creates a LocalStorage rooted at basePath. The photos
// subdirectory is created up front so a missing directory never fails an
// upload later.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	photoDir := filepath.Join(basePath, photosSubdir)
	if err := os.MkdirAll(photoDir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", photoDir).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", photoDir, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SavePhoto writes the uploaded file to <base>/photos/<ownerID>_<filename>
// and returns the public path. The stored name is derived from the owner and
// the original filename, so re-uploading the same filename overwrites the
// previous bytes (last write wins). A partially written file is removed.
func (ls *LocalStorage) SavePhoto(ownerID int64, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil // no file uploaded
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	storedName := fmt.Sprintf("%d_%s", ownerID, sanitizeFilename(fileHeader.Filename))
	dstPath := filepath.Join(ls.basePath, photosSubdir, storedName)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	publicPath := ls.baseURL + "/" + photosSubdir + "/" + storedName
	logger.Info().Str("filename", fileHeader.Filename).Str("stored_as", publicPath).Msg("Photo saved")
	return publicPath, nil
}

// DeletePhoto removes a stored photo given its public path. Paths outside
// the managed photos directory (including the default placeholder) and
// missing files are ignored.
func (ls *LocalStorage) DeletePhoto(storedPath string) error {
	if storedPath == "" || storedPath == DefaultPhotoPath {
		return nil
	}

	prefix := ls.baseURL + "/" + photosSubdir + "/"
	if !strings.HasPrefix(storedPath, prefix) {
		return nil // not managed by this storage
	}

	filename := path.Base(storedPath)
	if filename == "" || filename == "." || filename == "/" {
		return fmt.Errorf("invalid file path: %s", storedPath)
	}

	physicalPath := filepath.Join(ls.basePath, photosSubdir, filename)

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil // idempotent delete
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// ResolveDisplayPath returns the stored path, or the default avatar when the
// student has no photo.
func (ls *LocalStorage) ResolveDisplayPath(storedPath string) string {
	if storedPath == "" {
		return DefaultPhotoPath
	}
	return storedPath
}

// sanitizeFilename strips any directory components from an uploaded
// filename so the stored path stays inside the photos directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.Clean(name))
	if name == "." || name == string(filepath.Separator) {
		return "photo"
	}
	return strings.ReplaceAll(name, string(filepath.Separator), "_")
}
