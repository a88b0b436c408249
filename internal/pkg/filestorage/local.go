package filestorage

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the accepted picture formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/skosana/student-portal/internal/pkg/apperrors"
	"github.com/skosana/student-portal/internal/pkg/logger"
)

// MaxPictureBytes is the upload size limit for profile pictures.
const MaxPictureBytes = 2_000_000

// DefaultPicture is rendered when a user has no picture or the stored file
// is missing.
const DefaultPicture = "default.png"

// allowedExtensions are the accepted picture file extensions.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// LocalStorage saves profile pictures to the local filesystem.
type LocalStorage struct {
	basePath string // Root directory where pictures are stored
	baseURL  string // URL prefix under which stored files are served
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory if needed. baseURL is the public prefix for stored paths,
// typically "uploads".
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	if baseURL == "" {
		baseURL = "uploads"
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.Trim(baseURL, "/"),
	}, nil
}

// SavePicture validates and stores an uploaded profile picture. The stored
// filename is namespaced by user ID so uploads from different users cannot
// collide. Returns the path to record on the user row. Every validation
// check runs, so the returned error carries all of the failed checks and
// matches each rejection sentinel via errors.Is.
func (ls *LocalStorage) SavePicture(userID int64, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", apperrors.ErrNotAnImage
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	var rejections []error

	// A decode check catches renamed non-image files that a bare
	// extension check would let through.
	if _, _, err := image.DecodeConfig(file); err != nil {
		rejections = append(rejections, apperrors.ErrNotAnImage)
	}
	if fileHeader.Size > MaxPictureBytes {
		rejections = append(rejections, apperrors.ErrFileTooLarge)
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		rejections = append(rejections, apperrors.ErrBadFileType)
	}
	if len(rejections) > 0 {
		return "", errors.Join(rejections...)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	filename := fmt.Sprintf("%d_%s", userID, filepath.Base(fileHeader.Filename))
	dstPath := filepath.Join(ls.basePath, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	storedPath := ls.baseURL + "/" + filename
	logger.Info().
		Int64("userID", userID).
		Str("filename", fileHeader.Filename).
		Str("storedPath", storedPath).
		Msg("Profile picture saved")

	return storedPath, nil
}

// ResolvePicture maps a stored picture path to the path a client should
// render, falling back to the default image when the path is unset or the
// file no longer exists on disk.
func (ls *LocalStorage) ResolvePicture(storedPath *string) string {
	fallback := ls.baseURL + "/" + DefaultPicture
	if storedPath == nil || *storedPath == "" {
		return fallback
	}

	physical := filepath.Join(ls.basePath, filepath.Base(*storedPath))
	if _, err := os.Stat(physical); err != nil {
		return fallback
	}

	return *storedPath
}

// BasePath returns the filesystem root where pictures are stored.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}
