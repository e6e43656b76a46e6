package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/eduspace/course-server-go/pkg/apperrors"
	"github.com/eduspace/course-server-go/pkg/config"
)

// LocalStore writes uploaded files to a directory on disk and returns the
// public path they are served under. The destination comes from configuration
// injected at construction time.
type LocalStore struct {
	dir          string
	publicPrefix string
	maxSizeBytes int64
}

// NewLocalStore creates the upload directory if needed and returns a store.
func NewLocalStore(cfg config.UploadConfig) (*LocalStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("upload directory not configured")
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	prefix := cfg.PublicPrefix
	if prefix == "" {
		prefix = "/uploads"
	}

	return &LocalStore{
		dir:          cfg.Dir,
		publicPrefix: strings.TrimSuffix(prefix, "/"),
		maxSizeBytes: cfg.MaxSizeBytes,
	}, nil
}

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// SaveUpload persists a multipart file under a random name, keeping the
// original extension, and returns the public path.
func (s *LocalStore) SaveUpload(fileHeader *multipart.FileHeader) (string, error) {
	if s.maxSizeBytes > 0 && fileHeader.Size > s.maxSizeBytes {
		return "", apperrors.New("Uploaded file is too large", http.StatusBadRequest, apperrors.ErrValidation,
			fmt.Errorf("file size %d exceeds limit of %d bytes", fileHeader.Size, s.maxSizeBytes))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + sanitizeExt(fileHeader.Filename)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.publicPrefix + "/" + name, nil
}

// Remove deletes a previously stored file given its public path. Missing
// files are not an error.
func (s *LocalStore) Remove(publicPath string) error {
	name := path.Base(publicPath)
	if name == "." || name == "/" || name == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	// Drop anything that is not a plain extension to avoid path tricks.
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
