package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes files below a base directory.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates baseDir if needed. URLs are baseURL joined with the
// name, or file paths when baseURL is empty.
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: empty base directory", ErrInvalidConfig)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	return &LocalStorage{baseDir: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStorage) Put(ctx context.Context, name string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Join(ErrOperationCanceled, err)
	}
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.baseDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", errors.Join(ErrFailedToWriteFile, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", errors.Join(ErrFailedToWriteFile, err)
	}
	return s.URL(clean), nil
}

func (s *LocalStorage) URL(name string) string {
	name = strings.TrimPrefix(name, "/")
	if s.baseURL == "" {
		return filepath.Join(s.baseDir, filepath.FromSlash(name))
	}
	return s.baseURL + "/" + name
}
