package file

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Storage writes named blobs and reports where they can be fetched.
type Storage interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (url string, err error)
	URL(name string) string
}

// Config selects and configures a Storage from the environment. An empty
// S3Bucket means local storage under LocalDir.
type Config struct {
	LocalDir     string `env:"STICKER_DIR" envDefault:"stickers"`
	LocalBaseURL string `env:"STICKER_BASE_URL"`
	S3Bucket     string `env:"STICKER_S3_BUCKET"`
	S3Region     string `env:"STICKER_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint   string `env:"STICKER_S3_ENDPOINT"`
	S3PathStyle  bool   `env:"STICKER_S3_PATH_STYLE"`
	S3PublicURL  string `env:"STICKER_S3_PUBLIC_URL"`
}

// New returns the Storage described by cfg.
func New(ctx context.Context, cfg Config) (Storage, error) {
	if cfg.S3Bucket == "" {
		return NewLocalStorage(cfg.LocalDir, cfg.LocalBaseURL)
	}
	return NewS3Storage(ctx, S3Config{
		Bucket:         cfg.S3Bucket,
		Region:         cfg.S3Region,
		Endpoint:       cfg.S3Endpoint,
		BaseURL:        cfg.S3PublicURL,
		ForcePathStyle: cfg.S3PathStyle,
	})
}

// cleanName rejects absolute and escaping names and returns a slash-separated
// relative path.
func cleanName(name string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(name))[1:]
	if clean == "" || clean != strings.TrimPrefix(name, "/") || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return clean, nil
}
