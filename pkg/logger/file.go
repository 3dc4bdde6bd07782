package logger

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig describes an optional size-rotated log file.
type FileConfig struct {
	Path       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"28"`
	Compress   bool   `env:"LOG_FILE_COMPRESS" envDefault:"true"`
}

// RotatingFile opens the writer described by cfg. ok is false when no path
// is configured.
func RotatingFile(cfg FileConfig) (w io.WriteCloser, ok bool) {
	if cfg.Path == "" {
		return nil, false
	}
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}, true
}

// WithTee writes records to w as well as to the configured output.
func WithTee(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = io.MultiWriter(c.output, w)
		}
	}
}
