package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugmug/claimkit/pkg/logger"
)

func TestRotatingFile(t *testing.T) {
	t.Parallel()

	_, ok := logger.RotatingFile(logger.FileConfig{})
	assert.False(t, ok)

	path := filepath.Join(t.TempDir(), "claimd.log")
	f, ok := logger.RotatingFile(logger.FileConfig{Path: path, MaxSizeMB: 1})
	require.True(t, ok)

	var stdout bytes.Buffer
	log := logger.New(logger.WithOutput(&stdout), logger.WithTee(f))
	log.Info("claim redeemed", logger.Serial(42))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"serial_number":42`)
	assert.Equal(t, stdout.String(), string(data))
}
