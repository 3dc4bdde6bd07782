package mint_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugmug/claimkit/internal/mint"
	"github.com/hugmug/claimkit/pkg/claimtoken"
)

func TestCatalog_Resolve(t *testing.T) {
	t.Parallel()

	catalog := mint.NewCatalog(
		map[string]uint64{"HUGMUG": 1, " Cup ": 2},
		map[string]uint64{"Black": 10, "white": 11},
	)

	tests := []struct {
		name           string
		rec            claimtoken.ClaimRecord
		wantCollection uint64
		wantColor      uint64
		wantErr        error
	}{
		{name: "exact", rec: claimtoken.ClaimRecord{SerialNumber: 1, Color: "Black", ProductType: "HUGMUG"}, wantCollection: 1, wantColor: 10},
		{name: "case folded", rec: claimtoken.ClaimRecord{SerialNumber: 1, Color: "WHITE", ProductType: "cup"}, wantCollection: 2, wantColor: 11},
		{name: "numeric passthrough", rec: claimtoken.ClaimRecord{SerialNumber: 1, Color: "7", ProductType: "3"}, wantCollection: 3, wantColor: 7},
		{name: "unknown collection", rec: claimtoken.ClaimRecord{SerialNumber: 1, Color: "Black", ProductType: "PLATE"}, wantErr: mint.ErrUnknownCollection},
		{name: "unknown color", rec: claimtoken.ClaimRecord{SerialNumber: 1, Color: "Teal", ProductType: "HUGMUG"}, wantErr: mint.ErrUnknownColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			collection, color, err := catalog.Resolve(tt.rec)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCollection, collection)
			assert.Equal(t, tt.wantColor, color)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	catalog, err := mint.LoadCatalog(strings.NewReader("collections:\n  HUGMUG: 1\ncolors:\n  Black: 10\n  Straße: 12\n"))
	require.NoError(t, err)

	collection, color, err := catalog.Resolve(claimtoken.ClaimRecord{SerialNumber: 1, Color: "black", ProductType: "hugmug"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), collection)
	assert.Equal(t, uint64(10), color)

	_, color, err = catalog.Resolve(claimtoken.ClaimRecord{SerialNumber: 1, Color: "STRASSE", ProductType: "HUGMUG"})
	require.NoError(t, err)
	assert.Equal(t, uint64(12), color, "full case folding")

	_, err = mint.LoadCatalog(strings.NewReader("products:\n  HUGMUG: 1\n"))
	require.ErrorIs(t, err, mint.ErrInvalidConfig)

	empty, err := mint.LoadCatalog(strings.NewReader(""))
	require.NoError(t, err)
	n, c := empty.Len()
	assert.Zero(t, n)
	assert.Zero(t, c)
}

func TestCatalogFromConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collections:\n  HUGMUG: 1\n  CUP: 2\ncolors:\n  Black: 10\n"), 0o600))

	catalog, err := mint.CatalogFromConfig(mint.Config{
		CatalogFile: path,
		Collections: map[string]uint64{"cup": 5},
	})
	require.NoError(t, err)

	collection, _, err := catalog.Resolve(claimtoken.ClaimRecord{SerialNumber: 1, Color: "Black", ProductType: "CUP"})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), collection, "environment entries override the file")

	_, err = mint.CatalogFromConfig(mint.Config{CatalogFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.ErrorIs(t, err, mint.ErrInvalidConfig)
}
