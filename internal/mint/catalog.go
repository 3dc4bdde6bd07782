package mint

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/hugmug/claimkit/pkg/claimtoken"
)

// Catalog maps the text identifiers carried by claim tokens to the numeric
// ids the contract stores.
type Catalog struct {
	collections map[string]uint64
	colors      map[string]uint64
}

// NewCatalog builds a catalog whose names match case-insensitively.
func NewCatalog(collections, colors map[string]uint64) Catalog {
	return Catalog{collections: fold(collections), colors: fold(colors)}
}

type catalogFile struct {
	Collections map[string]uint64 `yaml:"collections"`
	Colors      map[string]uint64 `yaml:"colors"`
}

// LoadCatalog reads a YAML document of the form
//
//	collections:
//	  HUGMUG: 1
//	colors:
//	  Black: 1
func LoadCatalog(r io.Reader) (Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, errors.Join(ErrInvalidConfig, fmt.Errorf("catalog: %w", err))
	}
	return NewCatalog(f.Collections, f.Colors), nil
}

// CatalogFromConfig loads cfg.CatalogFile, if set, and overlays the
// MINT_COLLECTIONS and MINT_COLORS entries on top of it.
func CatalogFromConfig(cfg Config) (Catalog, error) {
	collections := map[string]uint64{}
	colors := map[string]uint64{}

	if cfg.CatalogFile != "" {
		f, err := os.Open(cfg.CatalogFile)
		if err != nil {
			return Catalog{}, errors.Join(ErrInvalidConfig, err)
		}
		defer f.Close()
		fromFile, err := LoadCatalog(f)
		if err != nil {
			return Catalog{}, err
		}
		maps.Copy(collections, fromFile.collections)
		maps.Copy(colors, fromFile.colors)
	}
	maps.Copy(collections, fold(cfg.Collections))
	maps.Copy(colors, fold(cfg.Colors))

	return Catalog{collections: collections, colors: colors}, nil
}

func fold(m map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(m))
	for k, v := range m {
		out[foldName(k)] = v
	}
	return out
}

// foldName normalizes a name for lookup. Casers hold state, so each call
// gets its own.
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Resolve returns the contract ids for a record. Names that are already
// decimal numbers pass through unchanged.
func (c Catalog) Resolve(rec claimtoken.ClaimRecord) (collection, color uint64, err error) {
	collection, ok := lookup(c.collections, rec.ProductType)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownCollection, rec.ProductType)
	}
	color, ok = lookup(c.colors, rec.Color)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownColor, rec.Color)
	}
	return collection, color, nil
}

// Len reports how many collections and colors are mapped.
func (c Catalog) Len() (collections, colors int) {
	return len(c.collections), len(c.colors)
}

func lookup(m map[string]uint64, name string) (uint64, bool) {
	if id, ok := m[foldName(name)]; ok {
		return id, true
	}
	if id, err := strconv.ParseUint(name, 10, 64); err == nil {
		return id, true
	}
	return 0, false
}
