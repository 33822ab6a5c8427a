package site

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/patternpress/patternpress"
)

// Ensure IndexFile implements patternpress.IndexLoader at compile time.
var _ patternpress.IndexLoader = (*IndexFile)(nil)

// IndexFile loads the pattern index artifact from the local filesystem,
// for use before the site is deployed.
type IndexFile struct {
	Path string
}

// Load reads and decodes the index artifact.
func (f *IndexFile) Load(ctx context.Context) ([]patternpress.IndexEntry, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, patternpress.Errorf(patternpress.ENOTFOUND, "pattern index %q not found; run the build first", f.Path)
	}
	if err != nil {
		return nil, err
	}

	var entries []patternpress.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, patternpress.Errorf(patternpress.EINTERNAL, "decode pattern index %q: %v", f.Path, err)
	}
	return entries, nil
}
