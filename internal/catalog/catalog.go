package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mvhq/frameview/internal/model"
)

// ErrMiss reports a video id without catalog metadata. Widgets that depend
// on the catalog degrade to a "not found" alert on this error.
var ErrMiss = errors.New("video not found in catalog")

// Catalog maps video ids to static metadata. It is loaded once at startup
// and read-only afterwards. A nil Catalog always misses.
type Catalog map[string]model.VideoMeta

// Load reads the catalog JSON document from disk. Failures are for the
// caller to log; the application stays usable without a catalog.
func Load(path string) (Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return c, nil
}

// Lookup resolves a video id to its metadata.
func (c Catalog) Lookup(id string) (model.VideoMeta, error) {
	meta, ok := c[id]
	if !ok {
		return model.VideoMeta{}, fmt.Errorf("%w: %s", ErrMiss, id)
	}
	return meta, nil
}
