// api/dataset/cache.go
package dataset

import (
	"fmt"
	"os"
	"sync"
)

// Process-wide dataset cache keyed by file identity (path + modification
// time). The parsed dataset is immutable, so concurrent readers can share it;
// a changed file on disk invalidates the entry on the next Load.

var (
	cacheMu sync.RWMutex
	cached  *Dataset
)

// Load returns the cached dataset when the file at path is unchanged,
// otherwise parses it fresh and replaces the cache entry.
func Load(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat dataset %s: %w", path, err)
	}

	cacheMu.RLock()
	if cached != nil && cached.Path == path && cached.ModTime.Equal(info.ModTime()) {
		ds := cached
		cacheMu.RUnlock()
		return ds, nil
	}
	cacheMu.RUnlock()

	ds, err := parseFile(path, info.ModTime())
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cached = ds
	cacheMu.Unlock()
	return ds, nil
}

// ResetCache drops the cached dataset. Used by tests.
func ResetCache() {
	cacheMu.Lock()
	cached = nil
	cacheMu.Unlock()
}
