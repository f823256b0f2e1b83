package data

import (
	"os"
	"sync"
	"time"

	"solar-risk/internal/model"
)

// cacheEntry holds one parsed dataset.
type cacheEntry struct {
	readings []model.Reading
	modTime  time.Time
}

// DatasetCache keeps parsed CSV datasets in memory so repeated API calls
// against the same file skip the parse. Entries are invalidated when the
// file's mtime changes.
type DatasetCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
}

func NewDatasetCache() *DatasetCache {
	return &DatasetCache{store: map[string]*cacheEntry{}}
}

// Load returns the readings for path, reading and caching the file when
// needed. Callers must not mutate the returned slice.
func (c *DatasetCache) Load(path string) ([]model.Reading, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.store[path]
	c.mu.RUnlock()
	if ok && entry.modTime.Equal(info.ModTime()) {
		return entry.readings, nil
	}

	readings, err := ReadSolarCSV(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.store[path] = &cacheEntry{readings: readings, modTime: info.ModTime()}
	c.mu.Unlock()
	return readings, nil
}

// Invalidate drops one path from the cache.
func (c *DatasetCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.store, path)
	c.mu.Unlock()
}
