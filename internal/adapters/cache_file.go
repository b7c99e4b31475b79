package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"pkgforge/internal/ports"
	"pkgforge/internal/types"
)

// FileCacheAdapter is a flat JSON document keyed by definition-file
// path, written with an atomic temp-file-then-rename replace. Per
// spec.md §4.4 the cache is an optimization: any failure to load or
// save it is tolerated, never fatal.
type FileCacheAdapter struct {
	Path string

	mu      sync.Mutex
	entries map[string]types.CacheEntry
}

func NewFileCacheAdapter(path string) *FileCacheAdapter {
	return &FileCacheAdapter{Path: path, entries: map[string]types.CacheEntry{}}
}

func (a *FileCacheAdapter) Load() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(a.Path)
	if err != nil {
		// Missing cache file: start empty, not an error.
		return nil
	}
	var entries map[string]types.CacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// Corrupt cache file: start empty, not an error.
		return nil
	}
	a.entries = entries
	return nil
}

func (a *FileCacheAdapter) Get(definitionPath string, mtime int64) (types.Package, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[definitionPath]
	if !ok || entry.Mtime != mtime {
		return types.Package{}, false
	}
	return entry.Package, true
}

func (a *FileCacheAdapter) Insert(entry types.CacheEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.entries == nil {
		a.entries = map[string]types.CacheEntry{}
	}
	a.entries[entry.Path] = entry
	return nil
}

func (a *FileCacheAdapter) Prune(live map[string]bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for path := range a.entries {
		if !live[path] {
			delete(a.entries, path)
		}
	}
	return nil
}

func (a *FileCacheAdapter) Save() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := json.MarshalIndent(a.entries, "", "  ")
	if err != nil {
		return errCacheIOError(a.Path, err)
	}

	dir := filepath.Dir(a.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errCacheIOError(a.Path, err)
	}
	tmp, err := os.CreateTemp(dir, ".cache-*.tmp")
	if err != nil {
		return errCacheIOError(a.Path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errCacheIOError(a.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errCacheIOError(a.Path, err)
	}
	if err := os.Rename(tmpPath, a.Path); err != nil {
		os.Remove(tmpPath)
		return errCacheIOError(a.Path, err)
	}
	return nil
}

var _ ports.CachePort = (*FileCacheAdapter)(nil)
