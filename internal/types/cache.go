package types

// CacheEntry is one row of the on-disk mtime-keyed package cache,
// keyed externally by absolute, normalized definition-file path.
type CacheEntry struct {
	Path    string  `json:"path"`
	Mtime   int64   `json:"mtime"`
	Package Package `json:"package"`
}
