package ports

import "pkgforge/internal/types"

// CachePort persists mtime-keyed Package records across scans so a
// definition file only needs to be re-executed when it changes on
// disk.
type CachePort interface {
	Load() error
	Get(definitionPath string, mtime int64) (types.Package, bool)
	Insert(entry types.CacheEntry) error
	Prune(live map[string]bool) error
	Save() error
}
