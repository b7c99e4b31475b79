package app

import (
	"os"
	"path/filepath"

	"pkgforge/internal/adapters"
	"pkgforge/internal/ports"
)

// DefaultCachePath resolves the cache file location per spec.md §6
// ("adjacent to the executable"), falling back to the working
// directory if the executable path can't be determined.
func DefaultCachePath() string {
	exe, err := os.Executable()
	if err != nil {
		return ".pkgforge-cache.json"
	}
	return filepath.Join(filepath.Dir(exe), ".pkgforge-cache.json")
}

type Service struct {
	Loader   ports.LoaderPort
	Cache    ports.CachePort
	Scanner  ports.ScannerPort
	Toolsets ports.ToolsetPort
}

// NewService wires the default adapter stack: a single process-wide
// Lua loader, a JSON file cache at path, and an errgroup-backed
// repository scanner that consults both.
func NewService(cachePath string) Service {
	if cachePath == "" {
		cachePath = DefaultCachePath()
	}
	loader := adapters.NewLuaLoaderAdapter()
	cache := adapters.NewFileCacheAdapter(cachePath)
	return Service{
		Loader:   loader,
		Cache:    cache,
		Scanner:  adapters.NewFileScannerAdapter(loader, cache),
		Toolsets: adapters.NewTomlToolsetAdapter(),
	}
}
