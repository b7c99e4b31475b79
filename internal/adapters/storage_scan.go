package adapters

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"pkgforge/internal/ports"
	"pkgforge/internal/types"
)

// DefinitionFileName is the basename the scanner looks for while
// walking a repository root.
const DefinitionFileName = "package.lua"

// LocationsEnvVar is the platform-separated environment variable
// consulted when no explicit roots are supplied.
const LocationsEnvVar = "PKG_LOCATIONS"

// FileScannerAdapter implements ports.ScannerPort: it walks a
// priority-ordered list of repository roots, consults a CachePort
// before falling back to a LoaderPort, and assembles a PackageIndex.
type FileScannerAdapter struct {
	Loader ports.LoaderPort
	Cache  ports.CachePort

	// Concurrency bounds the parallel load step; 0 lets errgroup run
	// unbounded (one goroutine per discovered definition file).
	Concurrency int
	// IncludeHomePackages opts into the "~/packages" fallback root,
	// which spec.md §4.6 requires to be explicitly enabled.
	IncludeHomePackages bool
}

func NewFileScannerAdapter(loader ports.LoaderPort, cache ports.CachePort) *FileScannerAdapter {
	return &FileScannerAdapter{Loader: loader, Cache: cache}
}

func (a *FileScannerAdapter) Scan(ctx context.Context, roots []string, exclude []string) (types.PackageIndex, error) {
	resolvedRoots := a.discoverRoots(roots)
	_ = a.Cache.Load()

	found := make([][]string, len(resolvedRoots))
	rootWarnings := make([][]string, len(resolvedRoots))
	var walkGroup errgroup.Group
	for i, root := range resolvedRoots {
		i, root := i, root
		walkGroup.Go(func() error {
			found[i], rootWarnings[i] = walkRoot(root)
			return nil
		})
	}
	_ = walkGroup.Wait()

	var paths []string
	var warnings []string
	seenCanonical := map[string]bool{}
	for i := range resolvedRoots {
		warnings = append(warnings, rootWarnings[i]...)
		for _, p := range found[i] {
			canonical, err := filepath.Abs(p)
			if err != nil {
				canonical = p
			}
			if seenCanonical[canonical] {
				continue
			}
			seenCanonical[canonical] = true
			paths = append(paths, canonical)
		}
	}

	type loaded struct {
		path string
		pkg  types.Package
		err  error
	}
	results := make([]loaded, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if a.Concurrency > 0 {
		g.SetLimit(a.Concurrency)
	}
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			pkg, err := a.loadWithCache(gctx, p)
			results[i] = loaded{path: p, pkg: pkg, err: err}
			return nil
		})
	}
	_ = g.Wait()

	idx := types.PackageIndex{
		Packages:  map[string]types.Package{},
		ByBase:    map[string][]string{},
		Locations: resolvedRoots,
	}
	live := map[string]bool{}
	for _, r := range results {
		live[r.path] = true
		if r.err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", r.path, r.err))
			continue
		}
		if matchesAny(exclude, r.pkg.Base) {
			continue
		}
		full := r.pkg.FullName()
		if _, exists := idx.Packages[full]; exists {
			warnings = append(warnings, fmt.Sprintf("duplicate package %s (kept first root's definition)", full))
			continue
		}
		idx.Packages[full] = r.pkg
		idx.ByBase[r.pkg.Base] = append(idx.ByBase[r.pkg.Base], full)
	}

	for base, names := range idx.ByBase {
		sorted := names
		sort.Slice(sorted, func(i, j int) bool {
			return idx.Packages[sorted[i]].Version.GreaterThan(idx.Packages[sorted[j]].Version)
		})
		idx.ByBase[base] = sorted
	}

	_ = a.Cache.Prune(live)
	if err := a.Cache.Save(); err != nil {
		warnings = append(warnings, err.Error())
	}
	idx.Warnings = warnings
	return idx, nil
}

func (a *FileScannerAdapter) loadWithCache(ctx context.Context, path string) (types.Package, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.Package{}, err
	}
	mtime := info.ModTime().Unix()
	if pkg, ok := a.Cache.Get(path, mtime); ok {
		return pkg, nil
	}
	pkg, err := a.Loader.Load(ctx, path)
	if err != nil {
		return types.Package{}, err
	}
	_ = a.Cache.Insert(types.CacheEntry{Path: path, Mtime: mtime, Package: pkg})
	return pkg, nil
}

// discoverRoots implements spec.md §4.6's priority order: explicit
// roots, then PKG_LOCATIONS, then ./repo, then ~/packages (opt-in).
func (a *FileScannerAdapter) discoverRoots(explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if env := os.Getenv(LocationsEnvVar); env != "" {
		return filepath.SplitList(env)
	}
	if info, err := os.Stat("./repo"); err == nil && info.IsDir() {
		return []string{"./repo"}
	}
	if a.IncludeHomePackages {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, "packages")
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				return []string{candidate}
			}
		}
	}
	return nil
}

func walkRoot(root string) ([]string, []string) {
	var paths []string
	var warnings []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", p, walkErr))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == DefinitionFileName {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("%s: %v", root, err))
	}
	return paths, warnings
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

var _ ports.ScannerPort = (*FileScannerAdapter)(nil)
