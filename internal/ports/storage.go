package ports

import (
	"context"

	"pkgforge/internal/types"
)

// ScannerPort walks one or more repository roots and builds a
// PackageIndex (the spec's "Storage"), consulting a CachePort and
// invoking a LoaderPort for anything not already cached.
type ScannerPort interface {
	Scan(ctx context.Context, roots []string, exclude []string) (types.PackageIndex, error)
}

// ToolsetPort parses a toolset definition file into a synthetic
// zero-version Package whose Reqs are the toolset's requirement list.
type ToolsetPort interface {
	Load(path string) (types.Package, error)
}
