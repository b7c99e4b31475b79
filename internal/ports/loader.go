package ports

import (
	"context"

	"pkgforge/internal/types"
)

// LoaderPort executes one package definition file and returns the
// Package it describes. Implementations are responsible for whatever
// sandboxing/locking their execution strategy requires.
type LoaderPort interface {
	Load(ctx context.Context, definitionPath string) (types.Package, error)
}
