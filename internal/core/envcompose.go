package core

import (
	"strings"

	"pkgforge/internal/types"
)

// ComposeOptions configures EffectiveEnv.
type ComposeOptions struct {
	Solve SolveOptions
	// Stamp, when true, injects PKG_<BASE>=<version> identity Evars
	// (action Set) for the package itself and every resolved
	// dependency, enabling downstream scripts to introspect context.
	Stamp bool
}

// EffectiveEnv computes the composed, compressed, and expanded Env
// named envName for a resolved Package, per spec.md §4.8: own env,
// then directs (in request order), then transitives (solver order),
// merged so that later-processed Evars with action Insert still land
// correctly by iterating both groups in reverse before prepending own.
func EffectiveEnv(p types.Package, envName string, opts ComposeOptions) (types.Env, error) {
	direct, transitive := partitionDeps(p)

	acc := types.Env{Name: envName}
	for i := len(transitive) - 1; i >= 0; i-- {
		acc = Merge(transitive[i].Env(envName), acc)
	}
	for i := len(direct) - 1; i >= 0; i-- {
		acc = Merge(direct[i].Env(envName), acc)
	}
	acc = Merge(p.Env(envName), acc)

	if opts.Stamp {
		stampEnv := types.Env{Name: envName}
		stampEnv.Evars = append(stampEnv.Evars, stampEvar(p))
		for _, d := range direct {
			stampEnv.Evars = append(stampEnv.Evars, stampEvar(d))
		}
		for _, d := range transitive {
			stampEnv.Evars = append(stampEnv.Evars, stampEvar(d))
		}
		acc = Merge(acc, stampEnv)
	}

	return Solve(acc, opts.Solve)
}

// partitionDeps splits a resolved Package's Deps into directs (those
// named in Reqs, in Reqs order) and transitives (the rest, preserving
// the solver's output order).
func partitionDeps(p types.Package) (direct, transitive []types.Package) {
	byBase := make(map[string]types.Package, len(p.Deps))
	for _, dep := range p.Deps {
		byBase[dep.Base] = dep
	}
	seen := make(map[string]struct{}, len(p.Reqs))
	for _, req := range p.Reqs {
		dep, ok := byBase[req.Base]
		if !ok {
			continue
		}
		if _, dup := seen[req.Base]; dup {
			continue
		}
		seen[req.Base] = struct{}{}
		direct = append(direct, dep)
	}
	for _, dep := range p.Deps {
		if _, ok := seen[dep.Base]; ok {
			continue
		}
		transitive = append(transitive, dep)
	}
	return direct, transitive
}

func stampEvar(p types.Package) types.Evar {
	return types.Evar{
		Name:   "PKG_" + strings.ToUpper(p.Base),
		Value:  p.Version.String(),
		Action: types.ActionSet,
	}
}
