package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgforge/internal/core"
	"pkgforge/internal/types"
)

// Resolve scans the requested roots, parses the top-level requirement
// strings, and runs the version solver over the resulting index
// (spec.md §4.7). The returned Packages map holds, for every resolved
// base, a self-contained Package copy with Deps populated (the flat
// closure of every other package reachable from it through the
// solution), ready to feed into EffectiveEnv.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	if len(req.Requirements) == 0 {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one requirement is required")
	}

	index, err := s.Scanner.Scan(ctx, req.Roots, req.Exclude)
	if err != nil {
		return ResolveResult{}, err
	}

	requests := make([]types.Requirement, 0, len(req.Requirements))
	for _, raw := range req.Requirements {
		r, err := core.ParseRequirement(raw)
		if err != nil {
			return ResolveResult{}, err
		}
		requests = append(requests, r)
	}

	versions, err := core.SolveRequirements(index, requests)
	if err != nil {
		return ResolveResult{}, err
	}

	packages := buildResolvedPackages(index, versions)
	return ResolveResult{Index: index, Versions: versions, Packages: packages}, nil
}

// buildResolvedPackages materializes, for every solved base, a Package
// copy whose Deps is the flat set of every other resolved package
// reachable from it via Reqs (excluding itself), and whose SolveStatus
// is marked Solved.
func buildResolvedPackages(index types.PackageIndex, versions map[string]types.Version) map[string]types.Package {
	base := make(map[string]types.Package, len(versions))
	for b, v := range versions {
		pkg, ok := index.Get(b + "-" + v.String())
		if !ok {
			continue
		}
		base[b] = pkg
	}

	out := make(map[string]types.Package, len(base))
	for b, pkg := range base {
		deps := transitiveClosure(base, b)
		pkg.Deps = deps
		pkg.SolveStatus = types.SolveStatusSolved
		out[b] = pkg
	}
	return out
}

// transitiveClosure performs a breadth-first walk of Reqs starting
// from root, returning every other resolved package it reaches
// (excluding root itself), in discovery order.
func transitiveClosure(base map[string]types.Package, root string) []types.Package {
	visited := map[string]bool{root: true}
	queue := []string{root}
	var out []types.Package
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		pkg, ok := base[current]
		if !ok {
			continue
		}
		for _, req := range pkg.Reqs {
			if visited[req.Base] {
				continue
			}
			visited[req.Base] = true
			dep, ok := base[req.Base]
			if !ok {
				continue
			}
			out = append(out, dep)
			queue = append(queue, req.Base)
		}
	}
	return out
}
