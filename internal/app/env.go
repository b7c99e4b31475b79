package app

import (
	"context"

	"pkgforge/internal/core"
	"pkgforge/internal/types"
)

// syntheticRootBase is the Base of the ad-hoc root Package built to
// aggregate a request's top-level requirements; it never appears in
// any repository index, so it can't collide with a real package.
const syntheticRootBase = "__pkgforge_root__"

// EffectiveEnv resolves the requested packages and composes the
// requested Env across them, per spec.md §4.8. Multiple top-level
// requirements are aggregated under a synthetic root Package (the same
// device ResolveToolset uses for a toolset file), so ordering and
// precedence match the single-package case exactly.
func (s Service) EffectiveEnv(ctx context.Context, req EffectiveEnvRequest) (EffectiveEnvResult, error) {
	resolved, err := s.Resolve(ctx, ResolveRequest{
		Roots:        req.Roots,
		Exclude:      req.Exclude,
		Requirements: req.Requirements,
	})
	if err != nil {
		return EffectiveEnvResult{}, err
	}

	requests := make([]types.Requirement, 0, len(req.Requirements))
	for _, raw := range req.Requirements {
		r, parseErr := core.ParseRequirement(raw)
		if parseErr != nil {
			return EffectiveEnvResult{}, parseErr
		}
		requests = append(requests, r)
	}

	root := syntheticRootPackage(requests, resolved.Packages)

	passthrough := make(map[string]struct{}, len(req.Passthrough))
	for _, name := range req.Passthrough {
		passthrough[name] = struct{}{}
	}

	envName := req.EnvName
	if envName == "" {
		envName = types.DefaultEnvName
	}

	env, err := core.EffectiveEnv(root, envName, core.ComposeOptions{
		Stamp: req.Stamp,
		Solve: core.SolveOptions{
			Strict:      req.Strict,
			Passthrough: passthrough,
		},
	})
	if err != nil {
		return EffectiveEnvResult{}, err
	}

	out := make(map[string]string, len(env.Evars))
	for _, evar := range env.Evars {
		out[evar.Name] = evar.Value
	}
	return EffectiveEnvResult{Env: out, Versions: resolved.Versions}, nil
}

// syntheticRootPackage builds the ad-hoc aggregator Package whose Reqs
// are the top-level requirements (in request order) and whose Deps is
// the full resolved set, so EffectiveEnv's direct/transitive
// partitioning treats every requested package as a direct dependency.
func syntheticRootPackage(requests []types.Requirement, resolved map[string]types.Package) types.Package {
	root := types.Package{Base: syntheticRootBase, Reqs: requests}
	seen := map[string]bool{}
	for _, req := range requests {
		pkg, ok := resolved[req.Base]
		if !ok || seen[req.Base] {
			continue
		}
		seen[req.Base] = true
		root.Deps = append(root.Deps, pkg)
		for _, dep := range pkg.Deps {
			if seen[dep.Base] {
				continue
			}
			seen[dep.Base] = true
			root.Deps = append(root.Deps, dep)
		}
	}
	return root
}
