package app

import (
	"context"

	"pkgforge/internal/core"
	"pkgforge/internal/types"
)

// ResolveToolset loads a .toolsets/<name>.toml file, solves its
// requirement list against the requested roots, and composes the
// requested Env across the result (SPEC_FULL.md §4.9): the toolset is
// the "ad-hoc environment" request path, built on exactly the same
// Resolve -> EffectiveEnv pipeline a named package uses.
func (s Service) ResolveToolset(ctx context.Context, req ToolsetRequest) (ToolsetResult, error) {
	toolset, err := s.Toolsets.Load(req.ToolsetPath)
	if err != nil {
		return ToolsetResult{}, err
	}

	index, err := s.Scanner.Scan(ctx, req.Roots, req.Exclude)
	if err != nil {
		return ToolsetResult{}, err
	}

	versions, err := core.SolveRequirements(index, toolset.Reqs)
	if err != nil {
		return ToolsetResult{}, err
	}
	resolved := buildResolvedPackages(index, versions)
	root := syntheticRootPackage(toolset.Reqs, resolved)
	root.Base = toolset.Base

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
		return ToolsetResult{}, err
	}

	out := make(map[string]string, len(env.Evars))
	for _, evar := range env.Evars {
		out[evar.Name] = evar.Value
	}
	return ToolsetResult{Name: toolset.Base, Env: out, Versions: versions}, nil
}
