package app

import "pkgforge/internal/types"

// ScanRequest drives a repository scan (spec.md §4.6 / SPEC_FULL.md §4.6).
type ScanRequest struct {
	Roots   []string
	Exclude []string
}

type ScanResult struct {
	Index types.PackageIndex
}

// ResolveRequest drives the version solver against a set of top-level
// requirement strings (spec.md §4.7).
type ResolveRequest struct {
	Roots        []string
	Exclude      []string
	Requirements []string
}

type ResolveResult struct {
	Index    types.PackageIndex
	Versions map[string]types.Version
	Packages map[string]types.Package
}

// EffectiveEnvRequest drives env composition for a resolved set of
// packages (spec.md §4.8).
type EffectiveEnvRequest struct {
	Roots        []string
	Exclude      []string
	Requirements []string
	EnvName      string
	Stamp        bool
	Strict       bool
	Passthrough  []string
}

type EffectiveEnvResult struct {
	Env      map[string]string
	Versions map[string]types.Version
}

// ToolsetRequest drives the ad-hoc toolset load->resolve->compose path
// (SPEC_FULL.md §4.9).
type ToolsetRequest struct {
	ToolsetPath string
	Roots       []string
	Exclude     []string
	EnvName     string
	Stamp       bool
	Strict      bool
	Passthrough []string
}

type ToolsetResult struct {
	Name     string
	Env      map[string]string
	Versions map[string]types.Version
}

// CachePruneRequest drives an explicit cache-prune-and-rescan cycle.
type CachePruneRequest struct {
	Roots   []string
	Exclude []string
}

type CachePruneResult struct {
	// KeptEntries is the number of packages in the rescanned index.
	KeptEntries int
}
