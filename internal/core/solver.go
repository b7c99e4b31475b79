package core

import (
	"sort"
	"strings"
	"sync"

	pubgrub "github.com/contriboss/pubgrub-go"

	"pkgforge/internal/types"
)

// rootName is the synthetic package pubgrub-go resolves against; its
// own dependency terms are this call's top-level Requirements, the
// same "synthetic root" device internal/app uses for multi-requirement
// requests and toolsets (see internal/app/env.go's syntheticRootPackage).
const rootName = "$root"

// SolveRequirements resolves a top-level request list against a
// PackageIndex using PubGrub-style conflict-driven resolution
// (spec.md §4.7), delegated to github.com/contriboss/pubgrub-go's CDCL
// solver: the index and the request list are adapted to that
// package's Source/Version/Condition/Term vocabulary, and the actual
// decision/backtracking search is performed by pubgrub.Solve, not
// reimplemented here. A touchedTracker records every base name the
// search actually consulted while reaching its answer, so a
// NoSolution failure can report a derivation trace naming every
// contributing package (spec.md §8 scenario S3) instead of only the
// two bases present at the instant one range search went empty.
func SolveRequirements(index types.PackageIndex, requests []types.Requirement) (map[string]types.Version, error) {
	merged, order := mergeByBase(requests)

	for _, base := range order {
		if len(index.ByBase[base]) == 0 {
			return nil, errNoMatchingVersion(base, nil)
		}
	}

	tracker := newTouchedTracker()
	source := &indexSource{index: index, tracker: tracker}

	rootDeps := make([]pubgrub.Term, 0, len(order))
	for _, base := range order {
		tracker.touch(base)
		rootDeps = append(rootDeps, pubgrub.Term{
			Package:    pubgrub.Name(base),
			Constraint: conditionAdapter{constraint: merged[base]},
		})
	}

	assignment, err := pubgrub.Solve(source, pubgrub.Name(rootName), rootDeps)
	if err != nil {
		return nil, errNoSolution(tracker.trace())
	}

	out := make(map[string]types.Version, len(assignment))
	for name, v := range assignment {
		base := name.Value()
		if base == rootName {
			continue
		}
		va, ok := v.(versionAdapter)
		if !ok {
			continue
		}
		out[base] = va.version
	}
	return out, nil
}

// mergeByBase conjoins every Requirement's Constraint atoms by Base (in
// first-seen order), so a caller naming the same package twice (e.g.
// "maya@>=2022.0.0" and "maya@<2023.0.0" as two separate Requirements)
// reaches pubgrub-go as one Condition instead of two competing root
// terms for the same package name.
func mergeByBase(requests []types.Requirement) (map[string]types.Constraint, []string) {
	merged := make(map[string]types.Constraint, len(requests))
	order := make([]string, 0, len(requests))
	for _, req := range requests {
		existing, ok := merged[req.Base]
		if !ok {
			merged[req.Base] = req.Constraint
			order = append(order, req.Base)
			continue
		}
		existing.Atoms = append(existing.Atoms, req.Constraint.Atoms...)
		switch {
		case existing.Raw == "":
			existing.Raw = req.Constraint.Raw
		case req.Constraint.Raw != "":
			existing.Raw = existing.Raw + "," + req.Constraint.Raw
		}
		merged[req.Base] = existing
	}
	return merged, order
}

// versionAdapter satisfies pubgrub.Version over a types.Version.
type versionAdapter struct {
	version types.Version
}

func (v versionAdapter) String() string { return v.version.String() }

// Sort implements pubgrub.Version's ordering contract directly in
// terms of types.Version.Compare, which already returns -1/0/1.
func (v versionAdapter) Sort(other pubgrub.Version) int {
	o, ok := other.(versionAdapter)
	if !ok {
		return strings.Compare(v.String(), other.String())
	}
	return v.version.Compare(o.version)
}

// conditionAdapter satisfies pubgrub.Condition over a types.Constraint,
// reusing the constraint-to-range compiler (rangeset.go) through the
// existing Satisfies helper. It deliberately does not implement
// pubgrub.VersionSetConverter: leaving Condition at the bare
// Satisfies/String contract keeps the solver's propagation calling
// Satisfies directly for every candidate version it tries. Satisfies
// does not record anything in touchedTracker; packages are recorded by
// indexSource and at root-term construction.
type conditionAdapter struct {
	constraint types.Constraint
}

func (c conditionAdapter) String() string {
	if c.constraint.Raw != "" {
		return c.constraint.Raw
	}
	return c.constraint.Base
}

func (c conditionAdapter) Satisfies(ver pubgrub.Version) bool {
	va, ok := ver.(versionAdapter)
	if !ok {
		return false
	}
	return Satisfies(va.version, c.constraint)
}

// indexSource satisfies pubgrub.Source over a types.PackageIndex,
// recording every base name it is asked about in tracker.
type indexSource struct {
	index   types.PackageIndex
	tracker *touchedTracker
}

func (s *indexSource) GetVersions(name pubgrub.Name) ([]pubgrub.Version, error) {
	base := name.Value()
	s.tracker.touch(base)
	if base == rootName {
		return []pubgrub.Version{versionAdapter{}}, nil
	}
	// index.ByBase is sorted newest-first (a scanner invariant); reverse
	// it here since GetVersions is documented to return lowest-to-highest.
	names := s.index.ByBase[base]
	out := make([]pubgrub.Version, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		pkg, ok := s.index.Get(names[i])
		if !ok {
			continue
		}
		out = append(out, versionAdapter{version: pkg.Version})
	}
	return out, nil
}

func (s *indexSource) GetDependencies(name pubgrub.Name, version pubgrub.Version) ([]pubgrub.Term, error) {
	base := name.Value()
	s.tracker.touch(base)
	if base == rootName {
		return nil, nil
	}
	va, ok := version.(versionAdapter)
	if !ok {
		return nil, nil
	}
	pkg, ok := s.index.Get(base + "-" + va.version.String())
	if !ok {
		return nil, nil
	}
	terms := make([]pubgrub.Term, 0, len(pkg.Reqs))
	for _, req := range pkg.Reqs {
		s.tracker.touch(req.Base)
		terms = append(terms, pubgrub.Term{
			Package:    pubgrub.Name(req.Base),
			Constraint: conditionAdapter{constraint: req.Constraint},
		})
	}
	return terms, nil
}

// touchedTracker collects, in first-touched order, every base name a
// solve attempt consulted — every package whose versions or
// dependencies were actually asked about, not only the two bases
// present at the moment a conflict was first observed.
type touchedTracker struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

func newTouchedTracker() *touchedTracker {
	return &touchedTracker{seen: map[string]struct{}{}}
}

func (t *touchedTracker) touch(base string) {
	if base == "" || base == rootName {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.seen[base]; ok {
		return
	}
	t.seen[base] = struct{}{}
	t.order = append(t.order, base)
}

// trace renders every touched base name, sorted for a stable message,
// as the NoSolution derivation trace (spec.md §7/§8).
func (t *touchedTracker) trace() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	sorted := append([]string{}, t.order...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
