package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pkgforge/internal/core"
	"pkgforge/internal/ports"
	"pkgforge/internal/types"
)

// fakeScanner returns a fixed index regardless of roots/exclude, so
// app-layer tests can exercise Resolve/EffectiveEnv/ResolveToolset
// without touching the filesystem.
type fakeScanner struct {
	index types.PackageIndex
}

func (f fakeScanner) Scan(ctx context.Context, roots []string, exclude []string) (types.PackageIndex, error) {
	return f.index, nil
}

func buildTestIndex(t *testing.T, pkgs ...types.Package) types.PackageIndex {
	t.Helper()
	idx := types.PackageIndex{Packages: map[string]types.Package{}, ByBase: map[string][]string{}}
	for _, p := range pkgs {
		full := p.FullName()
		idx.Packages[full] = p
		idx.ByBase[p.Base] = append(idx.ByBase[p.Base], full)
	}
	return idx
}

func pkg(base string, v types.Version, reqs ...string) types.Package {
	p := types.Package{Base: base, Version: v}
	for _, r := range reqs {
		p.Reqs = append(p.Reqs, mustReqStr(r))
	}
	return p
}

func mustReqStr(raw string) types.Requirement {
	req, err := core.ParseRequirement(raw)
	if err != nil {
		panic(err)
	}
	return req
}

func TestServiceResolveProducesPopulatedDeps(t *testing.T) {
	index := buildTestIndex(t,
		pkg("scene", types.Version{Major: 1}, "maya"),
		pkg("maya", types.Version{Major: 2024}, "c_base"),
		pkg("c_base", types.Version{Major: 1}),
	)
	svc := Service{Scanner: fakeScanner{index: index}}

	result, err := svc.Resolve(context.Background(), ResolveRequest{Requirements: []string{"scene", "maya"}})
	require.NoError(t, err)
	require.Equal(t, types.Version{Major: 2024}, result.Versions["maya"])

	scenePkg := result.Packages["scene"]
	require.Equal(t, types.SolveStatusSolved, scenePkg.SolveStatus)
	depBases := make([]string, 0, len(scenePkg.Deps))
	for _, d := range scenePkg.Deps {
		depBases = append(depBases, d.Base)
	}
	require.ElementsMatch(t, []string{"maya", "c_base"}, depBases)
}

func TestServiceResolveRequiresAtLeastOneRequirement(t *testing.T) {
	svc := Service{Scanner: fakeScanner{index: types.PackageIndex{}}}
	_, err := svc.Resolve(context.Background(), ResolveRequest{})
	require.Error(t, err)
}

var _ ports.ScannerPort = fakeScanner{}
