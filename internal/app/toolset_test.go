package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pkgforge/internal/types"
)

// fakeToolsets returns a fixed synthetic Package regardless of path.
type fakeToolsets struct {
	pkg types.Package
}

func (f fakeToolsets) Load(path string) (types.Package, error) {
	return f.pkg, nil
}

func TestServiceResolveToolsetComposesEnv(t *testing.T) {
	maya := withPathEnv(pkg("maya", types.Version{Major: 2024}))
	index := buildTestIndex(t, maya)

	toolset := types.Package{Base: "compositing", Reqs: []types.Requirement{mustReqStr("maya")}}
	svc := Service{
		Scanner:  fakeScanner{index: index},
		Toolsets: fakeToolsets{pkg: toolset},
	}

	result, err := svc.ResolveToolset(context.Background(), ToolsetRequest{ToolsetPath: "compositing.toml"})
	require.NoError(t, err)
	require.Equal(t, "compositing", result.Name)
	require.Contains(t, result.Env["PATH"], "/maya/bin")
	require.Equal(t, types.Version{Major: 2024}, result.Versions["maya"])
}
