package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pkgforge/internal/types"
)

func withPathEnv(p types.Package) types.Package {
	p.Envs = map[string]types.Env{
		types.DefaultEnvName: {
			Name: types.DefaultEnvName,
			Evars: []types.Evar{
				{Name: "PATH", Value: "/" + p.Base + "/bin", Action: types.ActionAppend},
			},
		},
	}
	return p
}

func TestServiceEffectiveEnvComposesAcrossDeps(t *testing.T) {
	scene := withPathEnv(pkg("scene", types.Version{Major: 1}, "maya"))
	maya := withPathEnv(pkg("maya", types.Version{Major: 2024}))
	index := buildTestIndex(t, scene, maya)
	svc := Service{Scanner: fakeScanner{index: index}}

	result, err := svc.EffectiveEnv(context.Background(), EffectiveEnvRequest{
		Requirements: []string{"scene"},
	})
	require.NoError(t, err)
	require.Contains(t, result.Env["PATH"], "/scene/bin")
	require.Contains(t, result.Env["PATH"], "/maya/bin")
}

func TestServiceEffectiveEnvStampInjectsIdentities(t *testing.T) {
	scene := withPathEnv(pkg("scene", types.Version{Major: 1}, "maya"))
	maya := withPathEnv(pkg("maya", types.Version{Major: 2024}))
	index := buildTestIndex(t, scene, maya)
	svc := Service{Scanner: fakeScanner{index: index}}

	result, err := svc.EffectiveEnv(context.Background(), EffectiveEnvRequest{
		Requirements: []string{"scene"},
		Stamp:        true,
	})
	require.NoError(t, err)
	require.Equal(t, "1.0.0", result.Env["PKG_SCENE"])
	require.Equal(t, "2024.0.0", result.Env["PKG_MAYA"])
}
