package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkgforge/internal/types"
)

func envWithPathAppend(binPath string) map[string]types.Env {
	return map[string]types.Env{
		types.DefaultEnvName: {
			Name:  types.DefaultEnvName,
			Evars: []types.Evar{{Name: "PATH", Value: binPath, Action: types.ActionAppend}},
		},
	}
}

// ---------------------------------------------------------------------------
// partitionDeps
// ---------------------------------------------------------------------------

func TestPartitionDepsSplitsDirectAndTransitive(t *testing.T) {
	redshift := types.Package{Base: "redshift", Version: types.Version{Major: 3}}
	cBase := types.Package{Base: "c_base", Version: types.Version{Major: 1}}
	maya := types.Package{Base: "maya", Version: types.Version{Major: 2024}}

	p := types.Package{
		Base: "scene",
		Reqs: []types.Requirement{{Base: "maya"}, {Base: "redshift"}},
		Deps: []types.Package{maya, redshift, cBase},
	}

	direct, transitive := partitionDeps(p)
	require.Len(t, direct, 2)
	assert.Equal(t, "maya", direct[0].Base)
	assert.Equal(t, "redshift", direct[1].Base)
	require.Len(t, transitive, 1)
	assert.Equal(t, "c_base", transitive[0].Base)
}

// ---------------------------------------------------------------------------
// EffectiveEnv PATH ordering (own, then directs in request order, then
// transitives)
// ---------------------------------------------------------------------------

func TestEffectiveEnvOrdersOwnDirectsThenTransitive(t *testing.T) {
	cBase := types.Package{
		Base: "c_base", Version: types.Version{Major: 1},
		Envs: envWithPathAppend("/c_base/bin"),
	}
	redshift := types.Package{
		Base: "redshift", Version: types.Version{Major: 3},
		Reqs: []types.Requirement{{Base: "c_base"}},
		Deps: []types.Package{cBase},
		Envs: envWithPathAppend("/redshift/bin"),
	}
	maya := types.Package{
		Base: "maya", Version: types.Version{Major: 2024},
		Envs: envWithPathAppend("/maya/bin"),
	}

	scene := types.Package{
		Base:  "scene",
		Envs:  envWithPathAppend("/scene/bin"),
		Reqs:  []types.Requirement{{Base: "maya"}, {Base: "redshift"}},
		Deps:  []types.Package{maya, redshift, cBase},
	}

	env, err := EffectiveEnv(scene, types.DefaultEnvName, ComposeOptions{Solve: SolveOptions{Strict: true}})
	require.NoError(t, err)

	var path string
	for _, e := range env.Evars {
		if e.Name == "PATH" {
			path = e.Value
		}
	}
	sep := PathSeparator()
	expect := "/scene/bin" + sep + "/maya/bin" + sep + "/redshift/bin" + sep + "/c_base/bin"
	assert.Equal(t, expect, path)
}

func TestEffectiveEnvStampInjectsVersionIdentities(t *testing.T) {
	maya := types.Package{Base: "maya", Version: types.Version{Major: 2024, Minor: 1}}
	scene := types.Package{
		Base: "scene", Version: types.Version{Major: 1},
		Reqs: []types.Requirement{{Base: "maya"}},
		Deps: []types.Package{maya},
	}

	env, err := EffectiveEnv(scene, types.DefaultEnvName, ComposeOptions{
		Solve: SolveOptions{Strict: true},
		Stamp: true,
	})
	require.NoError(t, err)

	values := map[string]string{}
	for _, e := range env.Evars {
		values[e.Name] = e.Value
	}
	assert.Equal(t, "1.0.0", values["PKG_SCENE"])
	assert.Equal(t, "2024.1.0", values["PKG_MAYA"])
}
