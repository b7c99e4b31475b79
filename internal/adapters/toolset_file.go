package adapters

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"pkgforge/internal/core"
	"pkgforge/internal/ports"
	"pkgforge/internal/types"
)

// TomlToolsetAdapter implements ports.ToolsetPort over .toolsets/*.toml
// files: a name plus a flat list of requirement strings, parsed the
// same way a package definition's reqs are.
type TomlToolsetAdapter struct{}

func NewTomlToolsetAdapter() *TomlToolsetAdapter {
	return &TomlToolsetAdapter{}
}

// Load parses one .toolsets/*.toml file into a synthetic, zero-version
// Package whose Reqs carry the toolset's requirement list, so it can
// be fed into the same solver and env-composition pipeline as an
// ordinary package.
func (a *TomlToolsetAdapter) Load(path string) (types.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Package{}, errFileNotFound(path, err)
	}

	var file types.ToolsetFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return types.Package{}, errInvalidPackage(path, err)
	}
	if !baseNamePattern.MatchString(file.Name) {
		return types.Package{}, errInvalidPackage(path, errInvalidToolsetName(file.Name))
	}

	reqs := make([]types.Requirement, 0, len(file.Requires))
	for _, raw := range file.Requires {
		req, err := core.ParseRequirement(raw)
		if err != nil {
			return types.Package{}, errInvalidPackage(path, err)
		}
		reqs = append(reqs, req)
	}

	return types.Package{
		Base:    file.Name,
		Version: types.Version{},
		Reqs:    reqs,
	}, nil
}

var _ ports.ToolsetPort = (*TomlToolsetAdapter)(nil)
