package types

// DefaultEnvName is the conventional name of a Package's primary Env.
const DefaultEnvName = "default"

// Package is immutable metadata describing one version of one package
// family, as realised by the executable definition loader. Deps and
// SolveStatus are the only fields set after construction, and each is
// set exactly once, by the solver, against a copy of the Package
// returned from the resolved context (resolved dependencies are
// stored by value, not by reference back into a Storage index).
type Package struct {
	Base    string
	Version Version
	Reqs    []Requirement
	Envs    map[string]Env
	Apps    map[string]App
	Tags    []string

	// Deps holds the resolved dependency set after a successful solve,
	// as self-contained copies (no reference back to the index that
	// produced them).
	Deps        []Package
	SolveStatus SolveStatus
}

// FullName is "{base}-{version}", the unique key in a package index.
func (p Package) FullName() string {
	return p.Base + "-" + p.Version.String()
}

// Env looks up a named Env on this package, returning an empty Env
// with no Evars if absent (per §4.8 step 2: "own = P.envs[env_name]
// (empty Env if absent)").
func (p Package) Env(name string) Env {
	if p.Envs == nil {
		return Env{Name: name}
	}
	if env, ok := p.Envs[name]; ok {
		return env
	}
	return Env{Name: name}
}
