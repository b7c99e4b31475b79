package core

import (
	"os"

	"pkgforge/internal/types"
)

// Compress stable-folds an Env left-to-right: each name is merged onto
// its running accumulator via MergeOnto, first-occurrence insertion
// order is preserved, and every resulting Evar's action is logically
// Set (the merge has already happened).
func Compress(e types.Env) types.Env {
	values := map[string]string{}
	var order []string
	for _, evar := range e.Evars {
		var accPtr *string
		if acc, ok := values[evar.Name]; ok {
			accPtr = &acc
		} else {
			order = append(order, evar.Name)
		}
		values[evar.Name] = MergeOnto(evar, accPtr)
	}
	out := types.Env{Name: e.Name, Evars: make([]types.Evar, 0, len(order))}
	for _, name := range order {
		out.Evars = append(out.Evars, types.Evar{Name: name, Value: values[name], Action: types.ActionSet})
	}
	return out
}

// Merge concatenates self's Evars followed by other's, preserving the
// order so a later Compress respects "self first, deps next".
func Merge(self, other types.Env) types.Env {
	out := types.Env{Name: self.Name, Evars: make([]types.Evar, 0, len(self.Evars)+len(other.Evars))}
	out.Evars = append(out.Evars, self.Evars...)
	out.Evars = append(out.Evars, other.Evars...)
	return out
}

// SolveOptions configures Solve's token-expansion behavior.
type SolveOptions struct {
	MaxDepth int
	Strict   bool
	// Passthrough is the set of identifiers permitted to fall back to
	// the ambient process environment even in strict mode.
	Passthrough map[string]struct{}
}

// Solve compresses e, then expands every value using a lookup that
// consults the compressed Env first and falls back to the ambient
// process environment for identifiers not defined in it (subject to
// opts.Strict/opts.Passthrough).
func Solve(e types.Env, opts SolveOptions) (types.Env, error) {
	compressed := Compress(e)
	values := make(map[string]string, len(compressed.Evars))
	for _, evar := range compressed.Evars {
		values[evar.Name] = evar.Value
	}

	lookup := func(name string) (string, bool) {
		if v, ok := values[name]; ok {
			return v, true
		}
		if opts.Strict {
			if _, ok := opts.Passthrough[name]; !ok {
				return "", false
			}
		}
		return os.LookupEnv(name)
	}

	out := types.Env{Name: compressed.Name, Evars: make([]types.Evar, len(compressed.Evars))}
	for i, evar := range compressed.Evars {
		expanded, err := ExpandValue(evar.Value, lookup, opts.MaxDepth, opts.Strict)
		if err != nil {
			return types.Env{}, err
		}
		out.Evars[i] = types.Evar{Name: evar.Name, Value: expanded, Action: types.ActionSet}
	}
	return out, nil
}
