package core

import (
	"strings"

	"pkgforge/internal/types"
)

// operatorPrefixes is checked longest-first so ">=" is not mistaken
// for ">".
var operatorPrefixes = []struct {
	token string
	op    types.ConstraintOp
}{
	{">=", types.OpGte},
	{"<=", types.OpLte},
	{"==", types.OpEq},
	{"!=", types.OpNe},
	{">", types.OpGt},
	{"<", types.OpLt},
}

// ParseAtom parses a single constraint atom: a bare/partial version
// pattern or an explicit comparator + version.
func ParseAtom(raw string) (types.Atom, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return types.Atom{}, errInvalidConstraint(raw, nil)
	}

	for _, prefix := range operatorPrefixes {
		if strings.HasPrefix(token, prefix.token) {
			versionPart := strings.TrimSpace(token[len(prefix.token):])
			v, _, err := ParseVersion(versionPart)
			if err != nil {
				return types.Atom{}, errInvalidConstraint(raw, err)
			}
			return types.Atom{Op: prefix.op, Version: v}, nil
		}
	}

	// Bare pattern: no operator given.
	v, components, err := ParseVersion(token)
	if err != nil {
		return types.Atom{}, errInvalidConstraint(raw, err)
	}
	if components == 2 {
		return types.Atom{Op: types.OpEq, Version: v, Partial: true, Components: components}, nil
	}
	return types.Atom{Op: types.OpEq, Version: v}, nil
}

// ParseConstraint parses a comma-separated conjunction of atoms for a
// single base package name, e.g. ">=1.0,<2.0".
func ParseConstraint(base string, expr string) (types.Constraint, error) {
	expr = strings.TrimSpace(expr)
	c := types.Constraint{Base: base, Raw: expr}
	if expr == "" {
		return c, nil
	}
	for _, part := range strings.Split(expr, ",") {
		atom, err := ParseAtom(part)
		if err != nil {
			return types.Constraint{}, err
		}
		c.Atoms = append(c.Atoms, atom)
	}
	return c, nil
}

// ParseRequirement parses one of the textual requirement forms:
// "name" (any version), "name@expr" (constraint conjunction), or
// "name-X.Y.Z" (exact, alternative form).
func ParseRequirement(raw string) (types.Requirement, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return types.Requirement{}, errInvalidConstraint(raw, nil)
	}

	if base, expr, ok := strings.Cut(token, "@"); ok {
		base = strings.TrimSpace(base)
		if base == "" {
			return types.Requirement{}, errInvalidConstraint(raw, nil)
		}
		c, err := ParseConstraint(base, expr)
		if err != nil {
			return types.Requirement{}, err
		}
		return types.Requirement{Base: base, Constraint: c}, nil
	}

	if base, versionPart, ok := cutLastHyphenVersion(token); ok {
		v, err := ParseVersionExact(versionPart)
		if err != nil {
			return types.Requirement{}, errInvalidConstraint(raw, err)
		}
		return types.Requirement{
			Base: base,
			Constraint: types.Constraint{
				Base:  base,
				Raw:   token,
				Atoms: []types.Atom{{Op: types.OpEq, Version: v}},
			},
		}, nil
	}

	return types.Requirement{Base: token, Constraint: types.Constraint{Base: token}}, nil
}

// cutLastHyphenVersion splits "name-X.Y.Z" into ("name", "X.Y.Z") when
// the suffix after the last hyphen consists only of digits and dots;
// ParseRequirement then rejects a suffix that is not a full X.Y.Z
// triple, so "name-20" is an error rather than a bare name.
// Requirement base names may themselves contain hyphens (e.g.
// "after-effects"), so only the final hyphen-delimited segment is
// tried.
func cutLastHyphenVersion(token string) (string, string, bool) {
	idx := strings.LastIndex(token, "-")
	if idx < 0 || idx == len(token)-1 {
		return "", "", false
	}
	base, versionPart := token[:idx], token[idx+1:]
	if base == "" {
		return "", "", false
	}
	if !looksLikeVersion(versionPart) {
		return "", "", false
	}
	return base, versionPart, true
}

func looksLikeVersion(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '.' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// Satisfies reports whether a concrete version satisfies a constraint
// (the conjunction of all its atoms).
func Satisfies(v types.Version, c types.Constraint) bool {
	return Membership(v, CompileConstraint(c))
}
