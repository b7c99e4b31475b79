package core

import (
	"regexp"
	"runtime"

	"pkgforge/internal/types"
)

// tokenPattern matches a single "{IDENT}" token.
var tokenPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// PathSeparator is the OS list separator used by Append/Insert
// merging: ";" on Windows, ":" elsewhere.
func PathSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

// MergeOnto implements the Evar action table: the result of folding
// this Evar on top of an already-accumulated value (nil meaning no
// prior value).
func MergeOnto(e types.Evar, acc *string) string {
	switch e.Action {
	case types.ActionAppend:
		if acc == nil || *acc == "" {
			return e.Value
		}
		return *acc + PathSeparator() + e.Value
	case types.ActionInsert:
		if acc == nil || *acc == "" {
			return e.Value
		}
		return e.Value + PathSeparator() + *acc
	default: // ActionSet
		return e.Value
	}
}

// Lookup resolves an identifier to its string value during expansion.
type Lookup func(name string) (string, bool)

const defaultMaxDepth = 10

// ExpandValue repeatedly substitutes "{IDENT}" tokens in value until a
// fixpoint or maxDepth is reached. lookup should already encode the
// strict/lenient and pass-through semantics described in spec.md §4.3:
// it is called for every token occurrence and its (value, found)
// result drives substitution directly.
func ExpandValue(value string, lookup Lookup, maxDepth int, strict bool) (string, error) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	stack := map[string]bool{}
	return expandString(value, lookup, maxDepth, maxDepth, strict, stack)
}

func expandString(s string, lookup Lookup, depthRemaining, maxDepth int, strict bool, stack map[string]bool) (string, error) {
	matches := tokenPattern.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s, nil
	}
	if depthRemaining <= 0 {
		return "", errDepthExceeded(s, maxDepth)
	}

	var out []byte
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		nameStart, nameEnd := m[2], m[3]
		name := s[nameStart:nameEnd]
		out = append(out, s[last:start]...)

		replacement, err := expandToken(name, lookup, depthRemaining, maxDepth, strict, stack)
		if err != nil {
			return "", err
		}
		out = append(out, replacement...)
		last = end
	}
	out = append(out, s[last:]...)
	return string(out), nil
}

func expandToken(name string, lookup Lookup, depthRemaining, maxDepth int, strict bool, stack map[string]bool) (string, error) {
	if stack[name] {
		return "", errCircularReference(name)
	}
	value, ok := lookup(name)
	if !ok {
		if strict {
			return "", errVariableNotFound(name)
		}
		return "{" + name + "}", nil
	}
	stack[name] = true
	defer delete(stack, name)
	return expandString(value, lookup, depthRemaining-1, maxDepth, strict, stack)
}
