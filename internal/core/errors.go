package core

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// errInvalidConstraint wraps a constraint-parsing failure.
func errInvalidConstraint(raw string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid constraint %q", raw)).
		WithCause(cause)
}

// errInvalidVersion wraps a version-parsing failure.
func errInvalidVersion(raw string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid version %q", raw)).
		WithCause(cause)
}

// errVariableNotFound reports an unresolved token under strict expansion.
func errVariableNotFound(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("variable not found: %s", name))
}

// errCircularReference reports a token expansion cycle.
func errCircularReference(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("circular reference detected at: %s", name))
}

// errDepthExceeded reports expansion exceeding max_depth.
func errDepthExceeded(name string, maxDepth int) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("expansion depth exceeded for %s (max %d)", name, maxDepth))
}

// errNoMatchingVersion reports that a constraint matched no stored version.
func errNoMatchingVersion(base string, available []string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no matching version for %s (available: %v)", base, available))
}

// errNoSolution reports an unsatisfiable request set with a derivation trace.
func errNoSolution(trace string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("no solution: %s", trace))
}

// errEnvNotFound reports a lookup of a missing named Env.
func errEnvNotFound(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("env not found: %s", name))
}

// errAppNotFound reports a lookup of a missing named App.
func errAppNotFound(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("app not found: %s", name))
}
