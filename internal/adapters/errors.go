package adapters

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func errFileNotFound(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("file not found: %s", path)).
		WithCause(cause)
}

func errExecutionError(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("execution error in %s", path)).
		WithCause(cause)
}

func errMissingFunction(path string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: get_package() not defined", path))
}

func errInvalidReturn(path string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: get_package() returned an unsupported shape", path))
}

func errInvalidPackage(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: invalid package definition", path)).
		WithCause(cause)
}

func errInvalidToolsetName(name string) error {
	return fmt.Errorf("invalid toolset name %q", name)
}

func errCacheIOError(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("cache I/O error: %s", path)).
		WithCause(cause)
}
