package adapters

import "regexp"

// baseNamePattern matches a valid package/toolset base identifier.
var baseNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
