package core

import (
	"strconv"
	"strings"

	"pkgforge/internal/types"
)

// ParseVersion parses a full "X.Y.Z" (or shorter, zero-filled) triple
// and reports how many components were explicitly given. A concrete
// package version requires all three; ParseVersionExact enforces that.
func ParseVersion(raw string) (types.Version, int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return types.Version{}, 0, errInvalidVersion(raw, nil)
	}
	parts := strings.Split(trimmed, ".")
	if len(parts) > 3 {
		return types.Version{}, 0, errInvalidVersion(raw, nil)
	}
	components := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return types.Version{}, 0, errInvalidVersion(raw, err)
		}
		components[i] = n
	}
	return types.Version{Major: components[0], Minor: components[1], Patch: components[2]}, len(parts), nil
}

// ParseVersionExact parses a concrete package version, requiring all
// three components to be present.
func ParseVersionExact(raw string) (types.Version, error) {
	v, n, err := ParseVersion(raw)
	if err != nil {
		return types.Version{}, err
	}
	if n != 3 {
		return types.Version{}, errInvalidVersion(raw, nil)
	}
	return v, nil
}
