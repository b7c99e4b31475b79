package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pkgforge/internal/types"
)

func mustConstraint(t *testing.T, expr string) types.Constraint {
	t.Helper()
	c, err := ParseConstraint("pkg", expr)
	if err != nil {
		t.Fatalf("ParseConstraint(%q): %v", expr, err)
	}
	return c
}

// ---------------------------------------------------------------------------
// CompileConstraint / Membership
// ---------------------------------------------------------------------------

func TestCompileConstraintGteLt(t *testing.T) {
	rs := CompileConstraint(mustConstraint(t, ">=2022.0.0,<2025.0.0"))
	assert.True(t, Membership(types.Version{Major: 2022}, rs))
	assert.True(t, Membership(types.Version{Major: 2024, Minor: 9}, rs))
	assert.False(t, Membership(types.Version{Major: 2025}, rs))
	assert.False(t, Membership(types.Version{Major: 2021, Minor: 9}, rs))
}

func TestCompileConstraintPartialPrefix(t *testing.T) {
	rs := CompileConstraint(mustConstraint(t, "2024.1"))
	assert.True(t, Membership(types.Version{Major: 2024, Minor: 1, Patch: 0}, rs))
	assert.True(t, Membership(types.Version{Major: 2024, Minor: 1, Patch: 99}, rs))
	assert.False(t, Membership(types.Version{Major: 2024, Minor: 2}, rs))
}

func TestCompileConstraintNotEqual(t *testing.T) {
	rs := CompileConstraint(mustConstraint(t, "!=2024.0.0"))
	assert.False(t, Membership(types.Version{Major: 2024}, rs))
	assert.True(t, Membership(types.Version{Major: 2023}, rs))
	assert.True(t, Membership(types.Version{Major: 2025}, rs))
}

func TestCompileConstraintEmptyMatchesEverything(t *testing.T) {
	rs := CompileConstraint(mustConstraint(t, ""))
	assert.True(t, Membership(types.Version{Major: 0}, rs))
	assert.True(t, Membership(types.Version{Major: 9999}, rs))
}

func TestCompileConstraintContradictionIsEmpty(t *testing.T) {
	rs := CompileConstraint(mustConstraint(t, ">=2025.0.0,<2022.0.0"))
	assert.True(t, IsEmpty(rs))
	assert.False(t, Membership(types.Version{Major: 2023}, rs))
}

// ---------------------------------------------------------------------------
// Intersect / Union / IsEmpty
// ---------------------------------------------------------------------------

func TestIntersectNarrowsBothSides(t *testing.T) {
	a := CompileConstraint(mustConstraint(t, ">=1.0.0"))
	b := CompileConstraint(mustConstraint(t, "<=2.0.0"))
	rs := Intersect(a, b)
	assert.True(t, Membership(types.Version{Major: 1, Minor: 5}, rs))
	assert.False(t, Membership(types.Version{Major: 3}, rs))
}

func TestIntersectDisjointIsEmpty(t *testing.T) {
	a := CompileConstraint(mustConstraint(t, "<1.0.0"))
	b := CompileConstraint(mustConstraint(t, ">=2.0.0"))
	assert.True(t, IsEmpty(Intersect(a, b)))
}

func TestUnionCoversEitherMember(t *testing.T) {
	a := CompileConstraint(mustConstraint(t, "1.0.0"))
	b := CompileConstraint(mustConstraint(t, "2.0.0"))
	rs := Union(a, b)
	assert.True(t, Membership(types.Version{Major: 1}, rs))
	assert.True(t, Membership(types.Version{Major: 2}, rs))
	assert.False(t, Membership(types.Version{Major: 3}, rs))
}

// ---------------------------------------------------------------------------
// Complement
// ---------------------------------------------------------------------------

func TestComplementOfEmptyIsFullRange(t *testing.T) {
	rs := Complement(nil)
	assert.True(t, Membership(types.Version{Major: 0}, rs))
	assert.True(t, Membership(types.Version{Major: 9999}, rs))
}

func TestComplementExcludesOriginalRange(t *testing.T) {
	original := CompileConstraint(mustConstraint(t, ">=2.0.0,<3.0.0"))
	complement := Complement(original)

	assert.False(t, Membership(types.Version{Major: 2, Minor: 5}, complement))
	assert.True(t, Membership(types.Version{Major: 1}, complement))
	assert.True(t, Membership(types.Version{Major: 3}, complement))
}
