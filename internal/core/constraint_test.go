package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkgforge/internal/types"
)

// ---------------------------------------------------------------------------
// ParseAtom
// ---------------------------------------------------------------------------

func TestParseAtomOperators(t *testing.T) {
	tests := []struct {
		raw    string
		expect types.Atom
	}{
		{">=1.0.0", types.Atom{Op: types.OpGte, Version: types.Version{Major: 1}}},
		{"<=2.0.0", types.Atom{Op: types.OpLte, Version: types.Version{Major: 2}}},
		{"==1.5.0", types.Atom{Op: types.OpEq, Version: types.Version{Major: 1, Minor: 5}}},
		{"!=1.0.0", types.Atom{Op: types.OpNe, Version: types.Version{Major: 1}}},
		{">1.0.0", types.Atom{Op: types.OpGt, Version: types.Version{Major: 1}}},
		{"<2.0.0", types.Atom{Op: types.OpLt, Version: types.Version{Major: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			atom, err := ParseAtom(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, atom)
		})
	}
}

func TestParseAtomBareExactSingleComponent(t *testing.T) {
	atom, err := ParseAtom("2024")
	require.NoError(t, err)
	assert.Equal(t, types.Atom{Op: types.OpEq, Version: types.Version{Major: 2024}}, atom)
	assert.False(t, atom.Partial)
}

func TestParseAtomBarePartialTwoComponents(t *testing.T) {
	atom, err := ParseAtom("2024.1")
	require.NoError(t, err)
	assert.True(t, atom.Partial)
	assert.Equal(t, 2, atom.Components)
	assert.Equal(t, types.Version{Major: 2024, Minor: 1}, atom.Version)
}

func TestParseAtomBareExactThreeComponents(t *testing.T) {
	atom, err := ParseAtom("2024.1.3")
	require.NoError(t, err)
	assert.False(t, atom.Partial)
	assert.Equal(t, types.Version{Major: 2024, Minor: 1, Patch: 3}, atom.Version)
}

func TestParseAtomInvalid(t *testing.T) {
	_, err := ParseAtom("not-a-version")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// ParseConstraint
// ---------------------------------------------------------------------------

func TestParseConstraintConjunction(t *testing.T) {
	c, err := ParseConstraint("maya", ">=2022,<2025")
	require.NoError(t, err)
	require.Len(t, c.Atoms, 2)
	assert.Equal(t, types.OpGte, c.Atoms[0].Op)
	assert.Equal(t, types.OpLt, c.Atoms[1].Op)
}

func TestParseConstraintEmptyMeansAnyVersion(t *testing.T) {
	c, err := ParseConstraint("maya", "")
	require.NoError(t, err)
	assert.Empty(t, c.Atoms)
}

func TestParseConstraintPropagatesAtomError(t *testing.T) {
	_, err := ParseConstraint("maya", ">=x")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// ParseRequirement
// ---------------------------------------------------------------------------

func TestParseRequirementBareName(t *testing.T) {
	r, err := ParseRequirement("maya")
	require.NoError(t, err)
	assert.Equal(t, "maya", r.Base)
	assert.Empty(t, r.Constraint.Atoms)
}

func TestParseRequirementWithConstraintExpr(t *testing.T) {
	r, err := ParseRequirement("maya@>=2022.1")
	require.NoError(t, err)
	assert.Equal(t, "maya", r.Base)
	require.Len(t, r.Constraint.Atoms, 1)
	assert.Equal(t, types.OpGte, r.Constraint.Atoms[0].Op)
}

func TestParseRequirementHyphenVersionForm(t *testing.T) {
	r, err := ParseRequirement("after-effects-2024.1.0")
	require.NoError(t, err)
	assert.Equal(t, "after-effects", r.Base)
	require.Len(t, r.Constraint.Atoms, 1)
	assert.Equal(t, types.OpEq, r.Constraint.Atoms[0].Op)
	assert.Equal(t, types.Version{Major: 2024, Minor: 1, Patch: 0}, r.Constraint.Atoms[0].Version)
}

func TestParseRequirementHyphenatedBaseWithoutVersionStaysBare(t *testing.T) {
	r, err := ParseRequirement("after-effects")
	require.NoError(t, err)
	assert.Equal(t, "after-effects", r.Base)
	assert.Empty(t, r.Constraint.Atoms)
}

func TestParseRequirementRejectsEmptyBaseBeforeAt(t *testing.T) {
	_, err := ParseRequirement("@>=1.0.0")
	require.Error(t, err)
}

func TestParseRequirementRejectsEmpty(t *testing.T) {
	_, err := ParseRequirement("")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// Satisfies
// ---------------------------------------------------------------------------

func TestSatisfiesRange(t *testing.T) {
	c, err := ParseConstraint("maya", ">=2022,<2025")
	require.NoError(t, err)

	assert.True(t, Satisfies(types.Version{Major: 2023}, c))
	assert.False(t, Satisfies(types.Version{Major: 2025}, c))
	assert.False(t, Satisfies(types.Version{Major: 2021}, c))
}

func TestSatisfiesPartialPrefix(t *testing.T) {
	c, err := ParseConstraint("maya", "2024.1")
	require.NoError(t, err)

	assert.True(t, Satisfies(types.Version{Major: 2024, Minor: 1, Patch: 0}, c))
	assert.True(t, Satisfies(types.Version{Major: 2024, Minor: 1, Patch: 9}, c))
	assert.False(t, Satisfies(types.Version{Major: 2024, Minor: 2, Patch: 0}, c))
}
