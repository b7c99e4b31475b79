package core

import "pkgforge/internal/types"

// Range is a single interval of the version line. HasLow/HasHigh false
// means unbounded on that side. This is the "constraint-to-range
// compiler" of spec.md §4.7: every Constraint atom lifts to one or two
// Ranges, and a Constraint (a conjunction of atoms) compiles to their
// intersection.
type Range struct {
	HasLow  bool
	Low     types.Version
	LowIncl bool

	HasHigh  bool
	High     types.Version
	HighIncl bool
}

// RangeSet is a union of Ranges.
type RangeSet []Range

// fullRange is the "any version" range: both bounds unbounded.
var fullRange = RangeSet{{}}

// atomRanges lifts one Atom to the Range(s) it denotes. Only != yields
// two ranges (the union of the two open half-ranges excluding V).
func atomRanges(a types.Atom) RangeSet {
	switch a.Op {
	case types.OpEq:
		if a.Partial && a.Components == 2 {
			low := types.Version{Major: a.Version.Major, Minor: a.Version.Minor, Patch: 0}
			high := types.Version{Major: a.Version.Major, Minor: a.Version.Minor + 1, Patch: 0}
			return RangeSet{{HasLow: true, Low: low, LowIncl: true, HasHigh: true, High: high, HighIncl: false}}
		}
		return RangeSet{{HasLow: true, Low: a.Version, LowIncl: true, HasHigh: true, High: a.Version, HighIncl: true}}
	case types.OpNe:
		return RangeSet{
			{HasHigh: true, High: a.Version, HighIncl: false},
			{HasLow: true, Low: a.Version, LowIncl: false},
		}
	case types.OpGte:
		return RangeSet{{HasLow: true, Low: a.Version, LowIncl: true}}
	case types.OpGt:
		return RangeSet{{HasLow: true, Low: a.Version, LowIncl: false}}
	case types.OpLte:
		return RangeSet{{HasHigh: true, High: a.Version, HighIncl: true}}
	case types.OpLt:
		return RangeSet{{HasHigh: true, High: a.Version, HighIncl: false}}
	default:
		return nil
	}
}

// CompileConstraint lifts a Constraint (a conjunction of atoms) to the
// RangeSet that is the intersection of every atom's ranges.
func CompileConstraint(c types.Constraint) RangeSet {
	result := fullRange
	for _, atom := range c.Atoms {
		result = Intersect(result, atomRanges(atom))
		if IsEmpty(result) {
			return nil
		}
	}
	return result
}

// Intersect returns the intersection of two range sets.
func Intersect(a, b RangeSet) RangeSet {
	var out RangeSet
	for _, ra := range a {
		for _, rb := range b {
			if r, ok := intersectRange(ra, rb); ok {
				out = append(out, r)
			}
		}
	}
	return out
}

// Union returns the union of two range sets. Ranges are not merged;
// Membership/IsEmpty treat a RangeSet as the union of its members
// regardless of overlap, so this is correct without normalization.
func Union(a, b RangeSet) RangeSet {
	out := make(RangeSet, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// Complement returns the complement of a range set (assumed to already
// be a disjoint, sorted union; callers that need complement of a
// possibly-overlapping set should normalize first — not required by
// any caller in this package).
func Complement(a RangeSet) RangeSet {
	if len(a) == 0 {
		return fullRange
	}
	sorted := normalize(a)
	var out RangeSet
	if sorted[0].HasLow {
		out = append(out, Range{HasHigh: true, High: sorted[0].Low, HighIncl: !sorted[0].LowIncl})
	}
	for i := 0; i < len(sorted)-1; i++ {
		out = append(out, Range{
			HasLow: true, Low: sorted[i].High, LowIncl: !sorted[i].HighIncl,
			HasHigh: true, High: sorted[i+1].Low, HighIncl: !sorted[i+1].LowIncl,
		})
	}
	last := sorted[len(sorted)-1]
	if last.HasHigh {
		out = append(out, Range{HasLow: true, Low: last.High, LowIncl: !last.HighIncl})
	}
	return out
}

// Membership reports whether v falls within any range of rs.
func Membership(v types.Version, rs RangeSet) bool {
	for _, r := range rs {
		if rangeContains(r, v) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether a range set denotes no versions at all.
func IsEmpty(rs RangeSet) bool {
	for _, r := range rs {
		if !rangeIsEmpty(r) {
			return false
		}
	}
	return true
}

func rangeContains(r Range, v types.Version) bool {
	if r.HasLow {
		cmp := v.Compare(r.Low)
		if cmp < 0 || (cmp == 0 && !r.LowIncl) {
			return false
		}
	}
	if r.HasHigh {
		cmp := v.Compare(r.High)
		if cmp > 0 || (cmp == 0 && !r.HighIncl) {
			return false
		}
	}
	return true
}

func rangeIsEmpty(r Range) bool {
	if !r.HasLow || !r.HasHigh {
		return false
	}
	cmp := r.Low.Compare(r.High)
	if cmp > 0 {
		return true
	}
	if cmp == 0 {
		return !(r.LowIncl && r.HighIncl)
	}
	return false
}

func intersectRange(a, b Range) (Range, bool) {
	out := Range{}

	switch {
	case !a.HasLow && !b.HasLow:
		out.HasLow = false
	case a.HasLow && !b.HasLow:
		out.HasLow, out.Low, out.LowIncl = true, a.Low, a.LowIncl
	case !a.HasLow && b.HasLow:
		out.HasLow, out.Low, out.LowIncl = true, b.Low, b.LowIncl
	default:
		cmp := a.Low.Compare(b.Low)
		switch {
		case cmp > 0:
			out.HasLow, out.Low, out.LowIncl = true, a.Low, a.LowIncl
		case cmp < 0:
			out.HasLow, out.Low, out.LowIncl = true, b.Low, b.LowIncl
		default:
			out.HasLow, out.Low, out.LowIncl = true, a.Low, a.LowIncl && b.LowIncl
		}
	}

	switch {
	case !a.HasHigh && !b.HasHigh:
		out.HasHigh = false
	case a.HasHigh && !b.HasHigh:
		out.HasHigh, out.High, out.HighIncl = true, a.High, a.HighIncl
	case !a.HasHigh && b.HasHigh:
		out.HasHigh, out.High, out.HighIncl = true, b.High, b.HighIncl
	default:
		cmp := a.High.Compare(b.High)
		switch {
		case cmp < 0:
			out.HasHigh, out.High, out.HighIncl = true, a.High, a.HighIncl
		case cmp > 0:
			out.HasHigh, out.High, out.HighIncl = true, b.High, b.HighIncl
		default:
			out.HasHigh, out.High, out.HighIncl = true, a.High, a.HighIncl && b.HighIncl
		}
	}

	if rangeIsEmpty(out) {
		return Range{}, false
	}
	return out, true
}

// normalize sorts ranges by low bound ascending (unbounded-low first).
// It does not merge overlaps; Complement only needs a stable order to
// walk the gaps between ranges, and the solver never feeds Complement
// an overlapping set.
func normalize(rs RangeSet) RangeSet {
	out := make(RangeSet, len(rs))
	copy(out, rs)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && rangeLess(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func rangeLess(a, b Range) bool {
	if !a.HasLow {
		return b.HasLow
	}
	if !b.HasLow {
		return false
	}
	return a.Low.Compare(b.Low) < 0
}
