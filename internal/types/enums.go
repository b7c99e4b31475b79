package types

// EvarAction selects how a new Evar value merges onto an already
// accumulated value during Env.Compress.
type EvarAction string

const (
	ActionSet    EvarAction = "set"
	ActionAppend EvarAction = "append"
	ActionInsert EvarAction = "insert"
)

// ConstraintOp is the comparison operator of a single constraint atom.
type ConstraintOp string

const (
	OpEq  ConstraintOp = "=="
	OpNe  ConstraintOp = "!="
	OpGte ConstraintOp = ">="
	OpLte ConstraintOp = "<="
	OpGt  ConstraintOp = ">"
	OpLt  ConstraintOp = "<"
)

// SolveStatus records the outcome of the last solve performed for a
// Package's dependency set.
type SolveStatus string

const (
	SolveStatusUnresolved SolveStatus = ""
	SolveStatusSolved     SolveStatus = "solved"
	SolveStatusNoSolution SolveStatus = "no_solution"
)
