package costing

import (
	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/hypergraph"
	"github.com/joinlab/hyperjoin/orderset"
)

// PredicateSet is a bitmap over predicate indices, reusing bitset.NodeSet's
// branch-light operations for a concern that isn't node sets but shares the
// same "up to 64 bits, dense, hot-path" shape.
type PredicateSet = bitset.NodeSet

// Predicate is a WHERE-level (as opposed to join-ON-level) condition, per
// spec.md §3. SourceMultipleEquality, when > 0, names the (1-based) upstream
// multiple-equality this predicate was concretized from, so hgbuild can
// avoid double-applying two predicates implied by the same multi-equality
// (the costing receiver does not read it); 0 is the Go zero value and means "not concretized
// from a multi-equality".
type Predicate struct {
	Handle                  any
	TotalEligibilitySet     bitset.NodeSet
	Selectivity             float64
	SourceMultipleEquality  int
	FunctionalDependencies  orderset.FDSet
}

// PathType tags the closed set of AccessPath variants this core produces.
// Per spec.md §9, dispatch on this is a switch, never open inheritance.
type PathType int

const (
	TableScan PathType = iota
	HashJoin
	Filter
	Sort
	Aggregate
	LimitOffset
	MaterializeDerived
	MaterializeCTE
	MaterializeInformationSchema
)

// AccessPath is the tagged-variant plan node this core produces and the
// orchestrator (package planner) wraps with post-join operators.
//
// Invariant (spec.md §3, §8): FilterPredicates and DelayedPredicates are
// disjoint; Cost >= CostBeforeFilter >= sum of Children costs.
type AccessPath struct {
	Type PathType

	// Children holds 0 (TableScan), 1 (Filter/Sort/Aggregate/LimitOffset/
	// Materialize*), or 2 (HashJoin: outer/probe at [0], inner/build at
	// [1]) child paths.
	Children []*AccessPath

	NumOutputRows             float64
	Cost                      float64
	NumOutputRowsBeforeFilter float64
	CostBeforeFilter          float64

	FilterPredicates  PredicateSet
	DelayedPredicates PredicateSet

	// Tables is the set of base relations covered by this node; it is the
	// map key the best-plan table in Receiver is keyed by.
	Tables bitset.NodeSet

	// TableIdx is meaningful only for TableScan.
	TableIdx int

	// JoinType and EdgeIdx are meaningful only for HashJoin.
	JoinType hypergraph.JoinType
	EdgeIdx  int

	// Limit/Offset are meaningful only for LimitOffset.
	Limit, Offset int64

	// OrderState is the interesting-orderings FSM state this path's output
	// is known to satisfy. Zero value is the FSM's initial (unordered)
	// state. The costing receiver does not assign it, so every path it
	// builds carries the zero value, with or without an FSM.
	OrderState orderset.State
}

// Outer returns the probe-side child of a HashJoin (nil otherwise).
func (p *AccessPath) Outer() *AccessPath {
	if len(p.Children) > 0 {
		return p.Children[0]
	}
	return nil
}

// Inner returns the build-side child of a HashJoin (nil otherwise).
func (p *AccessPath) Inner() *AccessPath {
	if len(p.Children) > 1 {
		return p.Children[1]
	}
	return nil
}

// Input returns the sole child of a unary AccessPath (nil otherwise).
func (p *AccessPath) Input() *AccessPath {
	if len(p.Children) > 0 {
		return p.Children[0]
	}
	return nil
}
