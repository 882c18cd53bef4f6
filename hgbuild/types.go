package hgbuild

import "github.com/joinlab/hyperjoin/bitset"

// ExprType identifies the closed set of RelationalExpression node shapes.
// Per spec.md §9, dispatch on this is a switch, never open inheritance.
type ExprType int

const (
	TableExpr ExprType = iota
	InnerJoinExpr
	StraightInnerJoinExpr
	LeftJoinExpr
	FullOuterJoinExpr
	SemiJoinExpr
	AntiJoinExpr
	MultiInnerJoinExpr
	CartesianProductExpr
)

// RelationalExpression is the pre-hypergraph join tree (spec.md §3). Leaves
// are TableExpr; every other node has both Left and Right set.
type RelationalExpression struct {
	Type  ExprType
	Left  *RelationalExpression
	Right *RelationalExpression

	// JoinConditions holds the ON-clause conditions attached to this node at
	// input time (before WHERE pushdown adds more). Meaningless for
	// TableExpr.
	JoinConditions []Condition

	// TablesInSubtree is filled in by AssignNodes; it is the bitmap of
	// table indices reachable from this node.
	TablesInSubtree bitset.NodeSet

	// TableIdx, RowEstimate and Alias are meaningful only for TableExpr;
	// TableIdx is assigned by AssignNodes in left-to-right leaf order.
	TableIdx    int
	RowEstimate float64
	Alias       string
}

// Condition is a single join or WHERE condition as hgbuild consumes it:
// an opaque handle plus the syntactic information needed for pushdown,
// equijoin detection and selectivity estimation. Shaped after
// hypergraph.Condition, with two additions hgbuild needs internally:
// Inequality (to pick the right selectivity fallback bucket) and
// SourceMultipleEquality (to let FoundSingleNode-adjacent dedup logic avoid
// double-counting two conditions implied by the same upstream multi-equality
// — multi-equality resolution itself happens upstream of this package, per
// spec.md §1 Non-goals).
type Condition struct {
	Handle any

	UsedTables bitset.NodeSet

	// Equality and Inequality are mutually exclusive; both false means an
	// operator this core does not recognize (the 0.5 selectivity fallback
	// bucket).
	Equality   bool
	Inequality bool

	// LeftArgTables and RightArgTables are meaningful only when Equality is
	// true; they drive hash-join build/probe key extraction once this
	// condition lands on a join edge.
	LeftArgTables  bitset.NodeSet
	RightArgTables bitset.NodeSet

	// SourceMultipleEquality is the upstream multi-equality index this
	// condition was concretized from (1-based), or 0 if it wasn't — the
	// Go zero value doubles as "no multi-equality" so callers that never
	// set this field get the correct default.
	SourceMultipleEquality int
}

// SelectivityEstimator is the opaque upstream collaborator that can produce
// a refined selectivity estimate for a condition (spec.md §6 "statistics").
// A nil SelectivityEstimator, or one returning ok=false, falls back to the
// fixed buckets of estimateSelectivity.
type SelectivityEstimator interface {
	EstimateSelectivity(c Condition) (selectivity float64, ok bool)
}
