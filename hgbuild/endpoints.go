package hgbuild

import (
	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/hypergraph"
)

// conservativeEndpoints computes the (left, right) hyperedge shape for join
// node e given the full set of conditions attached to it, per spec.md §4.5:
// each side's endpoint is the subset of that child's subtree actually
// referenced by some condition, widened to the full subtree when the child
// isn't an inner-join-only subtree (over-constraining preserves correctness
// for outer/semi/anti children), and widened to both full subtrees in the
// degenerate case where either side would otherwise be empty.
//
// This conservative shape is the only one computed: no conflict-detection
// pass narrows it afterwards, so some valid reorderings around outer, semi
// and anti joins are not representable in the resulting hypergraph.
func conservativeEndpoints(e *RelationalExpression, conds []Condition) (left, right bitset.NodeSet) {
	var usedLeft, usedRight bitset.NodeSet
	for _, c := range conds {
		usedLeft = usedLeft.Union(c.UsedTables.Intersect(e.Left.TablesInSubtree))
		usedRight = usedRight.Union(c.UsedTables.Intersect(e.Right.TablesInSubtree))
	}

	left = usedLeft
	if !isInnerJoinOnlySubtree(e.Left) {
		left = e.Left.TablesInSubtree
	}
	right = usedRight
	if !isInnerJoinOnlySubtree(e.Right) {
		right = e.Right.TablesInSubtree
	}

	if left.Empty() || right.Empty() {
		return e.Left.TablesInSubtree, e.Right.TablesInSubtree
	}
	return left, right
}

// joinTypeOf maps an ExprType to the hypergraph.JoinType it produces.
// CartesianProductExpr maps to InnerJoin with no conditions, which is
// exactly what a cartesian product is. Callers must not call this with
// TableExpr.
func joinTypeOf(t ExprType) hypergraph.JoinType {
	switch t {
	case StraightInnerJoinExpr:
		return hypergraph.StraightInnerJoin
	case LeftJoinExpr:
		return hypergraph.LeftJoin
	case FullOuterJoinExpr:
		return hypergraph.FullOuterJoin
	case SemiJoinExpr:
		return hypergraph.SemiJoin
	case AntiJoinExpr:
		return hypergraph.AntiJoin
	case MultiInnerJoinExpr:
		return hypergraph.MultiInnerJoin
	default:
		return hypergraph.InnerJoin
	}
}
