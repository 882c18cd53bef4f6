package hgbuild

import "github.com/joinlab/hyperjoin/bitset"

// ComputeTES computes the total eligibility set for a WHERE predicate with
// syntactic table usage used, per spec.md §4.5: walk the tree bottom-up,
// and whenever an outer/anti/full-outer join's right subtree overlaps the
// eligibility set accumulated so far, extend it to cover the whole join
// (the predicate cannot be evaluated until that join has resolved its
// null-complementing semantics).
func ComputeTES(e *RelationalExpression, used bitset.NodeSet) bitset.NodeSet {
	if e == nil || e.Type == TableExpr {
		return used
	}
	result := ComputeTES(e.Left, used).Union(ComputeTES(e.Right, used))
	if isOuterOrAntiOrFull(e.Type) && e.Right.TablesInSubtree.Overlaps(result) {
		result = result.Union(e.TablesInSubtree)
	}
	return result
}

// findLanding returns the lowest node in e's subtree whose TablesInSubtree
// still fully contains used, stopping early at a join whose shape blocks
// further descent on the only side that would otherwise qualify.
func findLanding(e *RelationalExpression, used bitset.NodeSet) *RelationalExpression {
	if e.Type == TableExpr {
		return e
	}
	blockLeft, blockRight := pushdownBlocks(e.Type)
	if !blockLeft && used.IsSubsetOf(e.Left.TablesInSubtree) {
		return findLanding(e.Left, used)
	}
	if !blockRight && used.IsSubsetOf(e.Right.TablesInSubtree) {
		return findLanding(e.Right, used)
	}
	return e
}
