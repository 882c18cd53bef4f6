package hgbuild

import "github.com/joinlab/hyperjoin/bitset"

// AssignNodes walks e bottom-up, assigning TableIdx to every TableExpr leaf
// in left-to-right order and filling in TablesInSubtree for every node.
// Callers must run this exactly once per tree before any other hgbuild
// function consumes it.
func AssignNodes(e *RelationalExpression) {
	assignNodes(e, new(int))
}

func assignNodes(e *RelationalExpression, next *int) {
	if e == nil {
		return
	}
	if e.Type == TableExpr {
		e.TableIdx = *next
		*next++
		e.TablesInSubtree = bitset.Single(e.TableIdx)
		return
	}
	assignNodes(e.Left, next)
	assignNodes(e.Right, next)
	e.TablesInSubtree = e.Left.TablesInSubtree.Union(e.Right.TablesInSubtree)
}

// isInnerJoinOnlySubtree reports whether every node in e's subtree is a
// table or an unconditionally-reorderable inner join, per spec.md §4.5's
// conservative-endpoint rule.
func isInnerJoinOnlySubtree(e *RelationalExpression) bool {
	switch e.Type {
	case TableExpr:
		return true
	case InnerJoinExpr, StraightInnerJoinExpr, CartesianProductExpr, MultiInnerJoinExpr:
		return isInnerJoinOnlySubtree(e.Left) && isInnerJoinOnlySubtree(e.Right)
	default:
		return false
	}
}

// isOuterOrAntiOrFull reports whether t is one of the join kinds whose
// null-producing (or existence-only) side blocks predicate pushdown.
func isOuterOrAntiOrFull(t ExprType) bool {
	switch t {
	case LeftJoinExpr, AntiJoinExpr, SemiJoinExpr, FullOuterJoinExpr:
		return true
	default:
		return false
	}
}

// pushdownBlocks reports, for a join of type t, whether pushing a WHERE
// condition further down the left or right child is disallowed. Only the
// null-producing (or, for semi/anti, non-output) side blocks; full outer
// joins block both, since either side may be null-complemented.
func pushdownBlocks(t ExprType) (blockLeft, blockRight bool) {
	switch t {
	case LeftJoinExpr:
		return false, true
	case SemiJoinExpr, AntiJoinExpr:
		return false, true
	case FullOuterJoinExpr:
		return true, true
	default:
		return false, false
	}
}
