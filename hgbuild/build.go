package hgbuild

import (
	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/costing"
	"github.com/joinlab/hyperjoin/hypergraph"
)

// Result is everything Build produces: the hypergraph DPhyp enumerates over,
// plus the WHERE-level predicates the costing receiver applies as each
// subset becomes eligible.
type Result struct {
	Graph      *hypergraph.Hypergraph
	Predicates []costing.Predicate
}

// Build converts root (already annotated with JoinConditions) plus a WHERE
// conjunction into a Result, performing predicate pushdown, equijoin
// detection, selectivity estimation and total-eligibility-set computation
// along the way (spec.md §4.5). estimator may be nil, in which case every
// condition uses the fixed selectivity fallbacks.
//
// Build calls AssignNodes itself; callers must not call it beforehand with a
// different tree and reuse table indices across calls.
func Build(root *RelationalExpression, where []Condition, estimator SelectivityEstimator) (Result, error) {
	if root == nil {
		return Result{}, ErrNilExpression
	}
	AssignNodes(root)

	graph := hypergraph.New()
	if err := addLeaves(graph, root); err != nil {
		return Result{}, err
	}

	absorbed := make(map[*RelationalExpression][]Condition)
	var predicates []costing.Predicate
	seenMultiEquality := make(map[multiEqualityKey]bool)

	for _, c := range where {
		if !c.UsedTables.IsSubsetOf(root.TablesInSubtree) {
			return Result{}, ErrConditionOutOfRange
		}
		landing := findLanding(root, c.UsedTables)

		var tes bitset.NodeSet
		landOnJoin := landing.Type != TableExpr
		straddles := landOnJoin &&
			!c.UsedTables.IsSubsetOf(landing.Left.TablesInSubtree) &&
			!c.UsedTables.IsSubsetOf(landing.Right.TablesInSubtree)

		switch {
		case !landOnJoin:
			tes = landing.TablesInSubtree
		case straddles && !isOuterOrAntiOrFull(landing.Type):
			absorbed[landing] = append(absorbed[landing], c)
			continue
		default:
			tes = ComputeTES(root, c.UsedTables)
		}

		if c.SourceMultipleEquality > 0 {
			key := multiEqualityKey{idx: c.SourceMultipleEquality, tes: tes}
			if seenMultiEquality[key] {
				continue
			}
			seenMultiEquality[key] = true
		}

		predicates = append(predicates, costing.Predicate{
			Handle:                 c.Handle,
			TotalEligibilitySet:    tes,
			Selectivity:            estimateSelectivity(estimator, c),
			SourceMultipleEquality: c.SourceMultipleEquality,
		})
	}

	if err := addJoins(graph, root, absorbed, estimator); err != nil {
		return Result{}, err
	}

	return Result{Graph: graph, Predicates: predicates}, nil
}

type multiEqualityKey struct {
	idx int
	tes bitset.NodeSet
}

// addLeaves adds every TableExpr leaf to graph in TableIdx order.
func addLeaves(graph *hypergraph.Hypergraph, e *RelationalExpression) error {
	if e.Type == TableExpr {
		idx, err := graph.AddNode(e.RowEstimate, e.Alias)
		if err != nil {
			return err
		}
		if idx != e.TableIdx {
			return ErrConditionOutOfRange
		}
		return nil
	}
	if err := addLeaves(graph, e.Left); err != nil {
		return err
	}
	return addLeaves(graph, e.Right)
}

// addJoins walks e post-order, emitting one hyperedge per join node.
func addJoins(graph *hypergraph.Hypergraph, e *RelationalExpression, absorbed map[*RelationalExpression][]Condition, estimator SelectivityEstimator) error {
	if e.Type == TableExpr {
		return nil
	}
	if err := addJoins(graph, e.Left, absorbed, estimator); err != nil {
		return err
	}
	if err := addJoins(graph, e.Right, absorbed, estimator); err != nil {
		return err
	}

	conds := append(append([]Condition{}, e.JoinConditions...), absorbed[e]...)
	left, right := conservativeEndpoints(e, conds)

	payload := hypergraph.EdgePayload{JoinType: joinTypeOf(e.Type)}
	for _, c := range conds {
		cond := hypergraph.Condition{
			Handle:         c.Handle,
			UsedTables:     c.UsedTables,
			Equality:       isEquijoin(e, c),
			LeftArgTables:  c.LeftArgTables,
			RightArgTables: c.RightArgTables,
			Selectivity:    estimateSelectivity(estimator, c),
		}
		if cond.Equality {
			payload.Equi = append(payload.Equi, cond)
		} else {
			payload.Residual = append(payload.Residual, cond)
		}
	}
	payload.Selectivity = combinedSelectivity(estimator, conds)
	payload.ConflictRules = attachConflictRules(e.Type, left, right)

	_, err := graph.AddEdge(left, right, payload)
	return err
}

// isEquijoin reports whether c is a single-column equality whose two
// arguments straddle e's two children, in either orientation.
func isEquijoin(e *RelationalExpression, c Condition) bool {
	if !c.Equality {
		return false
	}
	forward := c.LeftArgTables.IsSubsetOf(e.Left.TablesInSubtree) && c.RightArgTables.IsSubsetOf(e.Right.TablesInSubtree)
	backward := c.LeftArgTables.IsSubsetOf(e.Right.TablesInSubtree) && c.RightArgTables.IsSubsetOf(e.Left.TablesInSubtree)
	return forward || backward
}

// attachConflictRules implements the conservative reordering barrier for
// non-inner joins: once any node on the null-producing (or existence-only)
// side is in play, the whole of the other side must be too, since the join
// cannot be partially evaluated without breaking its semantics.
//
// Grounded on original_source/sql/join_optimizer/make_join_hypergraph.cc's
// conflict-rule construction pass, simplified to the single rule per edge
// the original derives for the common two-sided case (the original also
// handles multi-edge conflict-rule merging across a whole subtree, which
// this core's closed, per-edge ConflictRule list does not attempt).
func attachConflictRules(t ExprType, left, right bitset.NodeSet) []hypergraph.ConflictRule {
	if !isOuterOrAntiOrFull(t) {
		return nil
	}
	return []hypergraph.ConflictRule{{NeededToActivate: right, RequiredNodes: left}}
}
