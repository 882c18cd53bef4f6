package simplify

import (
	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/hypergraph"
)

// isSubjoin reports whether a is already wholly part of b — i.e. it is
// impossible to execute b before a, so ordering them explicitly is
// pointless. For t1 LEFT JOIN (t2 JOIN t3), the t2-t3 join is a subjoin of
// the outer edge.
func isSubjoin(a, b hypergraph.Hyperedge) bool {
	return a.Left.Union(a.Right).IsSubsetOf(b.Left.Union(b.Right))
}

// sharedSide identifies which side of e1 and which side of e2 overlap by
// subset (one contains the other), returning the *other* ("far") side of
// each edge — the side whose rows matter for the benefit calculation. ok is
// false if no side pairing qualifies as neighboring.
func sharedSide(e1, e2 hypergraph.Hyperedge) (e1Shared, e1Far, e2Shared, e2Far bitset.NodeSet, ok bool) {
	subsetEither := func(a, b bitset.NodeSet) bool { return a.IsSubsetOf(b) || b.IsSubsetOf(a) }
	switch {
	case subsetEither(e1.Left, e2.Left):
		return e1.Left, e1.Right, e2.Left, e2.Right, true
	case subsetEither(e1.Left, e2.Right):
		return e1.Left, e1.Right, e2.Right, e2.Left, true
	case subsetEither(e1.Right, e2.Left):
		return e1.Right, e1.Left, e2.Left, e2.Right, true
	case subsetEither(e1.Right, e2.Right):
		return e1.Right, e1.Left, e2.Right, e2.Left, true
	default:
		return 0, 0, 0, 0, false
	}
}

// rowsOf returns the cached row estimate for side s of edge idx's shape,
// picking left or right by whether s matches the edge's current Left.
func (s *Simplifier) rowsOf(edgeIdx int, far bitset.NodeSet) float64 {
	edge := s.graph.LogicalEdge(edgeIdx)
	if far == edge.Left {
		return s.rows[edgeIdx].left
	}
	return s.rows[edgeIdx].right
}

// hashJoinCost applies the spec.md §4.4 cost model to a hypothetical join of
// build rows against probe rows.
func (s *Simplifier) hashJoinCost(buildRows, probeRows float64) (cost, outputRows float64) {
	outputRows = buildRows * probeRows
	cost = buildRows*s.model.KBuild + probeRows*s.model.KProbe + outputRows*s.model.KReturn
	return cost, outputRows
}

// twoStepCost estimates the cost of joining common against firstFar, then
// joining that result against secondFar — the chained cost comparison
// spec.md §4.4 describes for deciding which of two neighboring edges should
// be forced to apply first.
func (s *Simplifier) twoStepCost(common, firstFar, secondFar float64) float64 {
	cost1, out1 := s.hashJoinCost(common, firstFar)
	cost2, _ := s.hashJoinCost(out1, secondFar)
	return cost1 + cost2
}

// proposeStep computes the candidate (if any) for ordering edge1 before
// edge2, given that they are neighboring on the endpoints described by
// sharedSide. Returns ok=false if edge1 is already a subjoin of edge2 or
// vice versa.
func (s *Simplifier) proposeStep(edge1, edge2 int) (candidate, bool) {
	e1 := s.graph.LogicalEdge(edge1)
	e2 := s.graph.LogicalEdge(edge2)
	if isSubjoin(e1, e2) || isSubjoin(e2, e1) {
		return candidate{}, false
	}

	e1Shared, e1Far, e2Shared, e2Far, ok := sharedSide(e1, e2)
	if !ok {
		return candidate{}, false
	}

	e1FarRows := s.rowsOf(edge1, e1Far)
	e2FarRows := s.rowsOf(edge2, e2Far)
	common := max(s.rowsOf(edge1, e1Shared), s.rowsOf(edge2, e2Shared))

	costE1First := s.twoStepCost(common, e1FarRows, e2FarRows)
	costE2First := s.twoStepCost(common, e2FarRows, e1FarRows)

	before, after := edge1, edge2
	beforeFar, afterShared := e1Far, e2Shared
	cheaper, costlier := costE1First, costE2First
	if costE2First < costE1First {
		before, after = edge2, edge1
		beforeFar, afterShared = e2Far, e1Shared
		cheaper, costlier = costE2First, costE1First
	}
	if cheaper <= 0 {
		return candidate{}, false
	}

	// The join that happens first (before) has already absorbed its far
	// side by the time after runs, so after's shared endpoint widens to
	// cover it too.
	widened := afterShared.Union(beforeFar)
	afterEdge := s.graph.LogicalEdge(after)
	newLeft, newRight := afterEdge.Left, afterEdge.Right
	if afterShared == afterEdge.Left {
		newLeft = widened
	} else {
		newRight = widened
	}

	return candidate{
		before:    before,
		after:     after,
		newLeft:   newLeft,
		newRight:  newRight,
		benefit:   costlier / cheaper,
		genBefore: s.gen[before],
		genAfter:  s.gen[after],
	}, true
}
