package simplify

import (
	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/hypergraph"
)

// graphIsJoinable runs the brute-force connectivity simulation of
// spec.md §4.4: start with every table in its own component, repeatedly
// apply any edge whose two sides each sit wholly inside a single (distinct)
// component and whose conflict rules are satisfied, merging those
// components, until a full pass makes no further progress. The graph is
// joinable iff exactly one component remains.
//
// This re-derives joinability from scratch on every call rather than
// tracking it incrementally; the original explicitly accepts this cost,
// since it only runs once per simplification step.
func (s *Simplifier) graphIsJoinable() bool {
	n := s.graph.NumNodes()
	componentOf := make([]int, n)
	members := make(map[int]bitset.NodeSet, n)
	for i := 0; i < n; i++ {
		componentOf[i] = i
		members[i] = bitset.Single(i)
	}

	order := s.cycles.Order()

	for {
		changed := false
		for _, edgeIdx := range order {
			edge := s.graph.LogicalEdge(edgeIdx)
			leftComp, leftOK := componentContaining(componentOf, members, edge.Left)
			rightComp, rightOK := componentContaining(componentOf, members, edge.Right)
			if !leftOK || !rightOK || leftComp == rightComp {
				continue
			}

			merged := members[leftComp].Union(members[rightComp])
			if !conflictRulesSatisfied(s.graph.Payload(edgeIdx).ConflictRules, merged) {
				continue
			}

			mergeComponents(componentOf, members, leftComp, rightComp)
			changed = true
		}
		if !changed {
			break
		}
	}

	return len(members) == 1
}

// componentContaining returns the component id whose member set fully
// contains tables, or ok=false if no single component does.
func componentContaining(componentOf []int, members map[int]bitset.NodeSet, tables bitset.NodeSet) (id int, ok bool) {
	id = componentOf[tables.LowestBitIndex()]
	return id, tables.IsSubsetOf(members[id])
}

// mergeComponents folds b's members into a, relabeling every node that was
// in b.
func mergeComponents(componentOf []int, members map[int]bitset.NodeSet, a, b int) {
	merged := members[a].Union(members[b])
	members[b].ForEachAscendingFull(func(i int) {
		componentOf[i] = a
	})
	members[a] = merged
	delete(members, b)
}

func conflictRulesSatisfied(rules []hypergraph.ConflictRule, candidate bitset.NodeSet) bool {
	for _, r := range rules {
		if !r.Satisfied(candidate) {
			return false
		}
	}
	return true
}
