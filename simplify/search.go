package simplify

import (
	"github.com/joinlab/hyperjoin/costing"
	"github.com/joinlab/hyperjoin/dphyp"
	"github.com/joinlab/hyperjoin/hypergraph"
	"github.com/joinlab/hyperjoin/tracelog"
)

// pairCount re-enumerates graph with a CountingReceiver capped at limit,
// returning the csg-cmp pair count (possibly limit+1, meaning "over the
// limit" without having paid for an exact count).
func pairCount(graph *hypergraph.Hypergraph, limit int) int {
	recv := dphyp.NewCountingReceiver(limit)
	dphyp.Enumerate(graph, recv)
	return recv.Pairs
}

// Simplify widens graph's hyperedges, applying the fewest simplification
// steps needed to bring DPhyp's estimated csg-cmp pair count at or below
// limit: an exponential search first brackets a sufficient step count, then
// a binary search narrows it to the minimum, per spec.md §4.4.
//
// graph is mutated in place. trace may be nil. Returns the number of steps
// applied. If every available step has been applied and the pair count is
// still above limit, returns ErrLimitUnreachable alongside the step count
// for the fully-simplified (best-effort) graph.
func Simplify(graph *hypergraph.Hypergraph, limit int, model costing.CostModel, trace *tracelog.Trace) (int, error) {
	if pairCount(graph, limit) <= limit {
		return 0, nil
	}

	s := NewSimplifier(graph, model, trace)

	lo, hi := 0, 1
	for {
		if err := s.seekTo(hi); err != nil {
			hi = s.Steps()
			break
		}
		if pairCount(graph, limit) <= limit {
			break
		}
		lo = hi
		hi *= 2
	}

	if pairCount(graph, limit) > limit {
		if err := s.seekTo(hi); err != nil {
			return s.Steps(), err
		}
		return s.Steps(), ErrLimitUnreachable
	}

	for lo+1 < hi {
		mid := (lo + hi) / 2
		if err := s.seekTo(mid); err != nil {
			hi = s.Steps()
			continue
		}
		if pairCount(graph, limit) <= limit {
			hi = mid
		} else {
			lo = mid
		}
	}

	if err := s.seekTo(hi); err != nil {
		return s.Steps(), err
	}
	return s.Steps(), nil
}
