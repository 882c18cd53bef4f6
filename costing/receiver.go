package costing

import (
	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/dphyp"
	"github.com/joinlab/hyperjoin/hypergraph"
	"github.com/joinlab/hyperjoin/orderset"
	"github.com/joinlab/hyperjoin/tracelog"
)

var _ dphyp.Receiver = (*Receiver)(nil)

// StatsSource is the opaque upstream collaborator supplying per-base-table
// statistics (spec.md §6 "Consumed from upstream"). Implementations may
// issue the single engine call for a fresh row-count refresh; costing never
// calls this more than once per node.
type StatsSource interface {
	// RowEstimate returns the estimated cardinality of the base relation at
	// nodeIdx.
	RowEstimate(nodeIdx int) float64
	// ScanCost returns the engine-reported cost of a full table scan of
	// the base relation at nodeIdx.
	ScanCost(nodeIdx int) float64
}

// MaterializeHint tells the receiver that a given node needs a
// materialization wrapper (derived table, CTE, or information-schema
// table) per spec.md §4.6's FoundSingleNode bullet. A StatsSource that has
// no such tables can ignore this interface entirely; FoundSingleNode treats
// a source that doesn't implement it as needing no materialization.
type MaterializeHint interface {
	MaterializeKind(nodeIdx int) (kind PathType, needed bool)
}

// Receiver is the DPhyp costing callback (spec.md §4.6): it implements
// dphyp.Receiver and keeps the single cheapest AccessPath per connected
// table subset it has seen.
//
// Grounded on original_source/sql/join_optimizer/join_optimizer.cc's
// CostingReceiver.
type Receiver struct {
	graph      *hypergraph.Hypergraph
	predicates []Predicate
	stats      StatsSource
	model      CostModel
	fsm        *orderset.FSM // optional; nil disables ordering-aware dominance
	trace      *tracelog.Trace

	best map[bitset.NodeSet]*AccessPath

	// Overflowed is set once the best-plan map has exceeded
	// model.AccessPathLimit, matching the abort signal spec.md §4.6 and §7
	// describe; the orchestrator inspects this to decide whether to retry
	// after graph simplification.
	Overflowed bool
}

// NewReceiver returns a Receiver ready to drive dphyp.Enumerate over graph.
// fsm may be nil (no ordering-aware dominance); trace may be nil (no
// tracing).
func NewReceiver(graph *hypergraph.Hypergraph, predicates []Predicate, stats StatsSource, model CostModel, fsm *orderset.FSM, trace *tracelog.Trace) *Receiver {
	return &Receiver{
		graph:      graph,
		predicates: predicates,
		stats:      stats,
		model:      model,
		fsm:        fsm,
		trace:      trace,
		best:       make(map[bitset.NodeSet]*AccessPath),
	}
}

// HasSeen implements dphyp.Receiver.
func (r *Receiver) HasSeen(s bitset.NodeSet) bool {
	_, ok := r.best[s]
	return ok
}

// Best returns the cheapest AccessPath found for table subset s, or nil if
// none was ever proposed.
func (r *Receiver) Best(s bitset.NodeSet) *AccessPath {
	return r.best[s]
}

// Root returns the best plan for joining every relation in the graph.
// Panics if enumeration never completed (the caller didn't run DPhyp to
// completion, or it aborted before reaching the full set) — matching the
// original's `assert(it != m_access_paths.end())` discipline for a
// genuinely-should-never-happen condition on the caller side.
func (r *Receiver) Root() *AccessPath {
	full := bitset.BelowIndex(r.graph.NumNodes())
	p, ok := r.best[full]
	if !ok {
		panic("costing: Root called before enumeration produced a plan for every relation")
	}
	return p
}

// FoundSingleNode implements dphyp.Receiver (spec.md §4.6 FoundSingleNode).
func (r *Receiver) FoundSingleNode(i int) bool {
	rows := r.stats.RowEstimate(i)
	cost := r.stats.ScanCost(i)

	path := &AccessPath{
		Type:                      TableScan,
		NumOutputRowsBeforeFilter: rows,
		CostBeforeFilter:          cost,
		Tables:                    bitset.Single(i),
		TableIdx:                  i,
	}

	myMap := bitset.Single(i)
	for idx, pred := range r.predicates {
		if pred.TotalEligibilitySet == myMap {
			path.FilterPredicates = path.FilterPredicates.Union(bitset.Single(idx))
			cost += rows * r.model.KFilter
			rows *= pred.Selectivity
		} else if pred.TotalEligibilitySet.Overlaps(myMap) {
			path.DelayedPredicates = path.DelayedPredicates.Union(bitset.Single(idx))
		}
	}
	path.NumOutputRows = rows
	path.Cost = cost

	if h, ok := r.stats.(MaterializeHint); ok {
		if kind, needed := h.MaterializeKind(i); needed {
			wrapped := &AccessPath{
				Type:                      kind,
				Children:                  []*AccessPath{path},
				NumOutputRows:             path.NumOutputRows,
				NumOutputRowsBeforeFilter: path.NumOutputRowsBeforeFilter,
				Cost:                      path.Cost,
				CostBeforeFilter:          path.Cost,
				Tables:                    path.Tables,
				FilterPredicates:          path.FilterPredicates,
				DelayedPredicates:         path.DelayedPredicates,
			}
			path.FilterPredicates, path.DelayedPredicates = 0, 0
			path = wrapped
		}
	}

	if r.trace != nil {
		r.trace.Printf("Found node %d [rows=%.0f, cost=%.1f]", i, path.NumOutputRows, path.Cost)
	}

	r.best[myMap] = path
	return false
}

// FoundSubgraphPair implements dphyp.Receiver (spec.md §4.6
// FoundSubgraphPair).
func (r *Receiver) FoundSubgraphPair(l, rhs bitset.NodeSet, edgeIdx int) bool {
	leftPath := r.best[l]
	rightPath := r.best[rhs]
	payload := r.graph.Payload(edgeIdx)

	// For inner joins, hash smaller-output-row side as the build side.
	if payload.JoinType == hypergraph.InnerJoin && leftPath.NumOutputRows < rightPath.NumOutputRows {
		r.proposeHashJoin(rhs, l, rightPath, leftPath, edgeIdx, payload)
	} else {
		r.proposeHashJoin(l, rhs, leftPath, rightPath, edgeIdx, payload)
	}

	limit := r.model.AccessPathLimit
	if limit <= 0 {
		limit = 100000
	}
	if len(r.best) > limit {
		r.Overflowed = true
		return true
	}
	return false
}

// outputRowsForJoin implements the per-join-type output-row formulas of
// spec.md §4.6.
func outputRowsForJoin(outerRows, innerRows, selectivity float64, jt hypergraph.JoinType) float64 {
	switch jt {
	case hypergraph.AntiJoin:
		return outerRows * (1.0 - selectivity)
	case hypergraph.SemiJoin:
		return outerRows * selectivity
	case hypergraph.LeftJoin, hypergraph.FullOuterJoin:
		n := outerRows * innerRows * selectivity
		if n < outerRows {
			n = outerRows
		}
		return n
	default:
		return outerRows * innerRows * selectivity
	}
}

func (r *Receiver) proposeHashJoin(left, right bitset.NodeSet, leftPath, rightPath *AccessPath, edgeIdx int, payload *hypergraph.EdgePayload) {
	outputRows := outputRowsForJoin(leftPath.NumOutputRows, rightPath.NumOutputRows, payload.Selectivity, payload.JoinType)

	cost := leftPath.Cost + rightPath.Cost
	cost += rightPath.NumOutputRows * r.model.KBuild
	cost += leftPath.NumOutputRows * r.model.KProbe
	cost += outputRows * r.model.KReturn
	cost += outputRows * float64(len(payload.Residual)) * r.model.KFilter

	joined := &AccessPath{
		Type:                      HashJoin,
		Children:                  []*AccessPath{leftPath, rightPath},
		NumOutputRowsBeforeFilter: outputRows,
		CostBeforeFilter:          cost,
		NumOutputRows:             outputRows,
		Cost:                      cost,
		Tables:                    left.Union(right),
		JoinType:                  payload.JoinType,
		EdgeIdx:                   edgeIdx,
	}

	r.applyDelayedPredicates(left, right, leftPath, rightPath, joined)

	if r.trace != nil {
		r.trace.Printf("Found sets %v and %v via edge %d [rows=%.0f, cost=%.1f]", left, right, edgeIdx, joined.NumOutputRows, joined.Cost)
	}

	key := left.Union(right)
	incumbent, ok := r.best[key]
	if !ok {
		r.best[key] = joined
		return
	}
	if r.model.ParetoByOrdering && r.fsm != nil {
		if r.dominates(joined, incumbent) {
			r.best[key] = joined
		}
		return
	}
	if joined.Cost < incumbent.Cost {
		r.best[key] = joined
	}
}

// applyDelayedPredicates implements spec.md §4.6's delayed-predicate XOR
// rule: a predicate delayed on exactly one child remains delayed; a
// predicate delayed on both is applied now if its TES is fully covered,
// and stays delayed (on the join, not either child) otherwise.
func (r *Receiver) applyDelayedPredicates(left, right bitset.NodeSet, leftPath, rightPath, joined *AccessPath) {
	joined.DelayedPredicates = leftPath.DelayedPredicates ^ rightPath.DelayedPredicates
	readyTables := left.Union(right)

	both := leftPath.DelayedPredicates & rightPath.DelayedPredicates
	both.ForEachAscendingFull(func(idx int) {
		pred := r.predicates[idx]
		if pred.TotalEligibilitySet.IsSubsetOf(readyTables) {
			joined.FilterPredicates = joined.FilterPredicates.Union(bitset.Single(idx))
			joined.Cost += joined.NumOutputRows * r.model.KFilter
			joined.NumOutputRows *= pred.Selectivity
		} else {
			joined.DelayedPredicates = joined.DelayedPredicates.Union(bitset.Single(idx))
		}
	})
}

// dominates reports whether candidate should replace incumbent under
// CostModel.ParetoByOrdering: candidate wins outright on cost, or is no
// more expensive and carries ordering information incumbent lacks.
//
// Grounded on original_source/sql/join_optimizer/compare_access_paths.h.
func (r *Receiver) dominates(candidate, incumbent *AccessPath) bool {
	if candidate.Cost < incumbent.Cost {
		return true
	}
	if candidate.Cost > incumbent.Cost {
		return false
	}
	return r.fsm.MoreOrderedThanState(candidate.OrderState, incumbent.OrderState, 0)
}
