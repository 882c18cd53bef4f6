package simplify

import (
	"container/heap"

	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/costing"
	"github.com/joinlab/hyperjoin/cyclefind"
	"github.com/joinlab/hyperjoin/hypergraph"
	"github.com/joinlab/hyperjoin/tracelog"
)

// NewSimplifier prepares graph for incremental widening: it estimates every
// edge's left/right row counts, seeds the candidate queue with every
// neighboring edge pair's proposed step, and builds the ordering-constraint
// graph simplification steps add to.
//
// trace may be nil.
func NewSimplifier(graph *hypergraph.Hypergraph, model costing.CostModel, trace *tracelog.Trace) *Simplifier {
	n := graph.NumLogicalEdges()
	s := &Simplifier{
		graph:  graph,
		model:  model,
		rows:   make([]sideRows, n),
		gen:    make([]int, n),
		cycles: cyclefind.New(n),
		trace:  trace,
	}

	for k := 0; k < n; k++ {
		edge := graph.LogicalEdge(k)
		s.rows[k] = sideRows{
			left:  s.estimateRows(edge.Left),
			right: s.estimateRows(edge.Right),
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if c, ok := s.proposeStep(i, j); ok {
				heap.Push(&s.pq, c)
			}
		}
	}

	return s
}

// estimateRows approximates the row count of a (possibly composite) side of
// an edge: the product of each member table's standalone row estimate,
// discounted by the selectivity of every already-built edge wholly
// contained in side.
func (s *Simplifier) estimateRows(side bitset.NodeSet) float64 {
	rows := 1.0
	side.ForEachAscendingFull(func(i int) {
		rows *= s.graph.Nodes[i].RowEstimate
	})
	for k := 0; k < s.graph.NumLogicalEdges(); k++ {
		edge := s.graph.LogicalEdge(k)
		if edge.Left.IsSubsetOf(side) && edge.Right.IsSubsetOf(side) {
			rows *= s.graph.Payload(k).Selectivity
		}
	}
	return rows
}

// Steps returns how many simplification steps have been applied so far.
func (s *Simplifier) Steps() int { return len(s.done) }

// step pops the highest-benefit still-valid candidate and applies it,
// verifying the result remains joinable; a candidate whose application
// would make the graph unjoinable is discarded (not retried) and the next
// candidate is tried instead. Returns false once the queue is exhausted.
//
// Grounded on original_source/sql/join_optimizer/graph_simplification.cc's
// DoSimplificationStep / UndoSimplificationStep.
func (s *Simplifier) step() bool {
	for s.pq.Len() > 0 {
		c := heap.Pop(&s.pq).(candidate)
		if c.genBefore != s.gen[c.before] || c.genAfter != s.gen[c.after] {
			continue // stale: one of the two edges has since been widened
		}

		after := s.graph.LogicalEdge(c.after)
		wouldCycle := s.cycles.AddEdge(c.before, c.after)
		if wouldCycle {
			continue // forcing this order conflicts with an already-forced one
		}

		if err := s.graph.ModifyEdge(c.after, c.newLeft, c.newRight); err != nil {
			s.cycles.DeleteEdge(c.before, c.after) //nolint:errcheck // best-effort rollback of the constraint we just added
			continue
		}

		oldRows := s.rows[c.after]
		s.rows[c.after] = sideRows{left: s.estimateRows(c.newLeft), right: s.estimateRows(c.newRight)}
		s.gen[c.after]++

		if !s.graphIsJoinable() {
			// Revert: restore shape, row cache, and the ordering constraint.
			_ = s.graph.ModifyEdge(c.after, after.Left, after.Right)
			s.rows[c.after] = oldRows
			s.gen[c.after]++
			_ = s.cycles.DeleteEdge(c.before, c.after)
			continue
		}

		s.done = append(s.done, undoEntry{
			edgeIdx:  c.after,
			before:   c.before,
			oldLeft:  after.Left,
			oldRight: after.Right,
			oldRows:  oldRows,
		})

		if s.trace != nil {
			s.trace.Printf("simplify: forced edge %d before edge %d, widened %d to (%v, %v)",
				c.before, c.after, c.after, c.newLeft, c.newRight)
		}

		s.repropose(c.after)
		return true
	}
	return false
}

// undo reverts the most recently applied step.
func (s *Simplifier) undo() {
	n := len(s.done)
	if n == 0 {
		return
	}
	last := s.done[n-1]
	s.done = s.done[:n-1]

	_ = s.graph.ModifyEdge(last.edgeIdx, last.oldLeft, last.oldRight)
	s.rows[last.edgeIdx] = last.oldRows
	s.gen[last.edgeIdx]++
	_ = s.cycles.DeleteEdge(last.before, last.edgeIdx)

	s.repropose(last.edgeIdx)
}

// repropose pushes fresh candidates for every pair involving edgeIdx, after
// its shape (and therefore its row estimates) changed.
func (s *Simplifier) repropose(edgeIdx int) {
	for k := 0; k < s.graph.NumLogicalEdges(); k++ {
		if k == edgeIdx {
			continue
		}
		a, b := edgeIdx, k
		if a > b {
			a, b = b, a
		}
		if c, ok := s.proposeStep(a, b); ok {
			heap.Push(&s.pq, c)
		}
	}
}

// seekTo moves the simplifier to exactly target applied steps, stepping
// forward or undoing as needed. Returns ErrNoViableStep if target exceeds
// the number of steps actually reachable.
func (s *Simplifier) seekTo(target int) error {
	for len(s.done) > target {
		s.undo()
	}
	for len(s.done) < target {
		if !s.step() {
			return ErrNoViableStep
		}
	}
	return nil
}
