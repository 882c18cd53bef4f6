package simplify

import (
	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/costing"
	"github.com/joinlab/hyperjoin/cyclefind"
	"github.com/joinlab/hyperjoin/hypergraph"
	"github.com/joinlab/hyperjoin/tracelog"
)

// sideRows is the cached (left, right) row estimate for one logical edge,
// updated whenever that edge is widened.
type sideRows struct {
	left, right float64
}

// undoEntry records enough to put one logical edge's endpoints back the way
// they were, for Simplifier.undo.
type undoEntry struct {
	edgeIdx           int
	before            int // the edge forced before edgeIdx by this step, for cycles.DeleteEdge
	oldLeft, oldRight bitset.NodeSet
	oldRows           sideRows
}

// candidate is one proposed simplification step: force before to happen
// before after, which widens after's endpoint to also cover before's
// endpoint on the side the two edges share.
type candidate struct {
	before, after       int
	newLeft, newRight   bitset.NodeSet
	benefit             float64
	genBefore, genAfter int // Simplifier.gen snapshot at push time
}

// Simplifier holds all state needed to widen a hypergraph's edges one step
// at a time, binary-search for the minimum number of steps needed, and undo
// steps cheaply.
//
// Grounded on original_source/.../graph_simplification.h's GraphSimplifier.
type Simplifier struct {
	graph *hypergraph.Hypergraph
	model costing.CostModel

	rows []sideRows
	gen  []int // bumped each time ModifyEdge changes edge i, invalidates stale candidates

	cycles *cyclefind.CycleFinder
	pq     candidateHeap

	done []undoEntry

	trace *tracelog.Trace
}

// candidateHeap is a container/heap max-heap of candidate, ordered by
// descending benefit. Stale entries (whose genBefore/genAfter snapshot no
// longer matches Simplifier.gen) are discarded lazily when popped, the same
// "push a new entry, ignore stale ones later" idiom
// _examples/katalvlaran-lvlath/dijkstra uses for its min-heap.
type candidateHeap []candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].benefit > h[j].benefit }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
