// File: api.go
// Role: public facade for building and mutating a Hypergraph.
// Policy: construction/mutation logic lives here; dphyp and simplify treat
// Hypergraph as read-mostly data and never bypass these entry points when
// they need to change edge shape (package simplify, through ModifyEdge, is
// the sole writer post-construction).
package hypergraph

import "github.com/joinlab/hyperjoin/bitset"

// AddNode appends a new node with empty adjacency and zero simple
// neighborhood, returning its index. Complexity: O(1) amortized.
func (h *Hypergraph) AddNode(rowEstimate float64, alias string) (int, error) {
	if len(h.Nodes) >= bitset.MaxNodes {
		return -1, ErrTooManyNodes
	}
	idx := len(h.Nodes)
	h.Nodes = append(h.Nodes, Node{RowEstimate: rowEstimate, Alias: alias})
	return idx, nil
}

// AddEdge appends a new logical hyperedge (left, right) with the given
// payload, storing it twice (canonical at physical index 2k with Left=left,
// swapped at 2k+1 with Left=right) and updating adjacency lists. A node's
// adjacency list always references the physical copy where that node's side
// is on the Left — this is what lets dphyp's hot loops test
// e.Left.IsSubsetOf(subgraph) without first checking which side the current
// node fell on. Returns the logical edge index k (physical indices 2k,
// 2k+1).
//
// Complexity: O(1) for a simple edge (both sides singletons); O(popcount(L)
// + popcount(R)) for a complex edge, since every touched node's adjacency
// list must record it.
func (h *Hypergraph) AddEdge(left, right bitset.NodeSet, payload EdgePayload) (int, error) {
	if left.Empty() || right.Empty() {
		return -1, ErrEmptySide
	}
	if left.Overlaps(right) {
		return -1, ErrOverlappingSides
	}

	k := len(h.Payloads)
	h.Payloads = append(h.Payloads, payload)
	canonical := len(h.Edges)
	h.Edges = append(h.Edges, Hyperedge{Left: left, Right: right})
	h.Edges = append(h.Edges, Hyperedge{Left: right, Right: left})

	h.addToAdjacency(canonical, left, right)
	return k, nil
}

// ModifyEdge replaces the endpoints of logical edge k in place, keeping its
// payload and physical storage slots but updating the Left/Right shape of
// both duplicated copies and every touched node's adjacency membership.
//
// Per spec.md §4.1, this is used only by package simplify, which only ever
// widens edges (adds nodes to one side); but a widened simple edge can
// become complex, so adjacency membership (which node considers this edge
// "simple" vs. "complex") is recomputed rather than assumed stable.
func (h *Hypergraph) ModifyEdge(k int, newLeft, newRight bitset.NodeSet) error {
	if k < 0 || k >= len(h.Payloads) {
		return ErrEdgeNotFound
	}
	if newLeft.Empty() || newRight.Empty() {
		return ErrEmptySide
	}
	if newLeft.Overlaps(newRight) {
		return ErrOverlappingSides
	}

	canonical := 2 * k
	oldLeft, oldRight := h.Edges[canonical].Left, h.Edges[canonical].Right
	h.removeFromAdjacency(canonical, oldLeft, oldRight)

	h.Edges[canonical] = Hyperedge{Left: newLeft, Right: newRight}
	h.Edges[canonical+1] = Hyperedge{Left: newRight, Right: newLeft}

	h.addToAdjacency(canonical, newLeft, newRight)
	return nil
}

// addToAdjacency records physical edge canonical (Left=left, Right=right)
// on every node in left under "Left side" adjacency, and its swapped
// counterpart canonical+1 on every node in right.
func (h *Hypergraph) addToAdjacency(canonical int, left, right bitset.NodeSet) {
	simple := left.Popcount() == 1 && right.Popcount() == 1
	if simple {
		l := left.LowestBitIndex()
		r := right.LowestBitIndex()
		h.Nodes[l].SimpleEdges = append(h.Nodes[l].SimpleEdges, canonical)
		h.Nodes[l].SimpleNeighborhood = h.Nodes[l].SimpleNeighborhood.Union(right)
		h.Nodes[r].SimpleEdges = append(h.Nodes[r].SimpleEdges, canonical+1)
		h.Nodes[r].SimpleNeighborhood = h.Nodes[r].SimpleNeighborhood.Union(left)
		return
	}
	left.ForEachAscendingFull(func(i int) {
		h.Nodes[i].ComplexEdges = append(h.Nodes[i].ComplexEdges, canonical)
	})
	right.ForEachAscendingFull(func(i int) {
		h.Nodes[i].ComplexEdges = append(h.Nodes[i].ComplexEdges, canonical+1)
	})
}

func (h *Hypergraph) removeFromAdjacency(canonical int, left, right bitset.NodeSet) {
	wasSimple := left.Popcount() == 1 && right.Popcount() == 1
	if wasSimple {
		l := left.LowestBitIndex()
		r := right.LowestBitIndex()
		h.Nodes[l].SimpleEdges = removeInt(h.Nodes[l].SimpleEdges, canonical)
		h.Nodes[r].SimpleEdges = removeInt(h.Nodes[r].SimpleEdges, canonical+1)
		h.Nodes[l].SimpleNeighborhood = recomputeSimpleNeighborhood(h, l)
		h.Nodes[r].SimpleNeighborhood = recomputeSimpleNeighborhood(h, r)
		return
	}
	left.ForEachAscendingFull(func(i int) {
		h.Nodes[i].ComplexEdges = removeInt(h.Nodes[i].ComplexEdges, canonical)
	})
	right.ForEachAscendingFull(func(i int) {
		h.Nodes[i].ComplexEdges = removeInt(h.Nodes[i].ComplexEdges, canonical+1)
	})
}

// recomputeSimpleNeighborhood rebuilds node i's SimpleNeighborhood from its
// current SimpleEdges list; called after a simple edge is removed from
// adjacency since union bitmaps can't be decremented without a full rescan.
func recomputeSimpleNeighborhood(h *Hypergraph, i int) bitset.NodeSet {
	var n bitset.NodeSet
	for _, physIdx := range h.Nodes[i].SimpleEdges {
		n = n.Union(h.Edges[physIdx].Right)
	}
	return n
}

func removeInt(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
