package dphyp

import (
	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/hypergraph"
)

// Enumerate is the algorithm's entry point (Solve() in the DPhyp paper).
// It considers increasing subsets of the graph, backwards: first only the
// last node, then {second-to-last, last} with the second-to-last as seed,
// and so on. From each single-node seed it grows a connected subgraph
// recursively (ExpandSubgraph); every time a new connected subgraph is
// found, it both keeps growing it and looks for a separate, disjoint
// subgraph (a complement) that can be joined to it. Every such csg-cmp
// pair is reported to receiver exactly once.
//
// If any Receiver callback returns true, Enumerate aborts immediately and
// also returns true.
func Enumerate(g *hypergraph.Hypergraph, receiver Receiver) bool {
	for seedIdx := g.NumNodes() - 1; seedIdx >= 0; seedIdx-- {
		if receiver.FoundSingleNode(seedIdx) {
			return true
		}

		seed := bitset.Single(seedIdx)
		forbidden := bitset.BelowIndex(seedIdx)
		fullNeighborhood := bitset.NodeSet(0)
		cache := newNeighborhoodCache(0)
		neighborhood := findNeighborhood(g, seed, forbidden, seed, cache, &fullNeighborhood)

		if enumerateComplementsTo(g, seedIdx, seed, fullNeighborhood, neighborhood, receiver) {
			return true
		}
		if expandSubgraph(g, seedIdx, seed, fullNeighborhood, neighborhood, forbidden.Union(seed), receiver) {
			return true
		}
	}
	return false
}

// enumerateComplementsTo enumerates all possible complements to subgraph
// that exclude the forbidden set implied by lowestNodeIdx, by treating each
// node of neighborhood as a seed and growing it the same way Enumerate grows
// its own seeds. Called EmitCsg() in the DPhyp paper.
func enumerateComplementsTo(
	g *hypergraph.Hypergraph,
	lowestNodeIdx int,
	subgraph, fullNeighborhood, neighborhood bitset.NodeSet,
	receiver Receiver,
) bool {
	forbidden := bitset.BelowIndex(lowestNodeIdx)
	neighborhood = neighborhood.Minus(subgraph)

	// Iterate seeds in descending order, exactly like Enumerate, so that
	// smaller potential complements are considered before larger ones.
	cache := newNeighborhoodCache(neighborhood)
	for _, seedIdx := range neighborhood.BitsDescending() {
		seed := bitset.Single(seedIdx)
		node := &g.Nodes[seedIdx]

		if node.SimpleNeighborhood.Overlaps(subgraph) {
			for _, edgeIdx := range node.SimpleEdges {
				e := g.Edges[edgeIdx]
				if e.Right.Overlaps(subgraph) {
					if receiver.FoundSubgraphPair(subgraph, seed, edgeIdx/2) {
						return true
					}
				}
			}
		}
		for _, edgeIdx := range node.ComplexEdges {
			e := g.Edges[edgeIdx]
			if e.Left == seed && e.Right.IsSubsetOf(subgraph) {
				if receiver.FoundSubgraphPair(subgraph, seed, edgeIdx/2) {
					return true
				}
			}
		}

		// Extending forbidden with the part of the neighborhood below
		// seedIdx prevents this seed from growing into nodes that a
		// smaller-indexed seed will already cover, which is what keeps
		// every csg-cmp pair unique.
		newForbidden := forbidden.Union(subgraph).Union(neighborhood.Intersect(bitset.BelowIndex(seedIdx)))
		newFullNeighborhood := bitset.NodeSet(0)
		newNeighborhood := findNeighborhood(g, seed, newForbidden, seed, cache, &newFullNeighborhood)

		if expandComplement(g, lowestNodeIdx, subgraph, fullNeighborhood, seed, newNeighborhood, newForbidden, receiver) {
			return true
		}
	}
	return false
}

// expandSubgraph grows subgraph recursively along neighborhood (not
// necessarily keeping it connected at every step); whenever a grown
// candidate is recognized (via receiver.HasSeen) as connected, it both
// looks for complements to it and keeps growing it further. Called
// EnumerateCsgRec() in the paper.
func expandSubgraph(
	g *hypergraph.Hypergraph,
	lowestNodeIdx int,
	subgraph, fullNeighborhood, neighborhood, forbidden bitset.NodeSet,
	receiver Receiver,
) bool {
	cache := newNeighborhoodCache(neighborhood)

	aborted := false
	neighborhood.ForEachNonzeroSubset(func(growBy bitset.NodeSet) bool {
		grownSubgraph := subgraph.Union(growBy)
		if !receiver.HasSeen(grownSubgraph) {
			return true
		}

		newFullNeighborhood := fullNeighborhood
		newNeighborhood := findNeighborhood(g, grownSubgraph, forbidden, growBy, cache, &newFullNeighborhood)

		// EnumerateComplementsTo resets the forbidden set (nodes forbidden
		// under this subgraph may be valid complement members), but that
		// also means the neighborhood just computed only reflects recently
		// grown nodes. The only nodes missing are exactly the ones we
		// previously pushed into forbidden, so fold those — and this
		// subgraph's own pre-grow neighborhood, not yet visible to the
		// incremental FindNeighborhood call above — back in.
		newNeighborhood = newNeighborhood.Union(forbidden.Minus(bitset.BelowIndex(lowestNodeIdx)))
		newNeighborhood = newNeighborhood.Union(neighborhood)

		if enumerateComplementsTo(g, lowestNodeIdx, grownSubgraph, newFullNeighborhood, newNeighborhood, receiver) {
			aborted = true
			return false
		}
		return true
	})
	if aborted {
		return true
	}

	// Only after every grown subgraph above has had its complements fully
	// enumerated do we recurse into growing them further, so that smaller
	// subgraphs are always reported before larger ones.
	neighborhood.ForEachNonzeroSubset(func(growBy bitset.NodeSet) bool {
		grownSubgraph := subgraph.Union(growBy)
		newForbidden := forbidden.Union(neighborhood).Minus(grownSubgraph)

		newFullNeighborhood := fullNeighborhood
		newNeighborhood := findNeighborhood(g, grownSubgraph, newForbidden, growBy, cache, &newFullNeighborhood)

		if expandSubgraph(g, lowestNodeIdx, grownSubgraph, newFullNeighborhood, newNeighborhood, newForbidden, receiver) {
			aborted = true
			return false
		}
		return true
	})
	return aborted
}

// tryConnect looks for a hyperedge connecting the (connected) subgraph and
// the (connected) complement, reporting every such edge found. Only nodes
// in subgraphFullNeighborhood can possibly host a connecting edge, which
// keeps this cheap. Called TryConnecting() in the paper.
func tryConnect(
	g *hypergraph.Hypergraph,
	subgraph, subgraphFullNeighborhood, complement bitset.NodeSet,
	receiver Receiver,
) bool {
	aborted := false
	complement.Intersect(subgraphFullNeighborhood).ForEachAscending(func(nodeIdx int) bool {
		node := &g.Nodes[nodeIdx]

		if node.SimpleNeighborhood.Overlaps(subgraph) {
			for _, edgeIdx := range node.SimpleEdges {
				e := g.Edges[edgeIdx]
				if e.Right.Overlaps(subgraph) && e.Left.Overlaps(complement) {
					if receiver.FoundSubgraphPair(subgraph, complement, edgeIdx/2) {
						aborted = true
						return false
					}
				}
			}
		}

		nodeBit := bitset.Single(nodeIdx)
		for _, edgeIdx := range node.ComplexEdges {
			e := g.Edges[edgeIdx]
			if e.Left.IsolateLowestBit() == nodeBit && e.Left.IsSubsetOf(complement) && e.Right.IsSubsetOf(subgraph) {
				if receiver.FoundSubgraphPair(subgraph, complement, edgeIdx/2) {
					aborted = true
					return false
				}
			}
		}
		return true
	})
	return aborted
}

// expandComplement mirrors expandSubgraph, but grows a complement against a
// fixed, already-connected subgraph: whenever a grown candidate is
// recognized as connected, tryConnect checks whether it can be joined to
// subgraph, instead of recursing to look for a third party. Called
// EnumerateCmpRec() in the paper.
func expandComplement(
	g *hypergraph.Hypergraph,
	lowestNodeIdx int,
	subgraph, subgraphFullNeighborhood, complement, neighborhood, forbidden bitset.NodeSet,
	receiver Receiver,
) bool {
	aborted := false
	neighborhood.ForEachNonzeroSubset(func(growBy bitset.NodeSet) bool {
		grownComplement := complement.Union(growBy)
		if receiver.HasSeen(grownComplement) {
			if tryConnect(g, subgraph, subgraphFullNeighborhood, grownComplement, receiver) {
				aborted = true
				return false
			}
		}
		return true
	})
	if aborted {
		return true
	}

	cache := newNeighborhoodCache(neighborhood)
	neighborhood.ForEachNonzeroSubset(func(growBy bitset.NodeSet) bool {
		grownComplement := complement.Union(growBy)
		newForbidden := forbidden.Union(neighborhood).Minus(grownComplement)

		newFullNeighborhood := bitset.NodeSet(0)
		newNeighborhood := findNeighborhood(g, grownComplement, newForbidden, growBy, cache, &newFullNeighborhood)

		if expandComplement(g, lowestNodeIdx, subgraph, subgraphFullNeighborhood, grownComplement, newNeighborhood, newForbidden, receiver) {
			aborted = true
			return false
		}
		return true
	})
	return aborted
}
