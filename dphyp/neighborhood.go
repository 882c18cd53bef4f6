package dphyp

import (
	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/hypergraph"
)

// neighborhoodCache memoizes the (justGrownBy, neighborhood, fullNeighborhood)
// triple from the most recent findNeighborhood call at this recursion level,
// so that when a later call's justGrownBy is a superset of the cached one,
// only the delta needs scanning.
//
// Grounded on original_source's NeighborhoodCache (subgraph_enumeration.h):
// the "taboo bit" is the lowest bit of the *parent* neighborhood, and writes
// with that bit set in justGrownBy are rejected — this is what makes
// alternating subset enumeration reuse cached work instead of thrashing.
type neighborhoodCache struct {
	tabooBit bitset.NodeSet

	lastJustGrownBy     bitset.NodeSet
	lastNeighborhood    bitset.NodeSet
	lastFullNeighborhood bitset.NodeSet
	hasEntry            bool
}

func newNeighborhoodCache(parentNeighborhood bitset.NodeSet) *neighborhoodCache {
	taboo := bitset.NodeSet(0)
	if !parentNeighborhood.Empty() {
		taboo = parentNeighborhood.IsolateLowestBit()
	}
	return &neighborhoodCache{tabooBit: taboo}
}

// initSearch returns the subset of justGrownBy that still needs scanning,
// and (via the pointers) seeds neighborhood/fullNeighborhood from the cache
// when justGrownBy is a superset of the last cached grow-set.
func (c *neighborhoodCache) initSearch(justGrownBy bitset.NodeSet, neighborhood, fullNeighborhood *bitset.NodeSet) bitset.NodeSet {
	if c.hasEntry && c.lastJustGrownBy.IsSubsetOf(justGrownBy) {
		*fullNeighborhood = fullNeighborhood.Union(c.lastFullNeighborhood)
		*neighborhood = c.lastNeighborhood
		return justGrownBy.Minus(c.lastJustGrownBy)
	}
	return justGrownBy
}

func (c *neighborhoodCache) store(justGrownBy, neighborhood, fullNeighborhood bitset.NodeSet) {
	if justGrownBy.Overlaps(c.tabooBit) {
		return
	}
	c.lastJustGrownBy = justGrownBy
	c.lastNeighborhood = neighborhood
	c.lastFullNeighborhood = fullNeighborhood
	c.hasEntry = true
}

// findNeighborhood computes N(subgraph, forbidden): the minimal set of
// representative nodes such that joining any subset of the result to
// subgraph respects all hyperedges and touches only nodes outside
// forbidden|subgraph. fullNeighborhood accumulates every "interesting
// hypernode" (full right-hand sides) seen along the way, used later by
// tryConnect to narrow its search.
//
// Grounded on original_source's FindNeighborhood (subgraph_enumeration.h);
// see spec.md §4.2.1.
func findNeighborhood(
	g *hypergraph.Hypergraph,
	subgraph, forbidden, justGrownBy bitset.NodeSet,
	cache *neighborhoodCache,
	fullNeighborhood *bitset.NodeSet,
) bitset.NodeSet {
	neighborhood := bitset.NodeSet(0)
	toSearch := cache.initSearch(justGrownBy, &neighborhood, fullNeighborhood)

	toSearch.ForEachAscendingFull(func(nodeIdx int) {
		node := &g.Nodes[nodeIdx]
		neighborhood = neighborhood.Union(node.SimpleNeighborhood)

		for _, edgeIdx := range node.ComplexEdges {
			e := g.Edges[edgeIdx]
			if e.Left.IsSubsetOf(subgraph) && !e.Right.Overlaps(subgraph.Union(forbidden)) {
				*fullNeighborhood = fullNeighborhood.Union(e.Right)
				if !e.Right.Overlaps(neighborhood) {
					neighborhood = neighborhood.Union(e.Right.IsolateLowestBit())
				}
			}
		}
	})

	neighborhood = neighborhood.Minus(subgraph.Union(forbidden))
	*fullNeighborhood = fullNeighborhood.Union(neighborhood)

	cache.store(justGrownBy, neighborhood, *fullNeighborhood)

	return neighborhood
}
