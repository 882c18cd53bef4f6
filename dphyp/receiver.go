package dphyp

import "github.com/joinlab/hyperjoin/bitset"

// Receiver is called back by Enumerate as connected subgraphs and csg-cmp
// pairs are discovered. Any call returning true aborts enumeration
// immediately (used for resource-exhaustion pruning; see package costing).
//
// Contract (spec.md §4.2):
//   - FoundSingleNode(i) is called for every relation, in descending index
//     order, before any FoundSubgraphPair call involving it.
//   - FoundSubgraphPair(l, r, edgeIdx) is called exactly once per valid
//     (L, R, edge) triple, and only after FoundSingleNode has already been
//     called for every bit of L|R, and after every strict connected
//     sub-split of L|R has already been presented.
//   - HasSeen(s) must report whether the receiver has already recorded a
//     plan for the connected subset s — i.e. whether some earlier
//     FoundSubgraphPair (or FoundSingleNode, for a singleton) call had
//     L|R == s. Enumerate relies on this to recognize which grown
//     candidates are connected without re-deriving connectivity itself.
type Receiver interface {
	FoundSingleNode(i int) bool
	FoundSubgraphPair(l, r bitset.NodeSet, edgeIdx int) bool
	HasSeen(s bitset.NodeSet) bool
}

// CountingReceiver is a trivial Receiver that only counts csg-cmp pairs,
// never builds any access path. Package simplify uses it to cheaply probe
// "how many pairs would DPhyp enumerate after this many edge widenings"
// without paying for full costing.
//
// Grounded on original_source/sql/join_optimizer/trivial_receiver.h.
type CountingReceiver struct {
	seen  map[bitset.NodeSet]struct{}
	Pairs int

	// Limit aborts enumeration (FoundSubgraphPair returns true) once Pairs
	// would exceed it. Zero means unlimited.
	Limit int
}

// NewCountingReceiver returns a CountingReceiver that aborts once more than
// limit pairs have been found (0 = unlimited).
func NewCountingReceiver(limit int) *CountingReceiver {
	return &CountingReceiver{seen: make(map[bitset.NodeSet]struct{}), Limit: limit}
}

func (r *CountingReceiver) FoundSingleNode(i int) bool {
	r.seen[bitset.Single(i)] = struct{}{}
	return false
}

func (r *CountingReceiver) FoundSubgraphPair(l, rhs bitset.NodeSet, _ int) bool {
	r.Pairs++
	r.seen[l.Union(rhs)] = struct{}{}
	if r.Limit > 0 && r.Pairs > r.Limit {
		return true
	}
	return false
}

func (r *CountingReceiver) HasSeen(s bitset.NodeSet) bool {
	_, ok := r.seen[s]
	return ok
}
