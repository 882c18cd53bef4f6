package hypergraph

import (
	"errors"

	"github.com/joinlab/hyperjoin/bitset"
)

// Sentinel errors for hypergraph construction and mutation.
var (
	// ErrEmptySide indicates a hyperedge was given an empty left or right endpoint.
	ErrEmptySide = errors.New("hypergraph: hyperedge endpoint is empty")

	// ErrOverlappingSides indicates a hyperedge's left and right endpoints overlap.
	ErrOverlappingSides = errors.New("hypergraph: hyperedge endpoints overlap")

	// ErrTooManyNodes indicates AddNode was called beyond bitset.MaxNodes times.
	ErrTooManyNodes = errors.New("hypergraph: too many nodes for a 64-bit NodeSet")

	// ErrEdgeNotFound indicates ModifyEdge was given an out-of-range logical edge index.
	ErrEdgeNotFound = errors.New("hypergraph: logical edge index out of range")
)

// JoinType identifies the semantics a Hyperedge encodes. These mirror the
// relational join kinds a RelationalExpression tree (package hgbuild) can
// produce; reorderability rules in dphyp and simplify branch on this.
type JoinType int

const (
	// InnerJoin permits free reordering subject only to hyperedge connectivity.
	InnerJoin JoinType = iota
	// StraightInnerJoin is an inner join whose left/right order is pinned by
	// the query author (STRAIGHT_JOIN); it still behaves like InnerJoin for
	// cost purposes, but the costing receiver only tries swapped probe/build
	// sides for InnerJoin, never for this type.
	StraightInnerJoin
	// LeftJoin produces all left rows, padding unmatched ones with NULLs.
	LeftJoin
	// FullOuterJoin produces all rows from both sides, padding unmatched ones.
	FullOuterJoin
	// SemiJoin produces each left row at most once if it has any match on the right.
	SemiJoin
	// AntiJoin produces each left row that has no match on the right.
	AntiJoin
	// MultiInnerJoin is a placeholder for an n-ary inner join not yet
	// decomposed into binary hyperedges; it should never reach dphyp.
	MultiInnerJoin
)

// Condition is an opaque predicate handle. Per spec.md §1 ("Out of scope:
// per-item evaluation"), this core never evaluates a condition; it only
// needs the set of tables the condition references and, for equi-join
// conditions, the two sides of the equality so hash-join build/probe keys
// can be identified.
type Condition struct {
	// Handle is the opaque upstream item (an expression tree, a rewriter
	// token, whatever the SQL layer represents conditions as). This core
	// never dereferences it; it exists purely so a caller-supplied equality
	// test and tracing hook have something to print or compare by identity.
	Handle any

	// UsedTables is the syntactic set of tables this condition references.
	UsedTables bitset.NodeSet

	// Equality is true if this condition is a single-column equi-join
	// predicate (arg0 = arg1) suitable for hash-join key extraction.
	Equality bool

	// LeftArgTables and RightArgTables are the table sets referenced by
	// each side of an equality condition. Meaningless if Equality is false.
	LeftArgTables  bitset.NodeSet
	RightArgTables bitset.NodeSet

	// Selectivity is this condition's estimated selectivity in [0, 1].
	Selectivity float64
}

// ConflictRule expresses a residual non-reorderability constraint that a
// hyperedge's left/right shape alone cannot capture: if any node in
// NeededToActivate is present in a candidate subset, then every node in
// RequiredNodes must also be present (otherwise the join this rule is
// attached to cannot legally be placed first). Used by hgbuild to encode
// outer/semi/anti reordering barriers and checked by simplify's joinability
// probe.
type ConflictRule struct {
	NeededToActivate bitset.NodeSet
	RequiredNodes    bitset.NodeSet
}

// Satisfied reports whether this rule is satisfied for a candidate set s:
// either NeededToActivate doesn't overlap s at all, or RequiredNodes is
// already a subset of s.
func (r ConflictRule) Satisfied(s bitset.NodeSet) bool {
	if !r.NeededToActivate.Overlaps(s) {
		return true
	}
	return r.RequiredNodes.IsSubsetOf(s)
}

// EdgePayload carries everything about a logical hyperedge beyond its
// (left, right) shape: join semantics, conditions, selectivity, and
// conflict rules. Exactly one EdgePayload exists per logical edge, shared
// by both of its physical (duplicated, swapped) storage slots.
type EdgePayload struct {
	JoinType JoinType

	// Equi holds the equality conditions that drive hash-join key
	// extraction; Residual holds everything else (range predicates,
	// non-equality comparisons, expressions spanning more than two tables).
	Equi     []Condition
	Residual []Condition

	// Selectivity is the product of all Equi and Residual condition
	// selectivities, clamped to [0, 1].
	Selectivity float64

	ConflictRules []ConflictRule
}

// Node is one base relation (or materialized virtual table) in the
// hypergraph.
type Node struct {
	// RowEstimate is the estimated cardinality of this relation standalone.
	RowEstimate float64

	// Alias is a human-readable name used only for tracing.
	Alias string

	// SimpleEdges and ComplexEdges list the physical edge slots (2k or
	// 2k+1, the copy with this node on its left) touching this node, split
	// the way the original does: SimpleEdges are edges where
	// both endpoints are singleton node sets, ComplexEdges are everything
	// else. Splitting lets FindNeighborhood skip straight to
	// SimpleNeighborhood for the common case without scanning ComplexEdges.
	SimpleEdges  []int
	ComplexEdges []int

	// SimpleNeighborhood is the union of the right-endpoint bits of every
	// simple edge on this node (from this node's point of view — i.e. the
	// duplicated/swapped copy where this node is on the left).
	SimpleNeighborhood bitset.NodeSet
}

// Hyperedge is one physical (possibly duplicated) storage slot for a
// logical edge: its left/right node-set shape.
//
// Invariant: Left != 0, Right != 0, Left and Right are disjoint. This must
// hold for the lifetime of the hypergraph, including after simplify's
// ModifyEdge calls.
type Hyperedge struct {
	Left  bitset.NodeSet
	Right bitset.NodeSet
}

// Hypergraph is the full join hypergraph: nodes plus physically-duplicated
// hyperedges, each logical edge k stored at physical indices 2k and 2k+1
// with sides swapped.
type Hypergraph struct {
	Nodes []Node
	Edges []Hyperedge

	// Payloads holds one EdgePayload per logical edge (index k, not 2k).
	Payloads []EdgePayload
}

// New returns an empty Hypergraph ready for AddNode/AddEdge calls.
func New() *Hypergraph {
	return &Hypergraph{}
}

// NumNodes returns the number of nodes added so far.
func (h *Hypergraph) NumNodes() int { return len(h.Nodes) }

// NumLogicalEdges returns the number of logical (non-duplicated) edges.
func (h *Hypergraph) NumLogicalEdges() int { return len(h.Payloads) }

// LogicalEdge returns the canonical (first-stored) physical copy of logical
// edge k, i.e. Edges[2k].
func (h *Hypergraph) LogicalEdge(k int) Hyperedge { return h.Edges[2*k] }

// Payload returns the shared payload for logical edge k.
func (h *Hypergraph) Payload(k int) *EdgePayload { return &h.Payloads[k] }
