package orderset

import "github.com/joinlab/hyperjoin/bitset"

// ItemID identifies an opaque sortable expression (a column, or an
// expression over one or more columns). Package orderset never evaluates
// items; it only compares IDs and consults the item-to-table map set via
// Builder.SetItemTable and the registered Equivalence FDs.
type ItemID int

// Direction is the sort direction of one ordering element. It is irrelevant
// for Group orderings.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// OrderingKind classifies an Ordering.
type OrderingKind int

const (
	// Empty is the trivial ordering every tuple stream satisfies.
	Empty OrderingKind = iota
	// OrderBy is a sequence of (item, direction) pairs that must hold in
	// exactly that sequence.
	OrderBy
	// Rollup is like OrderBy but tolerates a ROLLUP-style suffix of NULLs;
	// treated identically to OrderBy for FSM purposes.
	Rollup
	// GroupBy is an unordered set of items (by convention stored sorted by
	// (EquivalenceClass, ItemID) so two orderings with the same members
	// compare equal regardless of registration order).
	GroupBy
)

// OrderingElem is one (item, direction) pair of an Ordering. Direction is
// ignored for GroupBy orderings.
type OrderingElem struct {
	Item      ItemID
	Direction Direction
}

// Ordering is a sequence (OrderBy/Rollup) or set (GroupBy) of items a tuple
// stream may or may not currently satisfy.
type Ordering struct {
	Kind     OrderingKind
	Elements []OrderingElem
}

func (o Ordering) equal(other Ordering) bool {
	if o.Kind != other.Kind || len(o.Elements) != len(other.Elements) {
		return false
	}
	for i := range o.Elements {
		if o.Elements[i] != other.Elements[i] {
			return false
		}
	}
	return true
}

// isPrefixOrSubsetOf reports whether o's elements are a prefix of other's (OrderBy
// sense) or a subset of other's (GroupBy sense, since group member order
// doesn't matter once canonically sorted).
func (o Ordering) isPrefixOrSubsetOf(other Ordering) bool {
	if o.Kind == GroupBy {
		want := make(map[ItemID]bool, len(o.Elements))
		for _, e := range o.Elements {
			want[e.Item] = true
		}
		have := make(map[ItemID]bool, len(other.Elements))
		for _, e := range other.Elements {
			have[e.Item] = true
		}
		for item := range want {
			if !have[item] {
				return false
			}
		}
		return true
	}
	if len(o.Elements) > len(other.Elements) {
		return false
	}
	for i, e := range o.Elements {
		if other.Elements[i] != e {
			return false
		}
	}
	return true
}

// OrderingTag classifies why an Ordering was registered.
type OrderingTag int

const (
	// Interesting orderings are the ones the client actually cares about
	// satisfying; DoesFollowOrder only ever answers questions about these.
	Interesting OrderingTag = iota
	// Homogenized orderings are derived during Build from an Interesting
	// ordering by rewriting it to reference a single table.
	Homogenized
	// Uninteresting orderings are registered opportunistically (e.g. "this
	// index scan happens to produce this order") so the FSM can recognize
	// when a physical operator already satisfies something useful, without
	// that ordering itself ever being a planning target.
	Uninteresting
)

// FDKind classifies a FunctionalDependency.
type FDKind int

const (
	// Decay drops the last element of an ordering. There is exactly one
	// decay FD, always active, implicitly present in every Builder.
	Decay FDKind = iota
	// FD is a plain functional dependency Head -> Tail.
	FD
	// Equivalence is FD in both directions, plus permission to substitute
	// Head for Tail (or vice versa) in place within an ordering.
	Equivalence
)

// FunctionalDependency is one registered FD: Head (a set of items) implies
// Tail. AlwaysActive FDs (primary keys, base-table equalities with a
// constant) are folded into every DFSM state's closure instead of consuming
// a runtime bitmap bit.
type FunctionalDependency struct {
	Kind         FDKind
	Head         []ItemID
	Tail         ItemID
	AlwaysActive bool
}

// OrderingSet and FDSet reuse bitset.NodeSet's branch-light bit operations
// for the ≤64 interesting-ordering and ≤64 non-always-active-FD bitmaps the
// runtime FSM manipulates.
type OrderingSet = bitset.NodeSet
type FDSet = bitset.NodeSet
