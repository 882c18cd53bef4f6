package orderset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinlab/hyperjoin/orderset"
)

func TestSetOrderFollowsItsOwnOrdering(t *testing.T) {
	b := orderset.NewBuilder()
	a := orderset.ItemID(1)
	ordering := orderset.Ordering{
		Kind:     orderset.OrderBy,
		Elements: []orderset.OrderingElem{{Item: a, Direction: orderset.Ascending}},
	}
	idx := b.AddOrdering(ordering, orderset.Interesting)

	fsm, err := b.Build()
	require.NoError(t, err)

	init := fsm.InitialState()
	assert.False(t, fsm.DoesFollowOrder(init, idx), "an unordered stream should not follow any ordering")

	s := fsm.SetOrder(idx)
	assert.True(t, fsm.DoesFollowOrder(s, idx))
}

func TestDecayDropsTrailingElementButKeepsPrefix(t *testing.T) {
	b := orderset.NewBuilder()
	x, y := orderset.ItemID(1), orderset.ItemID(2)
	prefixOnly := orderset.Ordering{
		Kind:     orderset.OrderBy,
		Elements: []orderset.OrderingElem{{Item: x, Direction: orderset.Ascending}},
	}
	full := orderset.Ordering{
		Kind: orderset.OrderBy,
		Elements: []orderset.OrderingElem{
			{Item: x, Direction: orderset.Ascending},
			{Item: y, Direction: orderset.Ascending},
		},
	}
	prefixIdx := b.AddOrdering(prefixOnly, orderset.Interesting)
	fullIdx := b.AddOrdering(full, orderset.Interesting)

	fsm, err := b.Build()
	require.NoError(t, err)

	s := fsm.SetOrder(fullIdx)
	assert.True(t, fsm.DoesFollowOrder(s, fullIdx))
	assert.True(t, fsm.DoesFollowOrder(s, prefixIdx), "a stream sorted by (x,y) already satisfies a sort by x alone")
	assert.True(t, fsm.MoreOrderedThan(s, prefixIdx))
	assert.False(t, fsm.MoreOrderedThan(s, fullIdx), "a state should not be reported as more ordered than its own exact ordering")
}

func TestEquivalenceFDLetsOneTableOrderingSatisfyAnother(t *testing.T) {
	b := orderset.NewBuilder()
	aID, bID := orderset.ItemID(1), orderset.ItemID(2)
	b.SetItemTable(aID, 0)
	b.SetItemTable(bID, 1)

	interesting := orderset.Ordering{
		Kind:     orderset.OrderBy,
		Elements: []orderset.OrderingElem{{Item: aID, Direction: orderset.Ascending}},
	}
	interestingIdx := b.AddOrdering(interesting, orderset.Interesting)

	byB := orderset.Ordering{
		Kind:     orderset.OrderBy,
		Elements: []orderset.OrderingElem{{Item: bID, Direction: orderset.Ascending}},
	}
	byBIdx := b.AddOrdering(byB, orderset.Uninteresting)

	fd := orderset.FunctionalDependency{
		Kind: orderset.Equivalence,
		Head: []orderset.ItemID{aID},
		Tail: bID,
	}
	fdIdx := b.AddFD(fd)

	fsm, err := b.Build()
	require.NoError(t, err)

	s := fsm.SetOrder(byBIdx)
	assert.False(t, fsm.DoesFollowOrder(s, interestingIdx), "before the FD is known true, ordering by b alone must not satisfy ordering by a")

	// This Builder registers exactly one non-always-active FD, so Build
	// must have assigned it bit 0.
	_ = fdIdx
	s2 := fsm.ApplyFDs(s, bitIndex(0))
	assert.True(t, fsm.DoesFollowOrder(s2, interestingIdx), "once a==b is known, ordering by b also satisfies ordering by a")
}

func TestApplyFDsWithoutMatchingBitLeavesStateUnchanged(t *testing.T) {
	b := orderset.NewBuilder()
	aID, bID := orderset.ItemID(1), orderset.ItemID(2)
	b.SetItemTable(aID, 0)
	b.SetItemTable(bID, 1)

	interesting := orderset.Ordering{
		Kind:     orderset.OrderBy,
		Elements: []orderset.OrderingElem{{Item: aID, Direction: orderset.Ascending}},
	}
	interestingIdx := b.AddOrdering(interesting, orderset.Interesting)
	byB := orderset.Ordering{
		Kind:     orderset.OrderBy,
		Elements: []orderset.OrderingElem{{Item: bID, Direction: orderset.Ascending}},
	}
	byBIdx := b.AddOrdering(byB, orderset.Uninteresting)
	b.AddFD(orderset.FunctionalDependency{Kind: orderset.Equivalence, Head: []orderset.ItemID{aID}, Tail: bID})

	fsm, err := b.Build()
	require.NoError(t, err)

	s := fsm.SetOrder(byBIdx)
	s2 := fsm.ApplyFDs(s, orderset.FDSet(0))
	assert.False(t, fsm.DoesFollowOrder(s2, interestingIdx))
}

func TestGroupByOrderingIsSubsetInsensitiveToRegistrationOrder(t *testing.T) {
	b := orderset.NewBuilder()
	x, y := orderset.ItemID(1), orderset.ItemID(2)
	groupXY := orderset.Ordering{Kind: orderset.GroupBy, Elements: []orderset.OrderingElem{{Item: x}, {Item: y}}}
	groupYX := orderset.Ordering{Kind: orderset.GroupBy, Elements: []orderset.OrderingElem{{Item: y}, {Item: x}}}

	idx1 := b.AddOrdering(groupXY, orderset.Interesting)
	idx2 := b.AddOrdering(groupYX, orderset.Interesting)
	assert.Equal(t, idx1, idx2, "GroupBy orderings with the same members should dedup regardless of element order")
}

func TestBuildRejectsMoreThan64InterestingOrderings(t *testing.T) {
	b := orderset.NewBuilder()
	for i := 0; i < 65; i++ {
		item := orderset.ItemID(i)
		o := orderset.Ordering{Kind: orderset.OrderBy, Elements: []orderset.OrderingElem{{Item: item, Direction: orderset.Ascending}}}
		b.AddOrdering(o, orderset.Interesting)
	}
	_, err := b.Build()
	assert.ErrorIs(t, err, orderset.ErrTooManyOrderings)
}

func bitIndex(i int) orderset.FDSet {
	return orderset.FDSet(1) << uint(i)
}

// TestInterestingOrderReachedThroughConstantAndEquivalenceFDs walks the
// empty ordering through {}->a, {}->d, b=d, {a,b}->e (in that order) and
// checks the resulting state satisfies (a,b) and (a,b,e,d) but neither
// (a,b,c) nor (d,e).
func TestInterestingOrderReachedThroughConstantAndEquivalenceFDs(t *testing.T) {
	b := orderset.NewBuilder()
	a, bb, c, d, e := orderset.ItemID(1), orderset.ItemID(2), orderset.ItemID(3), orderset.ItemID(4), orderset.ItemID(5)

	ab := orderset.Ordering{Kind: orderset.OrderBy, Elements: []orderset.OrderingElem{
		{Item: a, Direction: orderset.Ascending}, {Item: bb, Direction: orderset.Ascending},
	}}
	abc := orderset.Ordering{Kind: orderset.OrderBy, Elements: []orderset.OrderingElem{
		{Item: a, Direction: orderset.Ascending}, {Item: bb, Direction: orderset.Ascending}, {Item: c, Direction: orderset.Ascending},
	}}
	de := orderset.Ordering{Kind: orderset.OrderBy, Elements: []orderset.OrderingElem{
		{Item: d, Direction: orderset.Ascending}, {Item: e, Direction: orderset.Ascending},
	}}
	abed := orderset.Ordering{Kind: orderset.OrderBy, Elements: []orderset.OrderingElem{
		{Item: a, Direction: orderset.Ascending}, {Item: bb, Direction: orderset.Ascending},
		{Item: e, Direction: orderset.Ascending}, {Item: d, Direction: orderset.Ascending},
	}}

	abIdx := b.AddOrdering(ab, orderset.Interesting)
	abcIdx := b.AddOrdering(abc, orderset.Interesting)
	deIdx := b.AddOrdering(de, orderset.Interesting)
	abedIdx := b.AddOrdering(abed, orderset.Interesting)

	b.AddFD(orderset.FunctionalDependency{Kind: orderset.Equivalence, Head: []orderset.ItemID{bb}, Tail: d})
	b.AddFD(orderset.FunctionalDependency{Kind: orderset.FD, Head: []orderset.ItemID{a, bb}, Tail: e})
	b.AddFD(orderset.FunctionalDependency{Kind: orderset.FD, Head: nil, Tail: a, AlwaysActive: true})
	b.AddFD(orderset.FunctionalDependency{Kind: orderset.FD, Head: nil, Tail: d, AlwaysActive: true})

	fsm, err := b.Build()
	require.NoError(t, err)

	// Neither always-active FD consumes a runtime bit, so the two
	// non-always-active FDs registered above (b=d, then {a,b}->e) get bits
	// 0 and 1 in registration order.
	s := fsm.InitialState()
	s = fsm.ApplyFDs(s, bitIndex(0)) // b=d
	s = fsm.ApplyFDs(s, bitIndex(1)) // {a,b}->e, applied last as in the scenario

	assert.True(t, fsm.DoesFollowOrder(s, abIdx))
	assert.True(t, fsm.DoesFollowOrder(s, abedIdx))
	assert.False(t, fsm.DoesFollowOrder(s, abcIdx))
	assert.False(t, fsm.DoesFollowOrder(s, deIdx))
}

// TestSortByConstantSatisfiesInterestingOrderViaAlwaysActiveFDs covers the
// case where every element of an interesting ordering is pinned to a
// constant by an always-active FD, so the empty ordering already satisfies
// it once those FDs and an equivalence linking the two constants are known.
func TestSortByConstantSatisfiesInterestingOrderViaAlwaysActiveFDs(t *testing.T) {
	b := orderset.NewBuilder()
	a, bb, c := orderset.ItemID(1), orderset.ItemID(2), orderset.ItemID(3)

	ab := orderset.Ordering{Kind: orderset.OrderBy, Elements: []orderset.OrderingElem{
		{Item: a, Direction: orderset.Ascending}, {Item: bb, Direction: orderset.Ascending},
	}}
	abIdx := b.AddOrdering(ab, orderset.Interesting)

	b.AddFD(orderset.FunctionalDependency{Kind: orderset.Equivalence, Head: []orderset.ItemID{bb}, Tail: c})
	b.AddFD(orderset.FunctionalDependency{Kind: orderset.FD, Head: nil, Tail: a, AlwaysActive: true})
	b.AddFD(orderset.FunctionalDependency{Kind: orderset.FD, Head: nil, Tail: c, AlwaysActive: true})

	fsm, err := b.Build()
	require.NoError(t, err)

	s := fsm.InitialState()
	s = fsm.ApplyFDs(s, bitIndex(0)) // b=c

	assert.True(t, fsm.DoesFollowOrder(s, abIdx))
}
