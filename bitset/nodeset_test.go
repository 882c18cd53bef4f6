package bitset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joinlab/hyperjoin/bitset"
)

func TestSingleAndMembership(t *testing.T) {
	s := bitset.Single(3)
	assert.Equal(t, bitset.NodeSet(0b1000), s)
	assert.True(t, s.IsSubsetOf(bitset.Single(3).Union(bitset.Single(1))))
	assert.False(t, s.Empty())
	assert.True(t, bitset.NodeSet(0).Empty())
}

func TestUnionIntersectMinus(t *testing.T) {
	a := bitset.NodeSet(0b0110)
	b := bitset.NodeSet(0b0011)
	assert.Equal(t, bitset.NodeSet(0b0111), a.Union(b))
	assert.Equal(t, bitset.NodeSet(0b0010), a.Intersect(b))
	assert.Equal(t, bitset.NodeSet(0b0100), a.Minus(b))
	assert.True(t, a.Overlaps(b))
	assert.False(t, bitset.NodeSet(0b1000).Overlaps(b))
}

func TestIsolateLowestBit(t *testing.T) {
	assert.Equal(t, bitset.NodeSet(0b0010), bitset.NodeSet(0b0110).IsolateLowestBit())
	assert.Equal(t, bitset.NodeSet(0), bitset.NodeSet(0).IsolateLowestBit())
}

func TestLowestHighestBitIndex(t *testing.T) {
	s := bitset.NodeSet(0b0101_0100)
	assert.Equal(t, 2, s.LowestBitIndex())
	assert.Equal(t, 6, s.HighestBitIndex())

	assert.Panics(t, func() { bitset.NodeSet(0).LowestBitIndex() })
	assert.Panics(t, func() { bitset.NodeSet(0).HighestBitIndex() })
}

func TestBitsAscendingDescending(t *testing.T) {
	s := bitset.NodeSet(0b0101_0100)
	assert.Equal(t, []int{2, 4, 6}, s.BitsAscending())
	assert.Equal(t, []int{6, 4, 2}, s.BitsDescending())

	assert.Empty(t, bitset.NodeSet(0).BitsAscending())
}

func TestForEachAscendingEarlyAbort(t *testing.T) {
	s := bitset.NodeSet(0b1111)
	var seen []int
	s.ForEachAscending(func(i int) bool {
		seen = append(seen, i)
		return i < 1
	})
	assert.Equal(t, []int{0, 1}, seen)
}

func TestForEachNonzeroSubset(t *testing.T) {
	s := bitset.NodeSet(0b101)
	var subs []bitset.NodeSet
	s.ForEachNonzeroSubset(func(sub bitset.NodeSet) bool {
		subs = append(subs, sub)
		return true
	})
	// All non-empty subsets of {0,2}: {0,2}, {2}, {0}.
	assert.ElementsMatch(t, []bitset.NodeSet{0b101, 0b100, 0b001}, subs)
	assert.Len(t, subs, 3)
}

func TestForEachNonzeroSubset_Empty(t *testing.T) {
	var calls int
	bitset.NodeSet(0).ForEachNonzeroSubset(func(bitset.NodeSet) bool {
		calls++
		return true
	})
	assert.Zero(t, calls)
}

func TestForEachNonzeroSubset_EarlyAbort(t *testing.T) {
	s := bitset.NodeSet(0b111)
	var count int
	s.ForEachNonzeroSubset(func(bitset.NodeSet) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestPopcount(t *testing.T) {
	assert.Equal(t, 3, bitset.NodeSet(0b1011).Popcount())
	assert.Equal(t, 0, bitset.NodeSet(0).Popcount())
}
