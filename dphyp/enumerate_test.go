package dphyp_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/dphyp"
	"github.com/joinlab/hyperjoin/hypergraph"
)

// recordingReceiver records every callback it gets, so tests can check both
// the exactly-once guarantee and the bottom-up ordering guarantee from
// spec.md §4.2 without depending on any particular subset-enumeration order.
type recordingReceiver struct {
	singleNodes []int
	pairs       []pairCall
	seen        map[bitset.NodeSet]struct{}
}

type pairCall struct {
	L, R    bitset.NodeSet
	EdgeIdx int
}

func newRecordingReceiver() *recordingReceiver {
	return &recordingReceiver{seen: make(map[bitset.NodeSet]struct{})}
}

func (r *recordingReceiver) FoundSingleNode(i int) bool {
	r.singleNodes = append(r.singleNodes, i)
	r.seen[bitset.Single(i)] = struct{}{}
	return false
}

func (r *recordingReceiver) FoundSubgraphPair(l, rhs bitset.NodeSet, edgeIdx int) bool {
	r.pairs = append(r.pairs, pairCall{L: l, R: rhs, EdgeIdx: edgeIdx})
	r.seen[l.Union(rhs)] = struct{}{}
	return false
}

func (r *recordingReceiver) HasSeen(s bitset.NodeSet) bool {
	_, ok := r.seen[s]
	return ok
}

// --- independent brute-force reference, used to cross-check dphyp's output ---

// unionFind is a minimal disjoint-set structure used only to decide whether
// a node subset is connected, independently of dphyp's own machinery.
type unionFind struct{ parent []int }

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
	}
}

func isConnectedSubset(h *hypergraph.Hypergraph, s bitset.NodeSet) bool {
	if s.Popcount() <= 1 {
		return true
	}
	uf := newUnionFind(h.NumNodes())
	for k := 0; k < h.NumLogicalEdges(); k++ {
		e := h.LogicalEdge(k)
		if e.Left.IsSubsetOf(s) && e.Right.IsSubsetOf(s) {
			l := e.Left.LowestBitIndex()
			r := e.Right.LowestBitIndex()
			uf.union(l, r)
		}
	}
	bits := s.BitsAscending()
	root := uf.find(bits[0])
	for _, b := range bits[1:] {
		if uf.find(b) != root {
			return false
		}
	}
	return true
}

// bruteForcePairs independently enumerates every expected FoundSubgraphPair
// call: for every unordered partition {A, B} of some connected node subset
// into two disjoint connected halves joined by some edge, the half
// containing the globally lowest-indexed node is reported as L, the other
// as R, once per connecting logical edge.
func bruteForcePairs(h *hypergraph.Hypergraph) map[pairCall]struct{} {
	n := h.NumNodes()
	all := bitset.NodeSet(0)
	for i := 0; i < n; i++ {
		all = all.Union(bitset.Single(i))
	}

	expected := make(map[pairCall]struct{})
	all.ForEachNonzeroSubset(func(a bitset.NodeSet) bool {
		if !isConnectedSubset(h, a) {
			return true
		}
		rest := all.Minus(a)
		rest.ForEachNonzeroSubset(func(b bitset.NodeSet) bool {
			if a.Overlaps(b) {
				return true
			}
			if !isConnectedSubset(h, b) {
				return true
			}
			// Canonicalize: the half containing the lowest overall index
			// is always L, to avoid double-counting {A,B} and {B,A}.
			lowA := a.LowestBitIndex()
			lowB := b.LowestBitIndex()
			var lo, hi bitset.NodeSet
			if lowA < lowB {
				lo, hi = a, b
			} else {
				lo, hi = b, a
			}
			for k := 0; k < h.NumLogicalEdges(); k++ {
				e := h.LogicalEdge(k)
				connects := (e.Left.IsSubsetOf(lo) && e.Right.IsSubsetOf(hi)) ||
					(e.Left.IsSubsetOf(hi) && e.Right.IsSubsetOf(lo))
				if connects {
					expected[pairCall{L: lo, R: hi, EdgeIdx: k}] = struct{}{}
				}
			}
			return true
		})
		return true
	})
	return expected
}

func buildChain(t *testing.T, n int) *hypergraph.Hypergraph {
	t.Helper()
	h := hypergraph.New()
	for i := 0; i < n; i++ {
		_, err := h.AddNode(100, "t")
		require.NoError(t, err)
	}
	for i := 0; i < n-1; i++ {
		_, err := h.AddEdge(bitset.Single(i), bitset.Single(i+1), hypergraph.EdgePayload{JoinType: hypergraph.InnerJoin})
		require.NoError(t, err)
	}
	return h
}

func buildStar(t *testing.T, leaves int) *hypergraph.Hypergraph {
	t.Helper()
	h := hypergraph.New()
	_, err := h.AddNode(100, "center")
	require.NoError(t, err)
	for i := 0; i < leaves; i++ {
		_, err := h.AddNode(10, "leaf")
		require.NoError(t, err)
		_, err = h.AddEdge(bitset.Single(0), bitset.Single(i+1), hypergraph.EdgePayload{JoinType: hypergraph.InnerJoin})
		require.NoError(t, err)
	}
	return h
}

func buildTriangleWithTail(t *testing.T) *hypergraph.Hypergraph {
	t.Helper()
	h := hypergraph.New()
	for i := 0; i < 4; i++ {
		_, err := h.AddNode(10, "t")
		require.NoError(t, err)
	}
	// Cycle among 0,1,2, plus a tail 2-3.
	_, err := h.AddEdge(bitset.Single(0), bitset.Single(1), hypergraph.EdgePayload{})
	require.NoError(t, err)
	_, err = h.AddEdge(bitset.Single(1), bitset.Single(2), hypergraph.EdgePayload{})
	require.NoError(t, err)
	_, err = h.AddEdge(bitset.Single(0), bitset.Single(2), hypergraph.EdgePayload{})
	require.NoError(t, err)
	_, err = h.AddEdge(bitset.Single(2), bitset.Single(3), hypergraph.EdgePayload{})
	require.NoError(t, err)
	return h
}

func checkAgainstBruteForce(t *testing.T, h *hypergraph.Hypergraph) {
	t.Helper()
	r := newRecordingReceiver()
	aborted := dphyp.Enumerate(h, r)
	require.False(t, aborted)

	assert.ElementsMatch(t, allNodeIndices(h.NumNodes()), r.singleNodes)

	expected := bruteForcePairs(h)
	actual := make(map[pairCall]struct{}, len(r.pairs))
	for _, p := range r.pairs {
		actual[p] = struct{}{}
	}
	assert.Equal(t, len(expected), len(r.pairs), "dphyp must report every pair exactly once, with no duplicates")

	if diff := cmp.Diff(sortedPairs(expected), sortedPairs(actual)); diff != "" {
		t.Fatalf("dphyp output diverges from brute-force reference (-want +got):\n%s", diff)
	}
}

// sortedPairs flattens a pairCall set into a deterministic slice so cmp.Diff
// can compare two sets structurally without caring about map iteration order.
func sortedPairs(set map[pairCall]struct{}) []pairCall {
	out := make([]pairCall, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].L != out[j].L {
			return out[i].L < out[j].L
		}
		if out[i].R != out[j].R {
			return out[i].R < out[j].R
		}
		return out[i].EdgeIdx < out[j].EdgeIdx
	})
	return out
}

func allNodeIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestEnumerateTwoNodeEdge(t *testing.T) {
	checkAgainstBruteForce(t, buildChain(t, 2))
}

func TestEnumerateChainOfThree(t *testing.T) {
	checkAgainstBruteForce(t, buildChain(t, 3))
}

func TestEnumerateChainOfFive(t *testing.T) {
	checkAgainstBruteForce(t, buildChain(t, 5))
}

func TestEnumerateStar(t *testing.T) {
	checkAgainstBruteForce(t, buildStar(t, 3))
}

func TestEnumerateTriangleWithTail(t *testing.T) {
	checkAgainstBruteForce(t, buildTriangleWithTail(t))
}

// TestEnumerateRespectsBottomUpOrder checks the ordering half of the
// Receiver contract: every FoundSubgraphPair call for a set S must come
// after every strict connected sub-split of S, and after every
// FoundSingleNode for S's members.
func TestEnumerateRespectsBottomUpOrder(t *testing.T) {
	h := buildChain(t, 4)
	r := newRecordingReceiver()
	aborted := dphyp.Enumerate(h, r)
	require.False(t, aborted)

	firstSeenAt := make(map[bitset.NodeSet]int)
	for i, n := range r.singleNodes {
		firstSeenAt[bitset.Single(n)] = i
	}
	step := len(r.singleNodes)
	for _, p := range r.pairs {
		union := p.L.Union(p.R)
		// L and R must themselves have been reported (as singletons or
		// earlier pairs) before this union is reported.
		lStep, lok := firstSeenAt[p.L]
		rStep, rok := firstSeenAt[p.R]
		require.True(t, lok, "L=%v must be seen before being used as a pair half", p.L)
		require.True(t, rok, "R=%v must be seen before being used as a pair half", p.R)
		assert.Less(t, lStep, step)
		assert.Less(t, rStep, step)
		firstSeenAt[union] = step
		step++
	}
}

func TestCountingReceiverLimitAborts(t *testing.T) {
	h := buildStar(t, 5)
	r := dphyp.NewCountingReceiver(2)
	aborted := dphyp.Enumerate(h, r)
	assert.True(t, aborted)
	assert.Greater(t, r.Pairs, 2)
}

func TestCountingReceiverUnlimitedMatchesRecording(t *testing.T) {
	h := buildStar(t, 4)
	counting := dphyp.NewCountingReceiver(0)
	aborted := dphyp.Enumerate(h, counting)
	require.False(t, aborted)

	r := newRecordingReceiver()
	aborted = dphyp.Enumerate(h, r)
	require.False(t, aborted)

	assert.Equal(t, len(r.pairs), counting.Pairs)
}
