package orderset

import (
	"strconv"
	"strings"

	"github.com/joinlab/hyperjoin/bitset"
)

// State is an opaque reference into an FSM's lazily-built table of DFSM
// states. The zero State is the FSM's initial state (Empty ordering,
// closed under always-active transitions).
type State struct {
	idx int
}

// dfsmState is one node of the subset-constructed DFSM: the (deduplicated,
// sorted) set of NFSM states reachable by the always-active closure from
// wherever the runtime has gotten to so far.
type dfsmState struct {
	members []int
}

// FSM is the built interesting-orderings state machine. It is not safe for
// concurrent use: InitialState, SetOrder and ApplyFDs add to an internal
// memo table of DFSM states without locking. That table is built lazily
// rather than as a full upfront powerset (most of the reachable powerset is
// never visited by any real plan).
type FSM struct {
	n           *nfsm
	interesting []Ordering
	orderingIdx map[int]int // regOrdering index -> bit position in `interesting`
	followsSelf []OrderingSet
	canReachAny []OrderingSet
	fdBit       map[int]int // nfsm.fds index -> compact bit position

	dfsmStates []dfsmState
	dfsmCache  map[string]int
}

func newFSM(n *nfsm, interesting []Ordering, orderingIdx map[int]int, fdBit map[int]int) *FSM {
	f := &FSM{
		n:           n,
		interesting: interesting,
		orderingIdx: orderingIdx,
		fdBit:       fdBit,
		dfsmCache:   make(map[string]int),
	}
	f.followsSelf = make([]OrderingSet, len(n.states))
	for i, st := range n.states {
		var bm OrderingSet
		for bit, target := range interesting {
			if target.isPrefixOrSubsetOf(st.ordering) {
				bm = bm.Union(bitset.Single(bit))
			}
		}
		f.followsSelf[i] = bm
	}

	f.canReachAny = make([]OrderingSet, len(n.states))
	copy(f.canReachAny, f.followsSelf)
	for changed := true; changed; {
		changed = false
		for i, st := range n.states {
			merged := f.canReachAny[i]
			for _, e := range st.edges {
				merged = merged.Union(f.canReachAny[e.to])
			}
			if merged != f.canReachAny[i] {
				f.canReachAny[i] = merged
				changed = true
			}
		}
	}

	f.getOrCreate(f.closure([]int{0}))
	return f
}

func stateKey(members []int) string {
	var b strings.Builder
	for i, m := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(m))
	}
	return b.String()
}

// closure follows every decay edge and every always-active FD edge from
// seed to a fixed point, returning the sorted, deduplicated result.
func (f *FSM) closure(seed []int) []int {
	visited := make(map[int]bool, len(seed))
	stack := append([]int(nil), seed...)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[s] {
			continue
		}
		visited[s] = true
		for _, e := range f.n.states[s].edges {
			if e.kind == edgeDecay || (e.kind == edgeFD && f.n.fds[e.fdIdx].AlwaysActive) {
				if !visited[e.to] {
					stack = append(stack, e.to)
				}
			}
		}
	}
	out := make([]int, 0, len(visited))
	for s := range visited {
		out = append(out, s)
	}
	sortInts(out)
	return out
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func (f *FSM) getOrCreate(members []int) int {
	key := stateKey(members)
	if idx, ok := f.dfsmCache[key]; ok {
		return idx
	}
	idx := len(f.dfsmStates)
	f.dfsmStates = append(f.dfsmStates, dfsmState{members: members})
	f.dfsmCache[key] = idx
	return idx
}

// InitialState is the DFSM state a freshly scanned, unordered tuple stream
// starts in.
func (f *FSM) InitialState() State {
	return State{idx: f.getOrCreate(f.closure([]int{0}))}
}

// SetOrder returns the DFSM state for a tuple stream that has just been
// constructed (e.g. by a sort or an index scan) to directly produce the
// registered ordering at orderingIdx (the index AddOrdering returned).
func (f *FSM) SetOrder(orderingIdx int) State {
	seed := 0
	for _, e := range f.n.states[0].edges {
		if e.kind == edgeConstructor && e.fdIdx == orderingIdx {
			seed = e.to
			break
		}
	}
	return State{idx: f.getOrCreate(f.closure([]int{seed}))}
}

// ApplyFDs advances s by every FD edge whose FD bit is set in active (plus
// the always-active transitions already folded into closure), returning the
// resulting state. Bits not registered by Build are ignored.
func (f *FSM) ApplyFDs(s State, active FDSet) State {
	cur := f.dfsmStates[s.idx].members
	next := append([]int(nil), cur...)
	for _, m := range cur {
		for _, e := range f.n.states[m].edges {
			if e.kind != edgeFD || f.n.fds[e.fdIdx].AlwaysActive {
				continue
			}
			bit, ok := f.fdBit[e.fdIdx]
			if !ok {
				continue
			}
			if active.Overlaps(bitset.Single(bit)) {
				next = append(next, e.to)
			}
		}
	}
	return State{idx: f.getOrCreate(f.closure(next))}
}

// DoesFollowOrder reports whether the tuple stream in state s is guaranteed
// to satisfy the interesting ordering registered at orderingIdx.
func (f *FSM) DoesFollowOrder(s State, orderingIdx int) bool {
	idx, ok := f.orderingIdx[orderingIdx]
	if !ok {
		return false
	}
	bit := bitset.Single(idx)
	for _, m := range f.dfsmStates[s.idx].members {
		if f.followsSelf[m].Overlaps(bit) {
			return true
		}
	}
	return false
}

// CanReachOrder reports whether some sequence of FD applications (any FDs,
// regardless of whether they are currently known to hold) could still bring
// the stream in state s to satisfy orderingIdx. Costing uses this to avoid
// pursuing a physical plan that has already lost the ability to produce an
// ordering a later operator needs.
func (f *FSM) CanReachOrder(s State, orderingIdx int) bool {
	idx, ok := f.orderingIdx[orderingIdx]
	if !ok {
		return false
	}
	bit := bitset.Single(idx)
	for _, m := range f.dfsmStates[s.idx].members {
		if f.canReachAny[m].Overlaps(bit) {
			return true
		}
	}
	return false
}

// MoreOrderedThan reports whether s follows orderingIdx and additionally
// carries strictly more ordering information than that ordering alone (a
// longer OrderBy/Rollup prefix, or a larger GroupBy set).
func (f *FSM) MoreOrderedThan(s State, orderingIdx int) bool {
	idx, ok := f.orderingIdx[orderingIdx]
	if !ok {
		return false
	}
	target := f.interesting[idx]
	for _, m := range f.dfsmStates[s.idx].members {
		ordering := f.n.states[m].ordering
		if !target.isPrefixOrSubsetOf(ordering) {
			continue
		}
		if len(ordering.Elements) > len(target.Elements) {
			return true
		}
	}
	return false
}
