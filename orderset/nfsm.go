package orderset

import "sort"

type edgeKind int

const (
	edgeConstructor edgeKind = iota
	edgeDecay
	edgeFD
)

type nfsmEdge struct {
	kind  edgeKind
	fdIdx int // FD index for edgeFD, ordering index for edgeConstructor, unused for edgeDecay
	to    int
}

type nfsmState struct {
	ordering    Ordering
	interesting bool
	orderingIdx int // index into the final "orderings" slice this state was built from, or -1
	edges       []nfsmEdge
}

type nfsm struct {
	states []nfsmState
	fds    []FunctionalDependency
}

// buildNFSM builds the NFSM: one state per registered ordering plus an
// initial empty-ordering state, a constructor edge from the initial state
// to every registered ordering, and decay/FD edges discovered by closure,
// bounded by the heuristic that a candidate ordering is only materialized
// as a state if it is a prefix (OrderBy/Rollup) or subset (GroupBy) of some
// interesting ordering. No pruning pass runs over the result.
func buildNFSM(orderings []regOrdering, fds []FunctionalDependency, canonical map[ItemID]ItemID) *nfsm {
	interestingOrderings := make([]Ordering, 0, len(orderings))
	for _, ro := range orderings {
		if ro.tag == Interesting {
			interestingOrderings = append(interestingOrderings, ro.ordering)
		}
	}

	n := &nfsm{fds: fds}
	n.states = append(n.states, nfsmState{ordering: Ordering{Kind: Empty}, orderingIdx: -1})

	findState := func(o Ordering) int {
		for i, st := range n.states {
			if st.ordering.equal(o) {
				return i
			}
		}
		return -1
	}

	isUseful := func(o Ordering) bool {
		if len(o.Elements) == 0 {
			return true
		}
		for _, interesting := range interestingOrderings {
			if o.isPrefixOrSubsetOf(interesting) {
				return true
			}
		}
		return false
	}

	var queue []int
	for i, ro := range orderings {
		idx := findState(ro.ordering)
		if idx == -1 {
			idx = len(n.states)
			n.states = append(n.states, nfsmState{
				ordering:    ro.ordering,
				interesting: ro.tag == Interesting,
				orderingIdx: i,
			})
			queue = append(queue, idx)
		} else if ro.tag == Interesting {
			n.states[idx].interesting = true
			n.states[idx].orderingIdx = i
		}
		n.states[0].edges = append(n.states[0].edges, nfsmEdge{kind: edgeConstructor, fdIdx: i, to: idx})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		base := n.states[cur].ordering

		if decayed, ok := decay(base); ok {
			n.states[cur].edges = append(n.states[cur].edges, n.connectOrCreate(decayed, edgeDecay, 0, isUseful, &queue))
		}

		for fdIdx, fd := range fds {
			if fd.Kind == Decay {
				continue
			}
			for _, candidate := range applyFD(base, fd, canonical) {
				n.states[cur].edges = append(n.states[cur].edges, n.connectOrCreate(candidate, edgeFD, fdIdx, isUseful, &queue))
			}
		}
		// Drop any zero-value edges produced for non-useful candidates
		// (connectOrCreate returns {to: -1} for those).
		kept := n.states[cur].edges[:0]
		for _, e := range n.states[cur].edges {
			if e.to >= 0 {
				kept = append(kept, e)
			}
		}
		n.states[cur].edges = kept
	}

	return n
}

// connectOrCreate returns an edge to the state representing candidate,
// creating it (and enqueuing it for further expansion) if it doesn't exist
// yet and passes the isUseful test; returns an edge with to=-1 (discarded
// by the caller) if candidate is not useful.
func (n *nfsm) connectOrCreate(candidate Ordering, kind edgeKind, fdIdx int, isUseful func(Ordering) bool, queue *[]int) nfsmEdge {
	for i, st := range n.states {
		if st.ordering.equal(candidate) {
			return nfsmEdge{kind: kind, fdIdx: fdIdx, to: i}
		}
	}
	if !isUseful(candidate) {
		return nfsmEdge{to: -1}
	}
	idx := len(n.states)
	n.states = append(n.states, nfsmState{ordering: candidate, orderingIdx: -1})
	*queue = append(*queue, idx)
	return nfsmEdge{kind: kind, fdIdx: fdIdx, to: idx}
}

// decay drops the last element of an OrderBy/Rollup ordering. GroupBy
// orderings have no positional "last element", so decay does not apply to
// them.
func decay(o Ordering) (Ordering, bool) {
	if o.Kind == GroupBy || len(o.Elements) == 0 {
		return Ordering{}, false
	}
	if len(o.Elements) == 1 {
		return Ordering{Kind: Empty}, true
	}
	return Ordering{Kind: o.Kind, Elements: append([]OrderingElem(nil), o.Elements[:len(o.Elements)-1]...)}, true
}

// applyFD enumerates every ordering reachable from o by applying fd once.
// Equivalence FDs are registered in one direction (Head implies Tail) but
// hold in both, so they are tried both as given and with Head/Tail swapped.
func applyFD(o Ordering, fd FunctionalDependency, canonical map[ItemID]ItemID) []Ordering {
	if fd.Kind == Equivalence && len(fd.Head) == 1 {
		out := applyFDOneWay(o, fd, canonical)
		swapped := FunctionalDependency{Kind: Equivalence, Head: []ItemID{fd.Tail}, Tail: fd.Head[0], AlwaysActive: fd.AlwaysActive}
		return append(out, applyFDOneWay(o, swapped, canonical)...)
	}
	return applyFDOneWay(o, fd, canonical)
}

// applyFDOneWay enumerates every ordering reachable from o by applying fd
// once in the direction given: for OrderBy/Rollup, inserting fd.Tail at
// every position after the last position where every element of fd.Head
// was matched (by canonical identity), in each direction, plus (for
// Equivalence FDs) in-place replacement at the matched position; for
// GroupBy, adding fd.Tail to the member set if the head set is already
// covered.
func applyFDOneWay(o Ordering, fd FunctionalDependency, canonical map[ItemID]ItemID) []Ordering {
	head := make(map[ItemID]bool, len(fd.Head))
	for _, h := range fd.Head {
		head[canonicalItem(canonical, h)] = true
	}

	if o.Kind == GroupBy {
		present := make(map[ItemID]bool, len(o.Elements))
		for _, e := range o.Elements {
			present[canonicalItem(canonical, e.Item)] = true
		}
		for h := range head {
			if !present[h] {
				return nil
			}
		}
		if present[canonicalItem(canonical, fd.Tail)] {
			return nil
		}
		elems := append([]OrderingElem(nil), o.Elements...)
		elems = append(elems, OrderingElem{Item: fd.Tail})
		sort.Slice(elems, func(i, j int) bool { return elems[i].Item < elems[j].Item })
		return []Ordering{{Kind: GroupBy, Elements: elems}}
	}

	lastHeadPos := -1
	for item := range head {
		found := false
		for i, e := range o.Elements {
			if canonicalItem(canonical, e.Item) == item {
				if i > lastHeadPos {
					lastHeadPos = i
				}
				found = true
				break
			}
		}
		if !found {
			return nil
		}
	}

	var out []Ordering
	directions := []Direction{Ascending, Descending}
	for insertPos := lastHeadPos + 1; insertPos <= len(o.Elements); insertPos++ {
		for _, dir := range directions {
			elems := make([]OrderingElem, 0, len(o.Elements)+1)
			elems = append(elems, o.Elements[:insertPos]...)
			elems = append(elems, OrderingElem{Item: fd.Tail, Direction: dir})
			elems = append(elems, o.Elements[insertPos:]...)
			out = append(out, Ordering{Kind: o.Kind, Elements: elems})
		}
	}
	if fd.Kind == Equivalence && len(fd.Head) == 1 && lastHeadPos >= 0 {
		replaced := append([]OrderingElem(nil), o.Elements...)
		replaced[lastHeadPos] = OrderingElem{Item: fd.Tail, Direction: replaced[lastHeadPos].Direction}
		out = append(out, Ordering{Kind: o.Kind, Elements: replaced})
	}
	return out
}
