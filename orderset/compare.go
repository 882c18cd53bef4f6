package orderset

// CompareStates reports whether state a carries ordering information state
// b lacks, and vice versa, restricted to interesting orderings outside
// ignore. Per spec.md §4.3.3 ("MoreOrderedThan(a, b, ignored)") and the
// testable property in §8 ("MoreOrderedThan(a,b) and MoreOrderedThan(b,a)
// both false implies a and b satisfy the same interesting orderings"),
// costing uses this to decide whether a more expensive access path is
// still worth keeping because it is ordered in a way its cheaper rival
// isn't.
func (f *FSM) CompareStates(a, b State, ignore OrderingSet) (aBeatsB, bBeatsA bool) {
	aFollows := f.followedOrderings(a).Minus(ignore)
	bFollows := f.followedOrderings(b).Minus(ignore)
	aReach := f.reachableOrderings(a).Minus(ignore)
	bReach := f.reachableOrderings(b).Minus(ignore)

	aBeatsB = aFollows.Minus(bFollows) != 0 || aReach.Minus(bReach) != 0
	bBeatsA = bFollows.Minus(aFollows) != 0 || bReach.Minus(aReach) != 0
	return aBeatsB, bBeatsA
}

// MoreOrderedThanState is the two-argument form of MoreOrderedThan: true
// iff a satisfies, or can still reach, some interesting ordering (outside
// ignore) that b cannot.
func (f *FSM) MoreOrderedThanState(a, b State, ignore OrderingSet) bool {
	beats, _ := f.CompareStates(a, b, ignore)
	return beats
}

func (f *FSM) followedOrderings(s State) OrderingSet {
	var bm OrderingSet
	for _, m := range f.dfsmStates[s.idx].members {
		bm = bm.Union(f.followsSelf[m])
	}
	return bm
}

func (f *FSM) reachableOrderings(s State) OrderingSet {
	var bm OrderingSet
	for _, m := range f.dfsmStates[s.idx].members {
		bm = bm.Union(f.canReachAny[m])
	}
	return bm
}
