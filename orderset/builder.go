package orderset

import (
	"errors"
	"sort"
)

// ErrTooManyOrderings and ErrTooManyFDs are returned by Build if pruning and
// dedup still leave more than 64 interesting orderings or non-always-active
// FDs to track; spec.md §4.3.3 treats this as a hard runtime limit rather
// than a hard registration limit, so Builder itself never rejects
// registrations — only Build, once it knows the final counts, can.
var (
	ErrTooManyOrderings = errors.New("orderset: more than 64 interesting orderings after build")
	ErrTooManyFDs       = errors.New("orderset: more than 64 non-always-active functional dependencies after build")
)

const maxTrackedBitmapEntries = 64

// Builder accumulates Orderings and FunctionalDependencies for a single
// query block, then produces an immutable runtime FSM via Build.
type Builder struct {
	orderings []regOrdering
	fds       []FunctionalDependency

	// itemTables maps an item to the single base table it is computed
	// from; items that reference more than one table, or a constant,
	// should be omitted (homogenization simply won't apply to them).
	itemTables map[ItemID]int
}

type regOrdering struct {
	ordering Ordering
	tag      OrderingTag
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{itemTables: make(map[ItemID]int)}
}

// SetItemTable records that item is produced entirely by base table idx
// (a hypergraph node index). Only items registered this way are candidates
// for ordering homogenization.
func (b *Builder) SetItemTable(item ItemID, tableIdx int) {
	b.itemTables[item] = tableIdx
}

// AddOrdering registers an ordering under the given tag, returning its
// index. Registering an ordering that already exists (structurally equal)
// returns the existing index, promoting its tag to the more demanding of
// the two (Interesting > Homogenized > Uninteresting).
func (b *Builder) AddOrdering(o Ordering, tag OrderingTag) int {
	if o.Kind == GroupBy {
		elems := append([]OrderingElem(nil), o.Elements...)
		sort.Slice(elems, func(i, j int) bool { return elems[i].Item < elems[j].Item })
		o = Ordering{Kind: GroupBy, Elements: elems}
	}
	for i, existing := range b.orderings {
		if existing.ordering.equal(o) {
			if tag < existing.tag {
				b.orderings[i].tag = tag
			}
			return i
		}
	}
	b.orderings = append(b.orderings, regOrdering{ordering: o, tag: tag})
	return len(b.orderings) - 1
}

// AddFD registers a functional dependency, returning its index. Duplicate
// FDs (same kind, head set, tail, and always-active flag; equivalence FDs
// compared symmetrically) return the existing index.
func (b *Builder) AddFD(fd FunctionalDependency) int {
	for i, existing := range b.fds {
		if fdEqual(existing, fd) {
			return i
		}
	}
	b.fds = append(b.fds, fd)
	return len(b.fds) - 1
}

func fdEqual(a, b FunctionalDependency) bool {
	if a.Kind != b.Kind || a.AlwaysActive != b.AlwaysActive {
		return false
	}
	if a.Kind == Equivalence {
		// a.Head/Tail vs b.Head/Tail: Equivalence(x,y) == Equivalence(y,x).
		ax, ay := a.Head[0], a.Tail
		bx, by := b.Head[0], b.Tail
		return (ax == bx && ay == by) || (ax == by && ay == bx)
	}
	if a.Tail != b.Tail || len(a.Head) != len(b.Head) {
		return false
	}
	aSet := make(map[ItemID]bool, len(a.Head))
	for _, h := range a.Head {
		aSet[h] = true
	}
	for _, h := range b.Head {
		if !aSet[h] {
			return false
		}
	}
	return true
}

// equivalenceClasses computes, from the registered Equivalence FDs, a union
// of items and returns two maps: canonical (item -> lowest-indexed member of
// its class) and members (canonical item -> every item in its class,
// including itself).
func (b *Builder) equivalenceClasses() (canonical map[ItemID]ItemID, members map[ItemID][]ItemID) {
	parent := make(map[ItemID]ItemID)
	var find func(ItemID) ItemID
	find = func(x ItemID) ItemID {
		p, ok := parent[x]
		if !ok {
			parent[x] = x
			return x
		}
		if p != x {
			parent[x] = find(p)
		}
		return parent[x]
	}
	union := func(a, c ItemID) {
		ra, rc := find(a), find(c)
		if ra == rc {
			return
		}
		// Keep the lower ID as root so canonical items are deterministic
		// and stable regardless of registration order.
		if ra < rc {
			parent[rc] = ra
		} else {
			parent[ra] = rc
		}
	}

	for _, fd := range b.fds {
		if fd.Kind == Equivalence {
			union(fd.Head[0], fd.Tail)
		}
	}

	canonical = make(map[ItemID]ItemID, len(parent))
	members = make(map[ItemID][]ItemID)
	for item := range parent {
		root := find(item)
		canonical[item] = root
		members[root] = append(members[root], item)
	}
	return canonical, members
}

// canonicalItem returns item's canonical representative, or item itself if
// it belongs to no registered equivalence class.
func canonicalItem(canonical map[ItemID]ItemID, item ItemID) ItemID {
	if c, ok := canonical[item]; ok {
		return c
	}
	return item
}
