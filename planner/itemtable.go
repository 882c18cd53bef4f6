package planner

import "github.com/joinlab/hyperjoin/orderset"

// ItemTable deduplicates opaque upstream item handles (column references,
// expression pointers) into stable orderset.ItemID values, for use when
// registering orderings and functional dependencies with an
// orderset.Builder before calling Plan with WithFSM.
//
// Per spec.md §3 "Ownership" and §9 "Global mutable state": the dedup table
// is grow-only and scoped to one planner instance, never a process
// singleton, since each planner instance is owned by a single thread.
type ItemTable struct {
	ids  map[any]orderset.ItemID
	next orderset.ItemID
}

// NewItemTable returns an empty, planner-instance-scoped item table.
func NewItemTable() *ItemTable {
	return &ItemTable{ids: make(map[any]orderset.ItemID)}
}

// IDFor returns the stable ItemID for handle, allocating a new one on first
// use.
func (t *ItemTable) IDFor(handle any) orderset.ItemID {
	if id, ok := t.ids[handle]; ok {
		return id
	}
	id := t.next
	t.ids[handle] = id
	t.next++
	return id
}

// Len returns how many distinct handles have been registered.
func (t *ItemTable) Len() int { return len(t.ids) }
