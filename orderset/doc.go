// Package orderset builds and runs the interesting-orderings state machine:
// given a set of orderings a client cares about (sort/group properties) and
// a set of functional dependencies (FDs) that can transform one ordering
// into another, it produces a deterministic finite state machine (DFSM)
// that tracks, for any point in a query plan, which interesting orderings
// the tuple stream currently satisfies and which it could still reach.
//
// The build pipeline (Builder.Build) follows
// original_source/sql/join_optimizer/interesting_orders.cc's shape:
// equivalence-class folding, FD pruning, ordering homogenization, NFSM
// construction over orderings and FDs, then a powerset (subset) construction
// down to a DFSM, built lazily as the runtime visits states. There is no
// separate NFSM pruning pass: the only bound on NFSM size is that a new
// state is created only for an ordering that is a prefix (or subset) of some
// interesting ordering. The runtime surface (FSM) is intentionally tiny:
// SetOrder, ApplyFDs, DoesFollowOrder, MoreOrderedThan.
//
// At most 64 interesting orderings and 64 non-always-active functional
// dependencies get runtime bitmap slots (the DFSM's follows/can-reach/can-use
// bitmaps are bitset.NodeSet-shaped uint64s). Registering more is legal, but
// Build then fails with ErrTooManyOrderings or ErrTooManyFDs; it does not
// drop the excess and carry on.
package orderset
