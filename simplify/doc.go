// Package simplify heuristically widens hyperedges to shrink the number of
// csg-cmp pairs DPhyp would enumerate, for join graphs too large to plan
// exactly (spec.md §4.4). It picks the highest-benefit pair of neighboring
// edges, forces an ordering between them (widening the "later" edge to
// absorb part of the "earlier" one), and repeats until the estimated pair
// count is at or below a target, verifying after each step that the graph
// remains joinable.
//
// Grounded on original_source/sql/join_optimizer/graph_simplification.cc/.h
// for the algorithm; the priority-queue lazy-invalidation idiom follows
// _examples/katalvlaran-lvlath/dijkstra's "push a new entry, ignore stale
// ones on pop" pattern rather than the original's in-place heap-index
// bookkeeping (NeighborCache::index_in_pq), since container/heap has no
// cheap sift-down-on-update primitive.
package simplify
