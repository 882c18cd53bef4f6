// Package hypergraph defines the join hypergraph: nodes (base relations)
// and hyperedges (join conditions whose endpoints may themselves be sets of
// relations, not just single relations).
//
// A hyperedge (L, R) is stored twice, at adjacent indices 2k and 2k+1, with
// L and R swapped in the second copy. Callers always address the logical
// edge by its index k = physical_index/2; the duplication lets every node
// touched by an edge find it in its own adjacency list with the node's side
// always on the "left", which removes a branch from the hottest loops in
// package dphyp.
//
// Invariant, maintained for the lifetime of every Hyperedge: Left != 0,
// Right != 0, and Left and Right are disjoint.
package hypergraph
