// Package dphyp implements the DPhyp algorithm for enumerating connected
// subgraph / connected complement pairs of a join hypergraph, exactly once
// each, in the bottom-up order a dynamic-programming join planner needs.
//
// The algorithm is from Neumann and Moerkotte, "Dynamic Programming Strikes
// Back", extended here to hypergraphs the way
// original_source/sql/join_optimizer/subgraph_enumeration.h does: relations
// are nodes, join predicates (including those encoding outer/semi/anti
// reordering barriers) are hyperedges whose endpoints may themselves be sets
// of relations.
//
// Rough outline (see Enumerate's doc comment for the precise contract):
//
//  1. Pick a seed node, counting backwards from the highest index.
//  2. Grow the seed along hyperedges into larger connected subgraphs
//     (ExpandSubgraph), taking care never to see the same subgraph twice.
//  3. For each connected subgraph (csg), independently grow a disjoint
//     complement (cmp) the same way, and look for an edge connecting them.
//  4. Every time such a csg-cmp pair is found, call back into the receiver;
//     this is a legal binary join the receiver can cost.
//
// Stack depth is bounded by the number of nodes (at most bitset.MaxNodes);
// this is deliberately implemented as direct recursion rather than an
// explicit stack, per spec.md §9 ("the code is subtle enough that obscuring
// the control flow harms review quality").
package dphyp
