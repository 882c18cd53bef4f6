// Package cyclefind implements a fast online cycle finder for a DAG built
// up one edge at a time, based on Pearce & Kelly, "Online Cycle Detection
// and Difference Propagation for Pointer Analysis" (2003), section 3.2.
//
// It maintains a topological order of a fixed set of vertices and, on each
// AddEdge, only re-sorts the stretch of the order from the new edge's head
// to its tail, endpoints included — the amortized cost of Θ(E) insertions is O(V), rather
// than the O(V+E) a from-scratch topological sort would cost per edge.
//
// Package simplify uses this to track happens-before constraints between
// hyperedges as it widens them: a widening step is legal only if it does not
// close a cycle in that partial order (see spec.md §4.4).
package cyclefind
