// Package hgbuild turns a RelationalExpression tree plus a WHERE conjunction
// into a hypergraph.Hypergraph and a list of costing.Predicate: predicate
// pushdown, equijoin detection, selectivity estimation, total-eligibility-set
// computation, and conservative hyperedge endpoint selection (spec.md §4.5).
//
// Grounded on original_source/sql/join_optimizer/make_join_hypergraph.cc for
// the algorithm and estimate_selectivity.h for the selectivity fallbacks.
// The tree is walked by two recursive functions (addLeaves, then addJoins),
// and a single conservativeEndpoints function shapes the hyperedge for
// every join kind.
package hgbuild
