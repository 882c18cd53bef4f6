// Package planner is the top-level orchestrator (spec.md §2 "Orchestration"):
// it builds a hypergraph from a relational-expression tree, runs DPhyp
// through the costing receiver (simplifying first if the estimated subgraph
// pair count is too large), and wraps the resulting root AccessPath with
// post-join operators (sort, group, having, limit).
//
// Grounded on original_source/sql/join_optimizer/join_optimizer.cc's
// top-level FindBestQueryPlanUsingHypergraph control flow, restructured
// into a single Plan entry point the way
// _examples/katalvlaran-lvlath/builder exposes one constructor per shape
// behind functional options.
package planner
