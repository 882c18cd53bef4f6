// Package hyperjoin is a hypergraph-based SQL join order optimizer core.
//
// Given a query block's joined relations, WHERE conditions, and a
// cardinality/cost source, hyperjoin builds a hypergraph representation of
// the join (package hgbuild), optionally simplifies it when the DPhyp
// subgraph enumeration would be too large (package simplify), enumerates
// connected subgraph pairs (package dphyp), costs and remembers the best
// access path for each one seen (package costing), and folds in interesting
// physical orderings so that sorts can sometimes be skipped (package
// orderset). Package planner ties these stages into a single Plan call and
// applies the post-join operators (sort, group, having, limit) that sit
// above the join tree.
//
// Everything here is concerned with choosing a join order and an access
// path, not with executing one: there is no row iterator, no expression
// evaluator, and no SQL parser in this module.
package hyperjoin
