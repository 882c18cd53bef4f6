// Package costing implements the DPhyp costing receiver: the callback that
// turns each enumerated csg-cmp pair into a proposed hash-join AccessPath,
// tracks delayed predicates, and keeps the cheapest AccessPath per table
// subset (spec.md §4.6).
//
// Grounded on original_source/sql/join_optimizer/join_optimizer.cc's
// CostingReceiver (FoundSingleNode/FoundSubgraphPair/ProposeHashJoin/
// ApplyDelayedPredicatesAfterJoin), and on
// _examples/katalvlaran-lvlath/flow/types.go for the coefficient-bundle
// (FlowOptions-style) shape of CostModel.
package costing
