package planner

import (
	"github.com/joinlab/hyperjoin/costing"
	"github.com/joinlab/hyperjoin/hgbuild"
)

// QueryFlags carries the query-block flags spec.md §6 lists as consumed
// from upstream, used for feature rejection. Which post-join operators get
// attached is decided by PostJoin, not by these flags.
type QueryFlags struct {
	Grouped           bool
	ExplicitlyGrouped bool
	Ordered           bool
	Distinct          bool

	HasRollup              bool
	HasFulltext            bool
	HasRecursiveCTE        bool
	HasSecondaryEngine     bool
	HasWindowing           bool
	SQLBufferResult        bool
	HasLateral             bool
	HasJoinedTableFunction bool

	// NumPredicatesAfterDecomposition is the WHERE+ON predicate count once
	// conjunctions have been split into individual conditions; spec.md §6
	// rejects queries with more than 64.
	NumPredicatesAfterDecomposition int
}

// PostJoin describes the operators the orchestrator wraps around the root
// join AccessPath (spec.md §2's "attach post-join operators"). This core
// does not evaluate sort keys, group expressions, or the having condition
// itself (spec.md §1 Non-goals: per-item evaluation) — it only costs and
// shapes the wrapping AccessPath nodes.
type PostJoin struct {
	NeedsSort    bool
	NeedsGroupBy bool

	// HavingPredicates is a bitmap of predicates that can only be evaluated
	// after grouping. attachPostJoin uses only its popcount (for cost) and
	// copies it into the having Filter node's FilterPredicates.
	HavingPredicates costing.PredicateSet

	HasLimit      bool
	Limit, Offset int64
}

// QueryBlock is everything Plan needs for one query (spec.md §6 "Consumed
// from upstream").
type QueryBlock struct {
	Root  *hgbuild.RelationalExpression
	Where []hgbuild.Condition

	Stats     costing.StatsSource
	Estimator hgbuild.SelectivityEstimator

	Flags    QueryFlags
	PostJoin PostJoin
}
