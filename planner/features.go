package planner

// checkFeatures implements the "hypergraph-not-supported-yet" error surface
// of spec.md §6/§7: queries using any of these features are rejected before
// any hypergraph construction is attempted, so the caller can cheaply fall
// back to an older planner path.
func checkFeatures(f QueryFlags) error {
	switch {
	case f.HasRollup:
		return featureError("ROLLUP")
	case f.HasFulltext:
		return featureError("fulltext search functions")
	case f.Distinct:
		return featureError("DISTINCT")
	case f.HasRecursiveCTE:
		return featureError("recursive common table expressions")
	case f.HasSecondaryEngine:
		return featureError("secondary storage engines")
	case f.HasWindowing:
		return featureError("window functions")
	case f.SQLBufferResult:
		return featureError("SQL_BUFFER_RESULT")
	case f.Ordered && f.ExplicitlyGrouped:
		return featureError("simultaneous ORDER BY and GROUP BY")
	case f.HasLateral:
		return featureError("LATERAL derived tables")
	case f.HasJoinedTableFunction:
		return featureError("joined table functions")
	case f.NumPredicatesAfterDecomposition > 64:
		return featureError("more than 64 WHERE/ON predicates after decomposition")
	}
	return nil
}
