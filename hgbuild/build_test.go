package hgbuild_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/hgbuild"
)

func table(rows float64, alias string) *hgbuild.RelationalExpression {
	return &hgbuild.RelationalExpression{Type: hgbuild.TableExpr, RowEstimate: rows, Alias: alias}
}

func TestBuildTwoTableInnerJoinWithSingleTablePredicate(t *testing.T) {
	t1 := table(100, "t1")
	t2 := table(10, "t2")
	root := &hgbuild.RelationalExpression{
		Type:  hgbuild.InnerJoinExpr,
		Left:  t1,
		Right: t2,
		JoinConditions: []hgbuild.Condition{
			{Handle: "t1.a=t2.a", Equality: true, LeftArgTables: bitset.Single(0), RightArgTables: bitset.Single(1), UsedTables: bitset.Single(0).Union(bitset.Single(1))},
		},
	}
	where := []hgbuild.Condition{
		{Handle: "t1.x>5", Inequality: true, UsedTables: bitset.Single(0)},
	}

	res, err := hgbuild.Build(root, where, nil)
	require.NoError(t, err)
	require.Len(t, res.Predicates, 1)
	assert.Equal(t, bitset.Single(0), res.Predicates[0].TotalEligibilitySet)
	assert.InDelta(t, 1.0/3.0, res.Predicates[0].Selectivity, 1e-9)

	require.Equal(t, 1, res.Graph.NumLogicalEdges())
	payload := res.Graph.Payload(0)
	require.Len(t, payload.Equi, 1)
	assert.Empty(t, payload.Residual)
}

func TestBuildLeftJoinBlocksPushdownIntoRightSide(t *testing.T) {
	t1 := table(100, "t1")
	t2 := table(10, "t2")
	root := &hgbuild.RelationalExpression{
		Type:  hgbuild.LeftJoinExpr,
		Left:  t1,
		Right: t2,
		JoinConditions: []hgbuild.Condition{
			{Handle: "t1.a=t2.a", Equality: true, LeftArgTables: bitset.Single(0), RightArgTables: bitset.Single(1), UsedTables: bitset.Single(0).Union(bitset.Single(1))},
		},
	}
	where := []hgbuild.Condition{
		{Handle: "t2.y IS NOT NULL", Equality: false, Inequality: false, UsedTables: bitset.Single(1)},
	}

	res, err := hgbuild.Build(root, where, nil)
	require.NoError(t, err)
	require.Len(t, res.Predicates, 1)
	full := bitset.Single(0).Union(bitset.Single(1))
	assert.Equal(t, full, res.Predicates[0].TotalEligibilitySet, "a predicate touching the null-producing side of a left join must not be eligible until the whole join has resolved")
	assert.InDelta(t, 0.5, res.Predicates[0].Selectivity, 1e-9, "unrecognized comparison falls back to 0.5")
}

func TestBuildStraddlingWhereConditionIsAbsorbedIntoInnerJoin(t *testing.T) {
	t1 := table(100, "t1")
	t2 := table(10, "t2")
	root := &hgbuild.RelationalExpression{Type: hgbuild.InnerJoinExpr, Left: t1, Right: t2}
	where := []hgbuild.Condition{
		{
			Handle:         "t1.a=t2.a",
			Equality:       true,
			LeftArgTables:  bitset.Single(0),
			RightArgTables: bitset.Single(1),
			UsedTables:     bitset.Single(0).Union(bitset.Single(1)),
		},
	}

	res, err := hgbuild.Build(root, where, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Predicates, "a straddling equi-join condition on an inner join is absorbed into the edge, not kept as a WHERE predicate")
	require.Equal(t, 1, res.Graph.NumLogicalEdges())
	assert.Len(t, res.Graph.Payload(0).Equi, 1)
}

func TestBuildThreeTableChainConservativeEndpoints(t *testing.T) {
	t1, t2, t3 := table(100, "t1"), table(10, "t2"), table(5, "t3")
	inner := &hgbuild.RelationalExpression{
		Type:  hgbuild.InnerJoinExpr,
		Left:  t1,
		Right: t2,
		JoinConditions: []hgbuild.Condition{
			{Handle: "t1.a=t2.a", Equality: true, LeftArgTables: bitset.Single(0), RightArgTables: bitset.Single(1), UsedTables: bitset.Single(0).Union(bitset.Single(1))},
		},
	}
	root := &hgbuild.RelationalExpression{
		Type:  hgbuild.LeftJoinExpr,
		Left:  inner,
		Right: t3,
		JoinConditions: []hgbuild.Condition{
			{Handle: "t2.b=t3.b", Equality: true, LeftArgTables: bitset.Single(1), RightArgTables: bitset.Single(2), UsedTables: bitset.Single(1).Union(bitset.Single(2))},
		},
	}

	res, err := hgbuild.Build(root, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, res.Graph.NumLogicalEdges())

	// The outer join's left child (t1 JOIN t2) is inner-join-only, so its
	// endpoint narrows to just the table the join condition references
	// (t2), rather than widening to the full (t1,t2) subtree.
	outerEdge := res.Graph.LogicalEdge(1)
	assert.Equal(t, bitset.Single(1), outerEdge.Left)
	assert.Equal(t, bitset.Single(2), outerEdge.Right)

	payload := res.Graph.Payload(1)
	assert.Len(t, payload.ConflictRules, 1)
	assert.Equal(t, bitset.Single(2), payload.ConflictRules[0].NeededToActivate)
}

func TestBuildRejectsNilTree(t *testing.T) {
	_, err := hgbuild.Build(nil, nil, nil)
	assert.ErrorIs(t, err, hgbuild.ErrNilExpression)
}
