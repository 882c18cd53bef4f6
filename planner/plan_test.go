package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinlab/hyperjoin/bitset"
	"github.com/joinlab/hyperjoin/costing"
	"github.com/joinlab/hyperjoin/hgbuild"
	"github.com/joinlab/hyperjoin/planner"
)

type fixedStats struct{ rows []float64 }

func (f fixedStats) RowEstimate(i int) float64 { return f.rows[i] }
func (f fixedStats) ScanCost(i int) float64    { return f.rows[i] * 0.1 }

func table(rows float64, alias string) *hgbuild.RelationalExpression {
	return &hgbuild.RelationalExpression{Type: hgbuild.TableExpr, RowEstimate: rows, Alias: alias}
}

func twoTableQueryBlock() planner.QueryBlock {
	t1 := table(100, "t1")
	t2 := table(10, "t2")
	root := &hgbuild.RelationalExpression{
		Type:  hgbuild.InnerJoinExpr,
		Left:  t1,
		Right: t2,
		JoinConditions: []hgbuild.Condition{
			{
				Handle:         "t1.a=t2.a",
				Equality:       true,
				LeftArgTables:  bitset.Single(0),
				RightArgTables: bitset.Single(1),
				UsedTables:     bitset.Single(0).Union(bitset.Single(1)),
			},
		},
	}
	return planner.QueryBlock{
		Root:  root,
		Stats: fixedStats{rows: []float64{100, 10}},
	}
}

func TestPlanRejectsUnsupportedFeatures(t *testing.T) {
	qb := twoTableQueryBlock()
	qb.Flags.HasRollup = true

	_, err := planner.Plan(qb)
	require.Error(t, err)
	assert.ErrorIs(t, err, planner.ErrFeatureNotSupported)
}

func TestPlanRejectsSimultaneousOrderAndGroupBy(t *testing.T) {
	qb := twoTableQueryBlock()
	qb.Flags.Ordered = true
	qb.Flags.ExplicitlyGrouped = true

	_, err := planner.Plan(qb)
	assert.ErrorIs(t, err, planner.ErrFeatureNotSupported)
}

func TestPlanRejectsNilRoot(t *testing.T) {
	_, err := planner.Plan(planner.QueryBlock{})
	assert.ErrorIs(t, err, planner.ErrNilQueryBlock)
}

func TestPlanTwoTableInnerJoinProducesRootCoveringBothTables(t *testing.T) {
	qb := twoTableQueryBlock()

	root, err := planner.Plan(qb)
	require.NoError(t, err)
	require.NotNil(t, root)

	full := bitset.Single(0).Union(bitset.Single(1))
	assert.Equal(t, full, root.Tables)
	assert.Equal(t, costing.HashJoin, root.Type)
	assert.Greater(t, root.Cost, 0.0)
}

func TestPlanAttachesLimitAfterJoin(t *testing.T) {
	qb := twoTableQueryBlock()
	qb.PostJoin.HasLimit = true
	qb.PostJoin.Limit = 5

	root, err := planner.Plan(qb)
	require.NoError(t, err)
	require.Equal(t, costing.LimitOffset, root.Type)
	assert.InDelta(t, 5.0, root.NumOutputRows, 1e-9)
	assert.Equal(t, int64(5), root.Limit)
}

func TestPlanAttachesSortThenGroupThenHavingThenLimitInOrder(t *testing.T) {
	qb := twoTableQueryBlock()
	qb.PostJoin.NeedsSort = true
	qb.PostJoin.NeedsGroupBy = true
	qb.PostJoin.HavingPredicates = bitset.Single(0)
	qb.PostJoin.HasLimit = true
	qb.PostJoin.Limit = 1

	root, err := planner.Plan(qb)
	require.NoError(t, err)

	require.Equal(t, costing.LimitOffset, root.Type)
	having := root.Input()
	require.Equal(t, costing.Filter, having.Type)
	group := having.Input()
	require.Equal(t, costing.Aggregate, group.Type)
	sort := group.Input()
	require.Equal(t, costing.Sort, sort.Type)
	require.Equal(t, costing.HashJoin, sort.Input().Type)
}

func TestPlanRejectsTooManyPredicates(t *testing.T) {
	qb := twoTableQueryBlock()
	qb.Flags.NumPredicatesAfterDecomposition = 65

	_, err := planner.Plan(qb)
	assert.ErrorIs(t, err, planner.ErrFeatureNotSupported)
}

func TestItemTableDeduplicatesHandles(t *testing.T) {
	it := planner.NewItemTable()
	a := it.IDFor("col_a")
	b := it.IDFor("col_b")
	aAgain := it.IDFor("col_a")

	assert.Equal(t, a, aAgain)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, it.Len())
}
