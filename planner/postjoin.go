package planner

import "github.com/joinlab/hyperjoin/costing"

// attachPostJoin wraps root with the operators pj requests, in the fixed
// order sort, group, having, limit — matching how a SQL query block applies
// them. Each wrapper only costs and shapes the node (spec.md §1 Non-goals:
// this core never evaluates the sort keys, group expressions, or having
// condition themselves).
func attachPostJoin(root *costing.AccessPath, pj PostJoin, model costing.CostModel) *costing.AccessPath {
	p := root

	if pj.NeedsSort {
		p = wrapUnary(costing.Sort, p, p.NumOutputRows*model.KSort)
	}

	if pj.NeedsGroupBy {
		p = wrapUnary(costing.Aggregate, p, p.NumOutputRows*model.KAggregate)
	}

	if !pj.HavingPredicates.Empty() {
		n := float64(pj.HavingPredicates.Popcount())
		wrapped := wrapUnary(costing.Filter, p, p.NumOutputRows*model.KFilter*n)
		wrapped.FilterPredicates = pj.HavingPredicates
		p = wrapped
	}

	if pj.HasLimit {
		rows := p.NumOutputRows
		if limit := float64(pj.Limit); limit < rows {
			rows = limit
		}
		p = &costing.AccessPath{
			Type:                      costing.LimitOffset,
			Children:                  []*costing.AccessPath{p},
			NumOutputRowsBeforeFilter: p.NumOutputRows,
			CostBeforeFilter:          p.Cost,
			NumOutputRows:             rows,
			Cost:                      p.Cost,
			Tables:                    p.Tables,
			Limit:                     pj.Limit,
			Offset:                    pj.Offset,
		}
	}

	return p
}

// wrapUnary builds a single-child AccessPath of the given type atop child,
// adding extraCost on top of child's cost and passing its row count through
// unchanged.
func wrapUnary(t costing.PathType, child *costing.AccessPath, extraCost float64) *costing.AccessPath {
	return &costing.AccessPath{
		Type:                      t,
		Children:                  []*costing.AccessPath{child},
		NumOutputRows:             child.NumOutputRows,
		NumOutputRowsBeforeFilter: child.NumOutputRows,
		Cost:                      child.Cost + extraCost,
		CostBeforeFilter:          child.Cost + extraCost,
		Tables:                    child.Tables,
	}
}
