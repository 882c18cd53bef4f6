package planner

import (
	"fmt"

	"github.com/joinlab/hyperjoin/costing"
	"github.com/joinlab/hyperjoin/orderset"
	"github.com/joinlab/hyperjoin/tracelog"
)

// defaultPairLimit bounds the estimated DPhyp csg-cmp pair count before
// simplification kicks in (spec.md §4.4's "subgraph_pair_limit"). It is
// deliberately smaller than costing.CostModel.AccessPathLimit: pair count
// grows combinatorially with connectivity and is cheap to estimate, so
// simplifying early avoids ever approaching the access-path map limit.
const defaultPairLimit = 10000

type config struct {
	model     costing.CostModel
	pairLimit int
	fsm       *orderset.FSM
	trace     *tracelog.Trace
}

func defaultConfig() config {
	return config{
		model:     costing.DefaultCostModel(),
		pairLimit: defaultPairLimit,
	}
}

// Option mutates a Plan call's configuration, following the same
// validate-and-panic-on-programmer-error convention as costing.Option and
// _examples/katalvlaran-lvlath's builder.BuilderOption.
type Option func(*config)

// WithCostModel overrides the default cost model.
func WithCostModel(m costing.CostModel) Option {
	return func(c *config) { c.model = m }
}

// WithPairLimit overrides the subgraph-pair-count threshold that triggers
// graph simplification before DPhyp runs. Panics if limit is not positive.
func WithPairLimit(limit int) Option {
	if limit <= 0 {
		panic(fmt.Sprintf("planner: non-positive pair limit: %d", limit))
	}
	return func(c *config) { c.pairLimit = limit }
}

// WithFSM supplies a prebuilt interesting-orderings FSM (constructed via
// orderset.NewBuilder().Build() ahead of time) to the costing receiver,
// which consults it only when the cost model's ParetoByOrdering is set, to
// break exact cost ties. With or without one, Plan keeps a single access
// path per subset.
func WithFSM(fsm *orderset.FSM) Option {
	return func(c *config) { c.fsm = fsm }
}

// WithTrace attaches a trace accumulator; Plan writes the hypergraph (as
// DOT), the pair-count and simplification steps, the costing receiver's
// per-node and per-join lines, and a one-line summary of the final plan
// into it. It does not record the pushdown result or the full access-path
// tree.
func WithTrace(t *tracelog.Trace) Option {
	return func(c *config) { c.trace = t }
}
