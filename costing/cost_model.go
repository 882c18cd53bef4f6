package costing

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// CostModel bundles the per-row coefficients the hash-join and filter cost
// formulas in spec.md §4.6 and §9 use. §9 flags these as "arbitrary
// constants" to be fit to observed latencies before trusting cross-shape
// cost comparisons; until then they are named constants, overridable via
// functional options or a TOML file for offline tuning experiments.
//
// Grounded on original_source/sql/join_optimizer/join_optimizer.cc's
// kHashBuildOneRowCost/kHashProbeOneRowCost/kApplyOneFilterCost constants,
// generalized into a struct the way
// _examples/katalvlaran-lvlath/flow/types.go bundles FlowOptions.
type CostModel struct {
	// KBuild is the per-row cost of inserting into the hash-join build side.
	KBuild float64
	// KProbe is the per-row cost of probing the hash-join's build side.
	KProbe float64
	// KReturn is the per-row cost of materializing a join's output row.
	KReturn float64
	// KFilter is the per-row cost of evaluating one filter predicate.
	KFilter float64
	// KSort is the per-row cost of a sort operator.
	KSort float64
	// KAggregate is the per-row cost of an aggregate operator.
	KAggregate float64

	// ParetoByOrdering opts into an ordering-aware dominance test modelled
	// on the original's compare_access_paths.h: when the receiver has an
	// FSM, a candidate AccessPath of exactly equal cost replaces the
	// incumbent for the same table subset if it is more ordered. The
	// receiver still keeps a single path per subset, so a more expensive
	// path is never retained. Default false keeps spec.md §4.6's default
	// behavior ("only one access path per subset is retained").
	ParetoByOrdering bool

	// AccessPathLimit aborts enumeration once the receiver's best-plan map
	// would exceed this many entries (spec.md §4.6 "Termination"). Zero
	// means the default of 100000.
	AccessPathLimit int
}

// DefaultCostModel returns the coefficients ported from the original's
// kHash*/kApplyOneFilterCost constants.
func DefaultCostModel() CostModel {
	return CostModel{
		KBuild:          0.01,
		KProbe:          0.01,
		KReturn:         0.001,
		KFilter:         0.01,
		KSort:           0.01,
		KAggregate:      0.01,
		AccessPathLimit: 100000,
	}
}

// Option mutates a CostModel under construction. Following
// _examples/katalvlaran-lvlath's dfs.Option/dijkstra.Option/
// builder.BuilderOption convention: option constructors validate and panic
// on a programmer error (a negative coefficient), never on data the caller
// merely doesn't control.
type Option func(*CostModel)

// WithCoefficient overrides one of the six K_* coefficients, identified by
// name ("build", "probe", "return", "filter", "sort", "aggregate").
// Panics if coefficient is negative or name is unrecognized.
func WithCoefficient(name string, coefficient float64) Option {
	if coefficient < 0 {
		panic(fmt.Sprintf("costing: negative coefficient for %q: %g", name, coefficient))
	}
	return func(m *CostModel) {
		switch name {
		case "build":
			m.KBuild = coefficient
		case "probe":
			m.KProbe = coefficient
		case "return":
			m.KReturn = coefficient
		case "filter":
			m.KFilter = coefficient
		case "sort":
			m.KSort = coefficient
		case "aggregate":
			m.KAggregate = coefficient
		default:
			panic(fmt.Sprintf("costing: unknown coefficient name %q", name))
		}
	}
}

// WithParetoByOrdering toggles the interesting-orderings dominance
// extension described on CostModel.ParetoByOrdering.
func WithParetoByOrdering(enabled bool) Option {
	return func(m *CostModel) { m.ParetoByOrdering = enabled }
}

// WithAccessPathLimit overrides the best-plan map size that aborts
// enumeration. Panics if limit <= 0.
func WithAccessPathLimit(limit int) Option {
	if limit <= 0 {
		panic(fmt.Sprintf("costing: non-positive access path limit: %d", limit))
	}
	return func(m *CostModel) { m.AccessPathLimit = limit }
}

// NewCostModel returns DefaultCostModel with opts applied in order.
func NewCostModel(opts ...Option) CostModel {
	m := DefaultCostModel()
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// coefficientFile is the on-disk shape a CostModel coefficient file parses
// into, for offline tuning experiments per SPEC_FULL.md's ambient-stack
// "config for tunable cost coefficients" bullet. This is never read on the
// hot planning path; it exists purely for LoadCostModelFile.
type coefficientFile struct {
	Build     float64 `toml:"build"`
	Probe     float64 `toml:"probe"`
	Return    float64 `toml:"return"`
	Filter    float64 `toml:"filter"`
	Sort      float64 `toml:"sort"`
	Aggregate float64 `toml:"aggregate"`
}

// LoadCostModelFile reads a TOML coefficient file (keys: build, probe,
// return, filter, sort, aggregate) and returns a CostModel with those
// coefficients, falling back to DefaultCostModel's value for any key the
// file omits (a zero value in the file is indistinguishable from "omitted",
// which is acceptable for an offline tuning aid).
func LoadCostModelFile(path string) (CostModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CostModel{}, fmt.Errorf("costing: reading coefficient file: %w", err)
	}
	var cf coefficientFile
	if err := toml.Unmarshal(data, &cf); err != nil {
		return CostModel{}, fmt.Errorf("costing: parsing coefficient file: %w", err)
	}
	m := DefaultCostModel()
	var opts []Option
	if cf.Build > 0 {
		opts = append(opts, WithCoefficient("build", cf.Build))
	}
	if cf.Probe > 0 {
		opts = append(opts, WithCoefficient("probe", cf.Probe))
	}
	if cf.Return > 0 {
		opts = append(opts, WithCoefficient("return", cf.Return))
	}
	if cf.Filter > 0 {
		opts = append(opts, WithCoefficient("filter", cf.Filter))
	}
	if cf.Sort > 0 {
		opts = append(opts, WithCoefficient("sort", cf.Sort))
	}
	if cf.Aggregate > 0 {
		opts = append(opts, WithCoefficient("aggregate", cf.Aggregate))
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m, nil
}
