package tracelog

import (
	"fmt"
	"strings"

	"github.com/joinlab/hyperjoin/hypergraph"
	"github.com/joinlab/hyperjoin/numfmt"
	"github.com/joinlab/hyperjoin/orderset"
)

// Trace accumulates the human-readable planning narrative spec.md §6
// describes: input join tree, pushdown result, hypergraph/NFSM/DFSM in
// graphviz form, per-predicate selectivity, simplification steps, and the
// final access-path tree. It is a plain strings.Builder wrapper; nothing
// here is structured for machine consumption, matching the spec's "a
// human-readable string" framing.
//
// A nil *Trace is valid and silently discards everything, so call sites
// that accept an optional trace don't need a separate enabled/disabled
// branch (mirrored on original_source's `std::string *trace` being
// nullable throughout the join optimizer).
type Trace struct {
	b strings.Builder
}

// New returns an empty, enabled Trace.
func New() *Trace { return &Trace{} }

// Printf appends a formatted line to the trace. Safe to call on a nil
// *Trace.
func (t *Trace) Printf(format string, args ...interface{}) {
	if t == nil {
		return
	}
	fmt.Fprintf(&t.b, format, args...)
	if !strings.HasSuffix(format, "\n") {
		t.b.WriteByte('\n')
	}
}

// Section appends a titled section header, used to delimit the major
// phases listed in spec.md §6 (pushdown, hypergraph, simplification, ...).
func (t *Trace) Section(title string) {
	if t == nil {
		return
	}
	t.b.WriteString("=== " + title + " ===\n")
}

// Selectivity appends a one-line report of a predicate's estimated
// selectivity, formatted with numfmt for readability.
func (t *Trace) Selectivity(label string, selectivity float64) {
	t.Printf("selectivity(%s) = %s", label, numfmt.FormatNumberReadably(selectivity))
}

// Hypergraph appends the DOT rendering of g under a "Hypergraph" section.
func (t *Trace) Hypergraph(g *hypergraph.Hypergraph) {
	if t == nil {
		return
	}
	t.Section("Hypergraph")
	t.b.WriteString(DotHypergraph(g))
}

// FSM appends the DOT rendering of the built interesting-orderings NFSM
// under an "Interesting orderings" section.
func (t *Trace) FSM(f *orderset.FSM) {
	if t == nil {
		return
	}
	t.Section("Interesting orderings")
	t.b.WriteString(f.DotNFSM())
}

// String returns the accumulated trace text. A nil *Trace returns "".
func (t *Trace) String() string {
	if t == nil {
		return ""
	}
	return t.b.String()
}

// DotHypergraph renders g in Graphviz DOT form: one node per relation, one
// edge per logical hyperedge, labeled with its join type and selectivity.
//
// Ported from original_source/sql/join_optimizer/print_utils.cc's
// GenerateExpressionLabel conventions (join-type prefix tags like "[left]",
// "[semi]", "[anti]", "[full]").
func DotHypergraph(g *hypergraph.Hypergraph) string {
	var b strings.Builder
	b.WriteString("graph hypergraph {\n")
	for i, n := range g.Nodes {
		alias := n.Alias
		if alias == "" {
			alias = fmt.Sprintf("t%d", i)
		}
		fmt.Fprintf(&b, "  t%d [label=%q];\n", i, fmt.Sprintf("%s (%s rows)", alias, numfmt.FormatNumberReadably(n.RowEstimate)))
	}
	for k := 0; k < g.NumLogicalEdges(); k++ {
		e := g.LogicalEdge(k)
		p := g.Payload(k)
		label := joinTypeLabel(p.JoinType) + numfmt.FormatNumberReadably(p.Selectivity)
		for _, l := range e.Left.BitsAscending() {
			for _, r := range e.Right.BitsAscending() {
				fmt.Fprintf(&b, "  t%d -- t%d [label=%q];\n", l, r, label)
			}
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func joinTypeLabel(jt hypergraph.JoinType) string {
	switch jt {
	case hypergraph.LeftJoin:
		return "[left] "
	case hypergraph.FullOuterJoin:
		return "[full] "
	case hypergraph.SemiJoin:
		return "[semi] "
	case hypergraph.AntiJoin:
		return "[anti] "
	case hypergraph.StraightInnerJoin:
		return "[straight] "
	case hypergraph.MultiInnerJoin:
		return "[multi] "
	default:
		return ""
	}
}
