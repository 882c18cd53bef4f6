package orderset

import (
	"fmt"
	"strings"
)

// DotNFSM renders the built NFSM in Graphviz DOT form: one node per state
// (labeled with its ordering), one edge per transition (labeled with the
// FD, decay, or constructor that produced it). Used by package tracelog to
// satisfy spec.md §6's "NFSM/DFSM in graphviz form" trace bullet; kept here
// rather than in tracelog because nfsmState/nfsmEdge are package-private.
//
// Ported in spirit from original_source/sql/join_optimizer/print_utils.cc's
// graph-label conventions, not any specific function (the original renders
// its NFSM inline in interesting_orders.cc rather than via print_utils).
func (f *FSM) DotNFSM() string {
	var b strings.Builder
	b.WriteString("digraph nfsm {\n")
	for i, st := range f.n.states {
		label := formatOrdering(st.ordering)
		shape := "ellipse"
		if st.interesting {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "  n%d [label=%q shape=%s];\n", i, label, shape)
		for _, e := range st.edges {
			fmt.Fprintf(&b, "  n%d -> n%d [label=%q];\n", i, e.to, dotEdgeLabel(f.n, e))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func dotEdgeLabel(n *nfsm, e nfsmEdge) string {
	switch e.kind {
	case edgeConstructor:
		return fmt.Sprintf("set(%d)", e.fdIdx)
	case edgeDecay:
		return "decay"
	default:
		return fmt.Sprintf("fd(%d)", e.fdIdx)
	}
}

func formatOrdering(o Ordering) string {
	if o.Kind == Empty || len(o.Elements) == 0 {
		return "()"
	}
	var parts []string
	for _, e := range o.Elements {
		dir := ""
		if o.Kind != GroupBy && e.Direction == Descending {
			dir = "↓"
		}
		parts = append(parts, fmt.Sprintf("%d%s", e.Item, dir))
	}
	kind := "order"
	switch o.Kind {
	case Rollup:
		kind = "rollup"
	case GroupBy:
		kind = "group"
	}
	return fmt.Sprintf("%s(%s)", kind, strings.Join(parts, ","))
}
