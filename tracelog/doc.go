// Package tracelog provides the two diagnostic surfaces spec.md calls for:
//
//   - a leveled invariant/diagnostic logger (§7.3: "internal invariant
//     violations... must not silently produce wrong plans"), built on
//     github.com/charmbracelet/log the way
//     _examples/matzehuels-stacktower/internal/cli/log.go wires it up;
//   - a plain human-readable trace accumulator (§6 "Trace surface") that
//     collects the planner's narrative (input tree, pushdown result,
//     hypergraph/NFSM/DFSM in graphviz form, per-predicate selectivity,
//     simplification steps, the final access-path tree) into one string.
//
// DOT rendering of the hypergraph and FSM is ported from
// original_source/sql/join_optimizer/print_utils.cc, the only place the
// pack specifies a graph visualization format for this domain.
package tracelog
