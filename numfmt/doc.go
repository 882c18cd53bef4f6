// Package numfmt formats numbers the way the trace surface and
// EXPLAIN-style diagnostics want them: short, fixed-precision, switching to
// engineering notation once plain decimal would get unwieldy.
//
// Ported from original_source/sql/join_optimizer/print_utils.cc's
// FormatNumberReadably, which spec.md §8 pins down with exact test points
// but doesn't otherwise specify; no component of the retrieval pack does
// this kind of formatting, so the original is the sole grounding source.
package numfmt
