package planner

import (
	"errors"
	"math"

	"github.com/joinlab/hyperjoin/costing"
	"github.com/joinlab/hyperjoin/dphyp"
	"github.com/joinlab/hyperjoin/hgbuild"
	"github.com/joinlab/hyperjoin/hypergraph"
	"github.com/joinlab/hyperjoin/simplify"
)

// Plan builds a hypergraph for qb, simplifies it if needed, runs DPhyp
// through a costing receiver, and returns the root AccessPath with
// post-join operators attached (spec.md §2 control flow).
//
// Returns a wrapped ErrFeatureNotSupported for query shapes this core
// deliberately rejects (spec.md §6 "Error surface").
func Plan(qb QueryBlock, opts ...Option) (*costing.AccessPath, error) {
	if qb.Root == nil {
		return nil, ErrNilQueryBlock
	}
	if err := checkFeatures(qb.Flags); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	built, err := hgbuild.Build(qb.Root, qb.Where, qb.Estimator)
	if err != nil {
		return nil, err
	}

	if cfg.trace != nil {
		cfg.trace.Section("hypergraph")
		cfg.trace.Hypergraph(built.Graph)
	}

	if err := ensureUnderPairLimit(built.Graph, cfg); err != nil && !errors.Is(err, simplify.ErrLimitUnreachable) {
		return nil, err
	}

	receiver := runEnumeration(built, qb.Stats, cfg)
	if receiver.Overflowed {
		receiver = retryAfterOverflow(built, qb.Stats, cfg)
	}

	root := receiver.Root()
	root = attachPostJoin(root, qb.PostJoin, cfg.model)

	if cfg.trace != nil {
		cfg.trace.Section("final plan")
		cfg.trace.Printf("root covers %d table(s), cost=%.2f, rows=%.0f", root.Tables.Popcount(), root.Cost, root.NumOutputRows)
	}

	return root, nil
}

// ensureUnderPairLimit simplifies graph in place if its estimated DPhyp
// pair count exceeds cfg.pairLimit. A returned ErrLimitUnreachable is not
// fatal: spec.md §7.2 says to proceed anyway, accepting wall-time cost.
func ensureUnderPairLimit(graph *hypergraph.Hypergraph, cfg config) error {
	recv := dphyp.NewCountingReceiver(cfg.pairLimit)
	dphyp.Enumerate(graph, recv)
	if recv.Pairs <= cfg.pairLimit {
		return nil
	}

	if cfg.trace != nil {
		cfg.trace.Printf("estimated pair count %d exceeds limit %d, simplifying", recv.Pairs, cfg.pairLimit)
	}
	steps, err := simplify.Simplify(graph, cfg.pairLimit, cfg.model, cfg.trace)
	if cfg.trace != nil {
		cfg.trace.Printf("simplification applied %d step(s)", steps)
	}
	return err
}

func runEnumeration(built hgbuild.Result, stats costing.StatsSource, cfg config) *costing.Receiver {
	receiver := costing.NewReceiver(built.Graph, built.Predicates, stats, cfg.model, cfg.fsm, cfg.trace)
	dphyp.Enumerate(built.Graph, receiver)
	return receiver
}

// retryAfterOverflow implements spec.md §7.2's resource-exhaustion recovery:
// simplify further with half the previous target, then retry enumeration.
// If the graph is still too complex to finish under the access-path limit,
// the final fallback is to re-run enumeration to completion with that limit
// effectively removed — emitting a "too complex" trace note and accepting
// wall-time cost, rather than ever failing to produce a plan.
func retryAfterOverflow(built hgbuild.Result, stats costing.StatsSource, cfg config) *costing.Receiver {
	if cfg.trace != nil {
		cfg.trace.Printf("access-path map overflowed, re-simplifying with a smaller target")
	}

	smaller := cfg.pairLimit / 2
	if smaller < 1 {
		smaller = 1
	}
	_, err := simplify.Simplify(built.Graph, smaller, cfg.model, cfg.trace)
	if err != nil && cfg.trace != nil {
		cfg.trace.Printf("plan too complex to simplify further")
	}

	receiver := runEnumeration(built, stats, cfg)
	if !receiver.Overflowed {
		return receiver
	}

	if cfg.trace != nil {
		cfg.trace.Printf("plan still too complex after re-simplification; running to completion without the access-path limit")
	}
	unbounded := cfg.model
	unbounded.AccessPathLimit = math.MaxInt32
	return runEnumeration(built, stats, config{model: unbounded, fsm: cfg.fsm, trace: cfg.trace})
}
