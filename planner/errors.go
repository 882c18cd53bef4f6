package planner

import (
	"errors"
	"fmt"
)

// ErrNilQueryBlock indicates Plan was called with a query block missing its
// relational-expression tree.
var ErrNilQueryBlock = errors.New("planner: query block has no root relational expression")

// ErrFeatureNotSupported is the fatal-for-this-query, non-fatal-for-the-
// session error spec.md §6/§7 calls for: a caller should catch this with
// errors.Is and fall back to an older planner path.
var ErrFeatureNotSupported = errors.New("planner: hypergraph join optimizer does not support this query shape yet")

func featureError(feature string) error {
	return fmt.Errorf("%w: %s", ErrFeatureNotSupported, feature)
}
