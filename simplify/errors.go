package simplify

import "errors"

var (
	// ErrNoViableStep is returned internally when the candidate queue is
	// exhausted before a requested step count is reached; Simplify folds
	// this into ErrLimitUnreachable for its caller.
	ErrNoViableStep = errors.New("simplify: no more simplification steps available")

	// ErrLimitUnreachable indicates every available simplification step was
	// applied and the estimated csg-cmp pair count is still above the
	// requested limit.
	ErrLimitUnreachable = errors.New("simplify: pair count limit not reachable by simplification")
)
