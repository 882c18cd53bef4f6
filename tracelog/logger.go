package tracelog

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger returns a leveled diagnostic logger writing to w, formatted the
// way _examples/matzehuels-stacktower/internal/cli/log.go configures
// charmbracelet/log for its own CLI diagnostics.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           level,
	})
}

// Default returns a logger writing to stderr at warn level, for reporting
// an internal invariant violation when no explicit logger is at hand. No
// package in this module calls Default or Invariant.
func Default() *log.Logger {
	return NewLogger(os.Stderr, log.WarnLevel)
}

// Invariant logs a release-build-survivable report of an internal
// invariant violation (spec.md §7 kind 3: "must not silently produce wrong
// plans"). Callers in debug/assert builds are expected to additionally
// panic; Invariant only guarantees the violation is never silent.
func Invariant(l *log.Logger, msg string, keyvals ...interface{}) {
	l.Error("invariant violation: "+msg, keyvals...)
}
