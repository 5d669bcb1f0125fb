package functions

import (
	"strings"

	"github.com/FocuswithJustin/sqlite-hashes/core/errors"
	"github.com/FocuswithJustin/sqlite-hashes/internal/logging"
)

// Window is the per-partition state of an AggregateFunc used as a window
// function.
//
// A running digest can grow but cannot forget input, so only frames whose
// lower bound stays put (UNBOUNDED PRECEDING) can be served. Inverse, which
// the engine calls when a row leaves the frame, always fails.
type Window struct {
	*Aggregate
}

// Value returns the digest of the rows stepped so far without consuming
// the state.
func (w *Window) Value() (Value, error) {
	if w.err != nil {
		return nil, w.err
	}
	if logging.TraceEnabled() {
		logging.FunctionTrace(w.fn.name, "value", "state", w.acc.State().String())
	}
	return peekValue(w.acc, w.fn.hex), nil
}

// Inverse always returns an *errors.UnsupportedError and leaves the state
// untouched.
func (w *Window) Inverse(args []Value) error {
	err := errors.NewUnsupported("moving window",
		strings.ToUpper(w.fn.name)+"() requires a fixed lower window bound (ROWS/RANGE BETWEEN UNBOUNDED PRECEDING AND ...)")
	logging.FunctionError(w.fn.name, "inverse", err)
	return err
}
