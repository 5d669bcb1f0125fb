package functions

import (
	"github.com/FocuswithJustin/sqlite-hashes/core/digest"
	"github.com/FocuswithJustin/sqlite-hashes/internal/logging"
)

// AggregateFunc implements ALG_concat(arg...) and ALG_concat_hex(arg...).
//
// All arguments of all rows in a group are hashed as one concatenated byte
// stream in the order the engine steps them. SQL does not order rows inside
// a group, so callers that need a reproducible digest must fix the order
// themselves, e.g. by aggregating over an ordered subquery or using the
// function as a window with ORDER BY.
type AggregateFunc struct {
	name string
	alg  digest.Algorithm
	hex  bool
}

// NewAggregateFunc creates an aggregate hashing function.
func NewAggregateFunc(name string, alg digest.Algorithm, hexOutput bool) *AggregateFunc {
	return &AggregateFunc{
		name: name,
		alg:  alg,
		hex:  hexOutput,
	}
}

func (f *AggregateFunc) Name() string                { return f.name }
func (f *AggregateFunc) NumArgs() int                { return -1 }
func (f *AggregateFunc) Kind() Kind                  { return KindAggregate }
func (f *AggregateFunc) Algorithm() digest.Algorithm { return f.alg }
func (f *AggregateFunc) HexOutput() bool             { return f.hex }
func (f *AggregateFunc) Deterministic() bool         { return true }

// NewAggregate starts the state for one group.
func (f *AggregateFunc) NewAggregate() *Aggregate {
	if logging.TraceEnabled() {
		logging.FunctionTrace(f.name, "init")
	}
	return &Aggregate{
		fn:  f,
		acc: NewAccumulator(f.alg),
	}
}

// NewWindow starts the state for one window partition.
func (f *AggregateFunc) NewWindow() *Window {
	return &Window{Aggregate: f.NewAggregate()}
}

// Aggregate is the per-group state of an AggregateFunc.
//
// The first failing Step aborts the group: every later Step or Final
// returns that same error, so no result is ever produced for it.
type Aggregate struct {
	fn  *AggregateFunc
	acc *Accumulator
	err error
}

// Step adds one row's arguments.
func (a *Aggregate) Step(args []Value) error {
	if a.err != nil {
		return a.err
	}
	if err := feed(a.fn.name, a.acc, args); err != nil {
		a.err = err
		logging.FunctionError(a.fn.name, "step", err)
		return err
	}
	return nil
}

// Final consumes the group state and returns the group's result:
// NULL for a group with no rows or only NULLs (an empty string for the hex
// variant when NULLs were seen), otherwise the digest.
func (a *Aggregate) Final() (Value, error) {
	if a.err != nil {
		return nil, a.err
	}
	if logging.TraceEnabled() {
		logging.FunctionTrace(a.fn.name, "final", "state", a.acc.State().String())
	}
	return finalValue(a.acc, a.fn.hex), nil
}

// Function returns the aggregate function the group belongs to.
func (a *Aggregate) Function() *AggregateFunc {
	return a.fn
}

// State returns the phase of the group's accumulator.
func (a *Aggregate) State() State {
	return a.acc.State()
}

// Err returns the error that aborted the group, if any.
func (a *Aggregate) Err() error {
	return a.err
}
