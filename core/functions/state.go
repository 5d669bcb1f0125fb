package functions

import (
	"hash"

	"github.com/FocuswithJustin/sqlite-hashes/core/digest"
)

// State is the phase of an Accumulator. Phases only move forward:
// Empty -> NullOnly -> Accumulating, or Empty -> Accumulating.
type State int

const (
	// StateEmpty means nothing has been added.
	StateEmpty State = iota
	// StateNullOnly means only NULLs have been added and no digest exists.
	StateNullOnly
	// StateAccumulating means at least one value has been hashed.
	StateAccumulating
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateNullOnly:
		return "null-only"
	case StateAccumulating:
		return "accumulating"
	default:
		return "unknown"
	}
}

// Accumulator is the incremental hashing state for one scalar call or one
// aggregate group.
//
// A bare digest cannot tell "no input yet" from "only NULLs" from "hashed
// zero bytes"; the accumulator keeps those apart so results follow SQL's
// NULL rules. It is owned by exactly one call sequence and is not safe for
// concurrent use.
type Accumulator struct {
	alg   digest.Algorithm
	state State
	h     hash.Hash
}

// NewAccumulator returns an empty accumulator for alg.
func NewAccumulator(alg digest.Algorithm) *Accumulator {
	return &Accumulator{alg: alg}
}

// Algorithm returns the digest algorithm the accumulator hashes with.
func (a *Accumulator) Algorithm() digest.Algorithm {
	return a.alg
}

// State returns the current phase.
func (a *Accumulator) State() State {
	return a.state
}

// AddNull records a NULL input. Once values have been hashed it is a no-op.
func (a *Accumulator) AddNull() {
	if a.state == StateEmpty {
		a.state = StateNullOnly
	}
}

// AddValue extends the running digest with b, starting one if needed.
// An empty b still starts the digest: hashing zero bytes is a value.
func (a *Accumulator) AddValue(b []byte) {
	if a.state != StateAccumulating {
		a.h = a.alg.New()
		a.state = StateAccumulating
	}
	a.h.Write(b)
}

// Write implements io.Writer on top of AddValue, so a stream copied in
// chunks hashes the same as its concatenation.
func (a *Accumulator) Write(p []byte) (int, error) {
	a.AddValue(p)
	return len(p), nil
}

// Peek returns the digest of everything added so far without consuming the
// accumulator. ok is false unless at least one value was hashed.
func (a *Accumulator) Peek() (sum []byte, ok bool) {
	if a.state != StateAccumulating {
		return nil, false
	}
	return a.h.Sum(nil), true
}

// PeekHex is Peek rendered as uppercase hex. Unlike Peek, a NULL-only
// accumulator yields ("", true); only an empty one yields ok == false.
func (a *Accumulator) PeekHex() (sum string, ok bool) {
	switch a.state {
	case StateNullOnly:
		return "", true
	case StateAccumulating:
		return digest.EncodeHex(a.h.Sum(nil)), true
	default:
		return "", false
	}
}

// Finalize returns the same result as Peek and resets the accumulator to
// StateEmpty, dropping the digest state.
func (a *Accumulator) Finalize() (sum []byte, ok bool) {
	sum, ok = a.Peek()
	a.Reset()
	return sum, ok
}

// FinalizeHex returns the same result as PeekHex and resets the accumulator.
func (a *Accumulator) FinalizeHex() (sum string, ok bool) {
	sum, ok = a.PeekHex()
	a.Reset()
	return sum, ok
}

// Reset returns the accumulator to StateEmpty.
func (a *Accumulator) Reset() {
	a.state = StateEmpty
	a.h = nil
}
