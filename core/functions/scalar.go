package functions

import (
	"github.com/FocuswithJustin/sqlite-hashes/core/digest"
	"github.com/FocuswithJustin/sqlite-hashes/core/errors"
	"github.com/FocuswithJustin/sqlite-hashes/internal/logging"
)

// acceptedTypes is reported in type errors.
var acceptedTypes = []string{"text", "blob", "NULL"}

// ScalarFunc implements ALG(arg...) and ALG_hex(arg...).
//
// Every argument is hashed in order as if concatenated; NULL arguments are
// skipped. The result is NULL when every argument is NULL, except for the
// hex variant which returns an empty string in that case.
type ScalarFunc struct {
	name string
	alg  digest.Algorithm
	hex  bool
}

// NewScalarFunc creates a scalar hashing function.
func NewScalarFunc(name string, alg digest.Algorithm, hexOutput bool) *ScalarFunc {
	return &ScalarFunc{
		name: name,
		alg:  alg,
		hex:  hexOutput,
	}
}

func (f *ScalarFunc) Name() string                { return f.name }
func (f *ScalarFunc) NumArgs() int                { return -1 }
func (f *ScalarFunc) Kind() Kind                  { return KindScalar }
func (f *ScalarFunc) Algorithm() digest.Algorithm { return f.alg }
func (f *ScalarFunc) HexOutput() bool             { return f.hex }
func (f *ScalarFunc) Deterministic() bool         { return true }

// Call hashes one invocation's arguments. Arguments are validated before
// anything is hashed, so an error never leaves a partial result behind.
func (f *ScalarFunc) Call(args []Value) (Value, error) {
	acc := NewAccumulator(f.alg)
	if err := feed(f.name, acc, args); err != nil {
		logging.FunctionError(f.name, "call", err)
		return nil, err
	}
	return finalValue(acc, f.hex), nil
}

// checkArgs enforces the arity and argument type contract of every hashing
// function call or aggregate step.
func checkArgs(name string, args []Value) error {
	if len(args) == 0 {
		return errors.NewArity(name, 0, 1)
	}
	for i, arg := range args {
		switch arg.Type() {
		case TypeText, TypeBlob, TypeNull:
		default:
			return errors.NewType(name, i, arg.Type().String(), acceptedTypes...)
		}
	}
	return nil
}

// feed validates args and then adds them to acc in positional order.
func feed(name string, acc *Accumulator, args []Value) error {
	if err := checkArgs(name, args); err != nil {
		return err
	}
	trace := logging.TraceEnabled()
	for i, arg := range args {
		if arg.IsNull() {
			acc.AddNull()
		} else {
			acc.AddValue(arg.AsBlob())
		}
		if trace {
			logging.FunctionTrace(name, "add", "arg", i, "type", arg.Type().String(), "bytes", arg.Bytes(), "state", acc.State().String())
		}
	}
	return nil
}

// finalValue consumes acc into a SQL result.
func finalValue(acc *Accumulator, hexOutput bool) Value {
	if hexOutput {
		if s, ok := acc.FinalizeHex(); ok {
			return NewTextValue(s)
		}
		return NewNullValue()
	}
	if b, ok := acc.Finalize(); ok {
		return NewBlobValue(b)
	}
	return NewNullValue()
}

// peekValue reads acc into a SQL result without consuming it.
func peekValue(acc *Accumulator, hexOutput bool) Value {
	if hexOutput {
		if s, ok := acc.PeekHex(); ok {
			return NewTextValue(s)
		}
		return NewNullValue()
	}
	if b, ok := acc.Peek(); ok {
		return NewBlobValue(b)
	}
	return NewNullValue()
}
