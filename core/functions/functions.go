package functions

import (
	"sort"
	"strings"

	"github.com/FocuswithJustin/sqlite-hashes/core/digest"
	"github.com/FocuswithJustin/sqlite-hashes/core/errors"
	"github.com/FocuswithJustin/sqlite-hashes/internal/logging"
)

// Kind distinguishes scalar from aggregate functions.
type Kind int

const (
	KindScalar Kind = iota
	KindAggregate
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// Function is the interface for all hashing SQL functions.
type Function interface {
	// Name returns the SQL function name
	Name() string

	// NumArgs returns the number of arguments (-1 for variadic)
	NumArgs() int

	// Kind reports whether the function is scalar or aggregate
	Kind() Kind

	// Algorithm returns the digest algorithm
	Algorithm() digest.Algorithm

	// HexOutput reports whether results are uppercase hex text instead of blobs
	HexOutput() bool

	// Deterministic reports whether equal inputs always give equal results
	Deterministic() bool
}

var (
	_ Function = (*ScalarFunc)(nil)
	_ Function = (*AggregateFunc)(nil)
)

// Host is the extensible-function surface of one SQL engine connection.
// Implementations register the function under fn.Name() as deterministic
// and variadic.
type Host interface {
	CreateScalarFunction(fn *ScalarFunc) error
	CreateAggregateFunction(fn *AggregateFunc) error
}

// Options selects which functions a registry provides.
//
// Options narrow a registry, not a database. Hosts with a process-wide
// function table (modernc.org/sqlite) keep every function installed by an
// earlier Open, so a later Open with fewer algorithms or Hex off still sees
// the earlier functions. Per-connection hosts (the cgo_sqlite build) install
// exactly the selected set.
type Options struct {
	// Algorithms lists digest names; empty means every known algorithm.
	Algorithms []string
	// Hex adds the ALG_hex and ALG_concat_hex variants.
	Hex bool
	// Aggregate adds the ALG_concat (and ALG_concat_hex) aggregates.
	Aggregate bool
}

// DefaultOptions enables every algorithm with hex and aggregate variants.
func DefaultOptions() Options {
	return Options{Hex: true, Aggregate: true}
}

// Function name suffixes.
const (
	SuffixHex       = "_hex"
	SuffixConcat    = "_concat"
	SuffixConcatHex = "_concat_hex"
)

// Registry holds all registered functions.
type Registry struct {
	functions map[string]Function
}

// NewEmptyRegistry creates an empty function registry.
func NewEmptyRegistry() *Registry {
	return &Registry{
		functions: make(map[string]Function),
	}
}

// NewRegistry creates a registry with the hashing functions selected by
// opts. Unknown algorithm names fail with *errors.NotFoundError.
func NewRegistry(opts Options) (*Registry, error) {
	algs, err := digest.Select(opts.Algorithms)
	if err != nil {
		return nil, err
	}
	r := NewEmptyRegistry()
	for _, alg := range algs {
		RegisterHashFunctions(r, alg, opts)
	}
	return r, nil
}

// DefaultRegistry returns a registry with every hashing function.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return r
}

// RegisterHashFunctions registers the function family of one algorithm:
// ALG, ALG_hex, ALG_concat and ALG_concat_hex, as enabled by opts.
func RegisterHashFunctions(r *Registry, alg digest.Algorithm, opts Options) {
	r.Register(NewScalarFunc(alg.Name, alg, false))
	if opts.Hex {
		r.Register(NewScalarFunc(alg.Name+SuffixHex, alg, true))
	}
	if opts.Aggregate {
		r.Register(NewAggregateFunc(alg.Name+SuffixConcat, alg, false))
		if opts.Hex {
			r.Register(NewAggregateFunc(alg.Name+SuffixConcatHex, alg, true))
		}
	}
}

// Register registers a function, replacing any function of the same name.
func (r *Registry) Register(fn Function) {
	r.functions[strings.ToLower(fn.Name())] = fn
}

// Lookup finds a function by name. SQL function names are case-insensitive.
func (r *Registry) Lookup(name string) (Function, bool) {
	fn, ok := r.functions[strings.ToLower(name)]
	return fn, ok
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.functions)
}

// Functions returns all registered functions sorted by name.
func (r *Registry) Functions() []Function {
	result := make([]Function, 0, len(r.functions))
	for _, fn := range r.functions {
		result = append(result, fn)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Install registers every function with host, in name order. It stops at
// the first failure.
func (r *Registry) Install(host Host) error {
	for _, fn := range r.Functions() {
		var err error
		switch f := fn.(type) {
		case *ScalarFunc:
			err = host.CreateScalarFunction(f)
		case *AggregateFunc:
			err = host.CreateAggregateFunction(f)
		default:
			err = errors.NewUnsupported("function type", fn.Kind().String())
		}
		if err != nil {
			return errors.Wrapf(err, "failed to register %s", fn.Name())
		}
		logging.FunctionRegistered(fn.Name(), fn.Kind().String(), fn.Algorithm().Name)
	}
	return nil
}
