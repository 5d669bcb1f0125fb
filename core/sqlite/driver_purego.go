//go:build !cgo_sqlite

package sqlite

import (
	"database/sql"
	"database/sql/driver"
	"sync"

	msqlite "modernc.org/sqlite"

	"github.com/FocuswithJustin/sqlite-hashes/core/functions"
	"github.com/FocuswithJustin/sqlite-hashes/internal/logging"
)

const (
	driverName      = "sqlite"
	driverType      = "purego"
	driverPackage   = "modernc.org/sqlite"
	supportsWindows = true
)

// modernc.org/sqlite keeps one function table for the whole driver and
// rejects a second registration of the same name. A function name fully
// determines its behaviour, so names already installed are skipped.
var (
	registeredMu sync.Mutex
	registered   = make(map[string]bool)
)

func openDB(dataSourceName string, reg *functions.Registry) (*sql.DB, error) {
	if err := reg.Install(moderncHost{}); err != nil {
		return nil, err
	}
	return sql.Open(driverName, dataSourceName)
}

// moderncHost installs functions into the modernc.org/sqlite driver.
type moderncHost struct{}

func (moderncHost) CreateScalarFunction(fn *functions.ScalarFunc) error {
	return registerOnce(fn.Name(), &msqlite.FunctionImpl{
		NArgs:         int32(fn.NumArgs()),
		Deterministic: fn.Deterministic(),
		Scalar: func(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			result, err := fn.Call(functions.ValuesOf(args))
			if err != nil {
				return nil, err
			}
			return functions.DriverValue(result), nil
		},
	})
}

func (moderncHost) CreateAggregateFunction(fn *functions.AggregateFunc) error {
	return registerOnce(fn.Name(), &msqlite.FunctionImpl{
		NArgs:         int32(fn.NumArgs()),
		Deterministic: fn.Deterministic(),
		MakeAggregate: func(msqlite.FunctionContext) (msqlite.AggregateFunction, error) {
			return &windowAdapter{w: fn.NewWindow()}, nil
		},
	})
}

func registerOnce(name string, impl *msqlite.FunctionImpl) error {
	registeredMu.Lock()
	defer registeredMu.Unlock()

	if registered[name] {
		return nil
	}
	if err := msqlite.RegisterFunction(name, impl); err != nil {
		return err
	}
	registered[name] = true
	return nil
}

// windowAdapter maps the modernc aggregate protocol onto *functions.Window.
// The same state serves plain aggregates (Step, WindowValue, Final) and
// window frames (Step, WindowValue per row, WindowInverse).
type windowAdapter struct {
	w *functions.Window
}

func (a *windowAdapter) Step(_ *msqlite.FunctionContext, rowArgs []driver.Value) error {
	return a.w.Step(functions.ValuesOf(rowArgs))
}

func (a *windowAdapter) WindowInverse(_ *msqlite.FunctionContext, rowArgs []driver.Value) error {
	return a.w.Inverse(functions.ValuesOf(rowArgs))
}

func (a *windowAdapter) WindowValue(_ *msqlite.FunctionContext) (driver.Value, error) {
	v, err := a.w.Value()
	if err != nil {
		return nil, err
	}
	return functions.DriverValue(v), nil
}

// Final releases the group. Its result has already been delivered by
// WindowValue, which does not consume the state.
func (a *windowAdapter) Final(_ *msqlite.FunctionContext) {
	if logging.TraceEnabled() {
		logging.FunctionTrace(a.w.Function().Name(), "release", "state", a.w.State().String())
	}
}
