//go:build cgo_sqlite

// Package sqliteexternal installs hashing functions into mattn/go-sqlite3
// connections. This is an optional CGO dependency.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package sqliteexternal

import (
	"context"
	"database/sql/driver"

	"github.com/mattn/go-sqlite3"

	"github.com/FocuswithJustin/sqlite-hashes/core/functions"
)

const (
	// DriverName is the SQL driver name registered by mattn/go-sqlite3.
	DriverName = "sqlite3"

	// DriverType identifies this as the CGO implementation.
	DriverType = "cgo"

	// DriverPackage is the import path of the underlying driver.
	DriverPackage = "github.com/mattn/go-sqlite3"
)

// Host adapts one mattn/go-sqlite3 connection to functions.Host.
type Host struct {
	conn *sqlite3.SQLiteConn
}

var _ functions.Host = (*Host)(nil)

// NewHost returns a Host for conn, typically inside a ConnectHook.
func NewHost(conn *sqlite3.SQLiteConn) *Host {
	return &Host{conn: conn}
}

// CreateScalarFunction registers fn as a variadic pure function.
func (h *Host) CreateScalarFunction(fn *functions.ScalarFunc) error {
	return h.conn.RegisterFunc(fn.Name(), func(args ...interface{}) (interface{}, error) {
		result, err := fn.Call(valuesOf(args))
		if err != nil {
			return nil, err
		}
		return functions.DriverValue(result), nil
	}, fn.Deterministic())
}

// CreateAggregateFunction registers fn as a variadic pure aggregate.
// mattn/go-sqlite3 has no inverse callback, so fn cannot serve moving
// window frames on this host.
func (h *Host) CreateAggregateFunction(fn *functions.AggregateFunc) error {
	return h.conn.RegisterAggregator(fn.Name(), func() *aggregator {
		return &aggregator{agg: fn.NewAggregate()}
	}, fn.Deterministic())
}

// aggregator is the per-group value mattn/go-sqlite3 steps by reflection.
type aggregator struct {
	agg *functions.Aggregate
}

func (a *aggregator) Step(args ...interface{}) error {
	return a.agg.Step(valuesOf(args))
}

func (a *aggregator) Done() (interface{}, error) {
	result, err := a.agg.Final()
	if err != nil {
		return nil, err
	}
	return functions.DriverValue(result), nil
}

// valuesOf decodes callback arguments. mattn/go-sqlite3 hands NULL to
// interface{} parameters as a nil []byte, while an empty blob arrives as
// a non-nil empty slice.
func valuesOf(args []interface{}) []functions.Value {
	out := make([]functions.Value, len(args))
	for i, arg := range args {
		if b, ok := arg.([]byte); ok && b == nil {
			out[i] = functions.NewNullValue()
			continue
		}
		out[i] = functions.ValueOf(arg)
	}
	return out
}

// Installer installs a set of functions on a host; *functions.Registry
// satisfies it.
type Installer interface {
	Install(host functions.Host) error
}

// Connector opens mattn/go-sqlite3 connections with functions installed
// on each one. Use it with sql.OpenDB.
type Connector struct {
	dsn    string
	driver *sqlite3.SQLiteDriver
}

var _ driver.Connector = (*Connector)(nil)

// NewConnector returns a connector for dsn whose connections carry every
// function of inst.
func NewConnector(dsn string, inst Installer) *Connector {
	return &Connector{
		dsn: dsn,
		driver: &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return inst.Install(NewHost(conn))
			},
		},
	}
}

// Connect opens a new connection and installs the functions on it.
func (c *Connector) Connect(_ context.Context) (driver.Conn, error) {
	return c.driver.Open(c.dsn)
}

// Driver returns the underlying mattn/go-sqlite3 driver.
func (c *Connector) Driver() driver.Driver {
	return c.driver
}
