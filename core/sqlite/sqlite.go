// Package sqlite opens SQLite databases with the hashing functions of
// package functions installed, supporting both pure Go (modernc.org/sqlite)
// and CGO (mattn/go-sqlite3) implementations.
//
// Build modes:
//   - Default (CGO_ENABLED=0): Uses pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): Uses mattn/go-sqlite3 via contrib/sqlite-external
//
// Use Open() instead of sql.Open(): only databases opened through this
// package are guaranteed to have the functions installed.
//
// modernc.org/sqlite registers functions for the whole driver, so after the
// first Open every later connection of the "sqlite" driver in the process
// sees the installed functions too. mattn/go-sqlite3 installs them per
// connection through a dedicated connector.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/sqlite-hashes/core/errors"
	"github.com/FocuswithJustin/sqlite-hashes/core/functions"
	"github.com/FocuswithJustin/sqlite-hashes/internal/logging"
)

// DriverName returns the database/sql driver name of the active engine.
func DriverName() string {
	return driverName
}

// DriverType returns a string identifying the underlying implementation.
// Returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// SupportsWindows reports whether ALG_concat functions can be used with
// OVER (...). mattn/go-sqlite3 has no window function protocol.
func SupportsWindows() bool {
	return supportsWindows
}

// Open opens a SQLite database with the hashing functions selected by opts.
func Open(dataSourceName string, opts functions.Options) (*sql.DB, error) {
	reg, err := functions.NewRegistry(opts)
	if err != nil {
		return nil, err
	}
	return OpenWithRegistry(dataSourceName, reg)
}

// OpenWithRegistry opens a SQLite database with every function of reg.
func OpenWithRegistry(dataSourceName string, reg *functions.Registry) (*sql.DB, error) {
	db, err := openDB(dataSourceName, reg)
	if err != nil {
		return nil, errors.NewIO("open", dataSourceName, err)
	}
	if isMemory(dataSourceName) {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	logging.Debug("database_opened",
		"driver", driverType,
		"dsn", dataSourceName,
		"functions", reg.Len(),
	)
	return db, nil
}

func isMemory(dataSourceName string) bool {
	return dataSourceName == "" ||
		strings.HasPrefix(dataSourceName, ":memory:") ||
		strings.HasPrefix(dataSourceName, "file::memory:") ||
		strings.Contains(dataSourceName, "mode=memory")
}

// OpenReadOnly opens a SQLite database file in read-only mode.
func OpenReadOnly(path string, opts functions.Options) (*sql.DB, error) {
	return Open("file:"+path+"?mode=ro", opts)
}

// MustOpen opens a SQLite database and panics on error.
// This is intended for use in tests or initialization code where
// database access failure is unrecoverable.
func MustOpen(dataSourceName string, opts functions.Options) *sql.DB {
	db, err := Open(dataSourceName, opts)
	if err != nil {
		panic(fmt.Sprintf("sqlite: failed to open %s: %v", dataSourceName, err))
	}
	return db
}

// Info contains information about the SQLite driver configuration.
type Info struct {
	DriverName      string `json:"driver_name"`
	DriverType      string `json:"driver_type"`
	IsCGO           bool   `json:"is_cgo"`
	Package         string `json:"package"`
	SupportsWindows bool   `json:"supports_windows"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName:      driverName,
		DriverType:      driverType,
		IsCGO:           IsCGO(),
		Package:         driverPackage,
		SupportsWindows: supportsWindows,
	}
}
