//go:build cgo_sqlite

// CGO SQLite binding using mattn/go-sqlite3.
// This is used when the cgo_sqlite build tag is set.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
//
// The host adapter lives in contrib/sqlite-external to keep the CGO
// dependency out of the default build.
package sqlite

import (
	"database/sql"

	sqliteexternal "github.com/FocuswithJustin/sqlite-hashes/contrib/sqlite-external"
	"github.com/FocuswithJustin/sqlite-hashes/core/functions"
)

const (
	driverName      = sqliteexternal.DriverName
	driverType      = sqliteexternal.DriverType
	driverPackage   = sqliteexternal.DriverPackage + " (via contrib/sqlite-external)"
	supportsWindows = false
)

func openDB(dataSourceName string, reg *functions.Registry) (*sql.DB, error) {
	return sql.OpenDB(sqliteexternal.NewConnector(dataSourceName, reg)), nil
}
