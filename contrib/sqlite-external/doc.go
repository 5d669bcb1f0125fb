// Package sqliteexternal provides the optional CGO host for the hashing
// functions.
//
// This package is part of the main github.com/FocuswithJustin/sqlite-hashes
// module. Everything in it is built only with the cgo_sqlite tag.
//
// # CGO SQLite Driver
//
// core/sqlite uses this package automatically when built with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite
//
// To install the functions on a connection you manage yourself:
//
//	reg := functions.DefaultRegistry()
//	db := sql.OpenDB(sqliteexternal.NewConnector("app.db", reg))
//
// # Limitations
//
// mattn/go-sqlite3 registers aggregates without window callbacks, so
// ALG_concat functions are guaranteed to work as plain aggregates only.
// The default pure Go build (modernc.org/sqlite) supports them as window
// functions over frames starting at UNBOUNDED PRECEDING.
package sqliteexternal
