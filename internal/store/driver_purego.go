//go:build !cgo_sqlite

// Pure Go SQLite driver via modernc.org/sqlite, the default build.
package store

import (
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"
