// Package migrations holds the versioned schema of the SQLite store.
package migrations

import "embed"

// FS holds the numbered .up.sql and .down.sql files.
//
//go:embed *.sql
var FS embed.FS
