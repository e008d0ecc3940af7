// Package sqlite provides a SQLite-backed implementation of the document
// and roster stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements both store interfaces
// through a single database connection:
//
//   - DocumentStore: Roster documents with an FTS5 index over title and text
//   - RosterStore: Structured roster records
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// Documents are unique on (complex, zone, category, title, blob_url) through a
// partial index that only covers rows with a blob URL, so re-uploading the same
// artifact updates the existing row.
//
// # Text Search
//
// documents_fts is an external-content FTS5 table kept in step with documents
// by triggers. Queries AND every term and rank with bm25, weighting title
// matches five times higher than body matches.
//
// # Data Location
//
// By default, the database is stored at ~/.lexroster/data/lexroster.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
