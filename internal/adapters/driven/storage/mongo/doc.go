// Package mongo provides a MongoDB-backed implementation of the document
// and roster stores.
//
// Documents live in the "documents" collection with:
//
//   - a weighted text index over title (5) and full_text (1)
//   - a unique compound index on (complex, zone, category, title, blob_url)
//     restricted by partialFilterExpression to documents that have a blob_url
//
// Upserts go through FindOneAndUpdate so each unique key is written
// atomically. A duplicate-key race between two inserts is retried once and
// resolves into an update.
//
// Roster records live in the "rosters" collection, unique on unique_key.
package mongo
