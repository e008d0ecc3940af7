package driven

import (
	"context"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// DocumentStore persists documents with their full text and pages.
// Backed by SQLite (FTS5) or MongoDB (text index) for native text search.
type DocumentStore interface {
	// Upsert inserts doc, or replaces the content fields of the document
	// sharing its unique key. ID, CreatedAt and SearchEngineRef of an
	// existing record are kept when doc leaves them unset. The hierarchy
	// is validated before anything is written.
	Upsert(ctx context.Context, doc *domain.Document) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Find lists documents matching filter, newest docDate first, then
	// most recently updated.
	Find(ctx context.Context, filter domain.DocumentFilter, page domain.Pagination) ([]domain.Document, error)

	// Count returns how many documents match filter, ignoring pagination.
	Count(ctx context.Context, filter domain.DocumentFilter) (int, error)

	// Summarize groups documents by (complex, zone, category).
	Summarize(ctx context.Context) ([]domain.GroupSummary, error)

	// TextSearch runs the native text index over title and full text.
	TextSearch(ctx context.Context, query string, filter domain.DocumentFilter, limit int) ([]TextMatch, error)

	// AttachSearchEngineRef records where the document was mirrored.
	AttachSearchEngineRef(ctx context.Context, id string, ref domain.SearchEngineRef) error

	// Delete removes a document.
	Delete(ctx context.Context, id string) error
}

// TextMatch is a native text index hit.
type TextMatch struct {
	// Document is the matched document.
	Document domain.Document

	// Score is the store's relevance score; higher is better.
	Score float64

	// Snippet is a bounded context window around the first query term.
	// Stores may leave it empty, in which case callers build one.
	Snippet string
}
