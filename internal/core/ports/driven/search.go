package driven

import (
	"context"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// PrimaryEngine is the external full-text search service.
// It is optional: when nil, every search runs on the document store.
type PrimaryEngine interface {
	// IndexDocument mirrors a stored document and returns its reference.
	IndexDocument(ctx context.Context, doc *domain.Document) (domain.SearchEngineRef, error)

	// Search runs a free-text query with optional term filters and
	// returns highlighted hits.
	Search(ctx context.Context, query domain.TextQuery, size int) (*EngineResult, error)

	// Filter runs a structural query with term filters only.
	Filter(ctx context.Context, filter domain.DocumentFilter, page domain.Pagination) (*EngineResult, error)

	// DeleteDocument removes a mirrored document.
	DeleteDocument(ctx context.Context, ref domain.SearchEngineRef) error

	// Ping checks reachability.
	Ping(ctx context.Context) error
}

// EngineResult is a raw primary engine answer, already mapped to
// domain hits at the adapter boundary.
type EngineResult struct {
	Hits  []domain.SearchHit
	Total int
}
