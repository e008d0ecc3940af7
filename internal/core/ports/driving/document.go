package driving

import (
	"context"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// DocumentService exposes stored documents.
type DocumentService interface {
	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns documents matching filter, newest first.
	List(ctx context.Context, filter domain.DocumentFilter, page domain.Pagination) ([]domain.Document, error)

	// Pages returns the per-page text of a document.
	Pages(ctx context.Context, documentID string) ([]domain.Page, error)

	// Summary returns per (complex, zone, category) counts and latest dates.
	Summary(ctx context.Context) ([]domain.GroupSummary, error)

	// Delete removes a document.
	Delete(ctx context.Context, documentID string) error
}
