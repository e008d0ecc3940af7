package driving

import (
	"context"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// IngestService accepts roster documents.
type IngestService interface {
	// Ingest extracts, validates and stores a document, then mirrors it
	// into the primary search engine in the background.
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.Document, error)
}
