package driving

import (
	"context"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// SearchService provides document search to external actors.
// The two entry points are mutually exclusive.
type SearchService interface {
	// FilterSearch lists documents by complex, zone or category.
	// At least one dimension is required and Q must be empty.
	FilterSearch(ctx context.Context, query domain.FilterQuery) (*domain.SearchResponse, error)

	// TextSearch runs a free-text query with optional filters.
	TextSearch(ctx context.Context, query domain.TextQuery) (*domain.SearchResponse, error)
}

// JudgeService finds judges across roster documents and structured records.
type JudgeService interface {
	SearchJudges(ctx context.Context, query domain.JudgeQuery) (*domain.JudgeResponse, error)
}
