package driven

import (
	"context"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// TextExtractor turns a document buffer into paged text.
// A buffer with no extractable text yields an empty result, not an error.
// A buffer that cannot be parsed yields a *domain.ParseError.
type TextExtractor interface {
	Extract(ctx context.Context, buf []byte) (*domain.ExtractedText, error)
}
