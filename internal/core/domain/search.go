package domain

import (
	"strings"
	"time"
)

// Engine identifies which backend answered a search.
type Engine string

const (
	// EnginePrimary is the external full-text search service.
	EnginePrimary Engine = "primary"

	// EngineFallback is the document store's native text index.
	EngineFallback Engine = "fallback"
)

// FilterQuery is a structural search with no free-text term.
type FilterQuery struct {
	Complex  Complex
	Zone     Zone
	Category Category

	// Q must be empty. It exists so callers that forward a raw request can
	// be rejected rather than silently ignored.
	Q string

	Pagination Pagination
}

// Filter returns the structural dimensions as a DocumentFilter.
func (q FilterQuery) Filter() DocumentFilter {
	return DocumentFilter{Complex: q.Complex, Zone: q.Zone, Category: q.Category}
}

// Validate enforces the filter-only contract.
func (q FilterQuery) Validate() error {
	if strings.TrimSpace(q.Q) != "" {
		return NewValidationError("q", "filter search does not accept a text query; use text search")
	}
	if q.Filter().IsEmpty() {
		return NewValidationError("filter", "at least one of complex, zone or category is required")
	}
	return validateFilterValues(q.Filter())
}

// TextQuery is a free-text search with optional structural filters.
type TextQuery struct {
	Q        string
	Complex  Complex
	Zone     Zone
	Category Category
	Size     int
}

// Filter returns the structural dimensions as a DocumentFilter.
func (q TextQuery) Filter() DocumentFilter {
	return DocumentFilter{Complex: q.Complex, Zone: q.Zone, Category: q.Category}
}

// Validate enforces the text search contract.
func (q TextQuery) Validate() error {
	if strings.TrimSpace(q.Q) == "" {
		return NewValidationError("q", "text query is required")
	}
	if q.Size < 0 {
		return NewValidationError("size", "must not be negative")
	}
	return validateFilterValues(q.Filter())
}

// Validate checks that every set dimension names a known value, that the
// complex services the zone, and that the date range is ordered.
func (f DocumentFilter) Validate() error {
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return NewValidationError("dateFrom", "must not be after dateTo")
	}
	return validateFilterValues(f)
}

func validateFilterValues(f DocumentFilter) error {
	if f.Complex != "" {
		if _, err := ParseComplex(string(f.Complex)); err != nil {
			return err
		}
	}
	if f.Zone != "" && !IsKnownZone(f.Zone) {
		return NewValidationError("zone", "unknown zone %q", f.Zone)
	}
	if f.Complex != "" && f.Zone != "" && !IsValidHierarchy(f.Complex, f.Zone) {
		return NewValidationError("zone", "zone %s is not serviced by complex %s", f.Zone, f.Complex)
	}
	if f.Category != "" && !IsKnownCategory(f.Category) {
		return NewValidationError("category", "unknown category %q", f.Category)
	}
	return nil
}

// SearchHit is a single document match, populated identically regardless
// of which engine answered.
type SearchHit struct {
	DocumentID string
	Complex    Complex
	Zone       Zone
	Category   Category
	Title      string
	DocDate    *time.Time
	SourceURL  string
	BlobURL    string

	// Score is the answering engine's native relevance score. Scores of the
	// primary and fallback engines are not comparable.
	Score *float64

	// Highlights holds engine highlights (primary) or a context window
	// around the first match (fallback).
	Highlights []string

	UpdatedAt time.Time
}

// SearchResponse is a ranked list from exactly one engine.
type SearchResponse struct {
	Engine Engine
	Hits   []SearchHit

	// Total is the number of matching documents before pagination for a
	// filter search. Text searches report at most the requested size on the
	// fallback engine, since the native text index is queried with a limit.
	Total int
}

// HitFromDocument builds a SearchHit from a stored document.
func HitFromDocument(doc *Document, score *float64, highlights []string) SearchHit {
	return SearchHit{
		DocumentID: doc.ID,
		Complex:    doc.Complex,
		Zone:       doc.Zone,
		Category:   doc.Category,
		Title:      doc.Title,
		DocDate:    doc.DocDate,
		SourceURL:  doc.SourceURL,
		BlobURL:    doc.BlobURL,
		Score:      score,
		Highlights: highlights,
		UpdatedAt:  doc.UpdatedAt,
	}
}

// SearchConfig tunes the search gateway.
type SearchConfig struct {
	// PrimaryTimeout bounds each primary engine attempt.
	PrimaryTimeout time.Duration

	// FallbackTimeout bounds each fallback attempt.
	FallbackTimeout time.Duration

	// UnhealthyCooldown is how long the primary engine is skipped after a
	// failure.
	UnhealthyCooldown time.Duration

	// DefaultSize and MaxSize bound text search result sizes.
	DefaultSize int
	MaxSize     int

	// SnippetRadius is the number of characters kept on each side of the
	// first match in fallback snippets.
	SnippetRadius int
}

// DefaultSearchConfig returns the stock gateway settings.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		PrimaryTimeout:    2 * time.Second,
		FallbackTimeout:   5 * time.Second,
		UnhealthyCooldown: 30 * time.Second,
		DefaultSize:       10,
		MaxSize:           100,
		SnippetRadius:     120,
	}
}
