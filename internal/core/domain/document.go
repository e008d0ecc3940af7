package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxPageTextLength caps the stored text of a single page.
	MaxPageTextLength = 10_000

	// MaxFullTextLength caps the concatenated full text of a document.
	MaxFullTextLength = 2_000_000
)

// Document is an ingested roster PDF with its extracted text.
// It is created on a successful parse and validate, and only ever replaced
// wholesale by a re-upload or amended with a SearchEngineRef.
type Document struct {
	// ID is the unique identifier, assigned at creation and never changed.
	ID string

	Complex  Complex
	Zone     Zone
	Category Category

	// Title is an optional human label.
	Title string

	// DocDate is the date printed on the source document, if known.
	// Newer documents win when listing.
	DocDate *time.Time

	// SourceURL, BlobURL and BlobKey point at the original artifact.
	SourceURL string
	BlobURL   string
	BlobKey   string

	// FullText is the concatenation of every page's text.
	FullText string

	// Pages holds per-page text in order, numbered from 1.
	Pages []Page

	// SearchEngineRef is set once the document was mirrored into the
	// primary search engine.
	SearchEngineRef *SearchEngineRef

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Page is the text of a single PDF page.
type Page struct {
	PageNumber int
	Text       string
}

// SearchEngineRef locates a mirrored document in the primary search engine.
type SearchEngineRef struct {
	IndexName  string
	ExternalID string
}

// UniqueKey is the identity used for idempotent re-ingestion.
// It returns false when the document has no BlobURL, in which case no
// uniqueness is enforced.
func (d *Document) UniqueKey() (string, bool) {
	if d.BlobURL == "" {
		return "", false
	}
	return strings.Join([]string{
		string(d.Complex), string(d.Zone), string(d.Category), d.Title, d.BlobURL,
	}, "\x1f"), true
}

// ExtractedText is the output of a text extractor.
type ExtractedText struct {
	FullText string
	Pages    []Page
}

// Empty reports whether no text was recovered.
func (t *ExtractedText) Empty() bool {
	return t == nil || strings.TrimSpace(t.FullText) == ""
}

// TruncateRunes cuts s to at most n runes without splitting a code point.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// DocumentFilter narrows listings and searches. Zero values mean "any".
type DocumentFilter struct {
	Complex  Complex
	Zone     Zone
	Category Category
	DateFrom *time.Time
	DateTo   *time.Time
}

// IsEmpty reports whether no structural dimension is set.
// Date bounds alone do not count as a structural filter.
func (f DocumentFilter) IsEmpty() bool {
	return f.Complex == "" && f.Zone == "" && f.Category == ""
}

// Matches reports whether doc satisfies every set dimension.
func (f DocumentFilter) Matches(doc *Document) bool {
	if f.Complex != "" && doc.Complex != f.Complex {
		return false
	}
	if f.Zone != "" && doc.Zone != f.Zone {
		return false
	}
	if f.Category != "" && doc.Category != f.Category {
		return false
	}
	if f.DateFrom != nil && (doc.DocDate == nil || doc.DocDate.Before(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && (doc.DocDate == nil || doc.DocDate.After(*f.DateTo)) {
		return false
	}
	return true
}

// Pagination is a skip/limit window.
type Pagination struct {
	Skip  int
	Limit int
}

// DefaultListLimit is used when a listing does not specify a limit.
const DefaultListLimit = 50

// Normalised returns p with defaults applied.
func (p Pagination) Normalised() Pagination {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	return p
}

// GroupSummary aggregates the documents of one (complex, zone, category)
// group. Clients use it to tell whether anything newer has arrived.
type GroupSummary struct {
	Complex         Complex
	Zone            Zone
	Category        Category
	Count           int
	LatestDocDate   *time.Time
	LatestUpdatedAt time.Time
}

// NewerFirst reports whether a sorts before b in listings: later DocDate
// first with undated documents last, then most recently updated.
func NewerFirst(a, b *Document) bool {
	switch {
	case a.DocDate != nil && b.DocDate == nil:
		return true
	case a.DocDate == nil && b.DocDate != nil:
		return false
	case a.DocDate != nil && b.DocDate != nil && !a.DocDate.Equal(*b.DocDate):
		return a.DocDate.After(*b.DocDate)
	default:
		return a.UpdatedAt.After(b.UpdatedAt)
	}
}
