package domain

import "time"

// ProvenanceKind tells where an extracted judge record came from.
type ProvenanceKind string

const (
	// ProvenanceDocument marks records recovered from PDF text.
	ProvenanceDocument ProvenanceKind = "document"

	// ProvenanceRoster marks records taken from the structured roster.
	ProvenanceRoster ProvenanceKind = "roster"
)

// Provenance stamps an extracted record with its origin.
type Provenance struct {
	Kind       ProvenanceKind
	DocumentID string
	RosterID   string
	Complex    Complex
	Zone       Zone
	Title      string
	DocDate    *time.Time
	SourceURL  string
	BlobURL    string
}

// ExtractedJudgeRecord is a judge recovered on demand from document text or
// a roster record. It is a view and is never stored.
type ExtractedJudgeRecord struct {
	Name               string
	Designation        *string
	CourtName          *string
	CourtRoom          *string
	MeetingLink        *string
	VCMeetingIDOrEmail *string

	Provenance     Provenance
	RelevanceScore *float64
}

// JudgeQuery searches judges across documents and the structured roster.
type JudgeQuery struct {
	Q       string
	Complex Complex
	Zone    Zone
	Limit   int
}

// DefaultJudgeLimit caps merged judge results when no limit is given.
const DefaultJudgeLimit = 20

// JudgeResponse is the merged, ranked judge list.
type JudgeResponse struct {
	Engine Engine
	Judges []ExtractedJudgeRecord
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 {
	return &f
}

// Deref returns the string pointed to by p, or "" when p is nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
