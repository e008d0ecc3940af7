package extraction

import (
	"strings"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// Engine recovers judge records from text. It is safe for concurrent use.
type Engine struct {
	rules []Rule
}

// New creates an engine with DefaultRules.
func New() *Engine {
	return NewWithRules(DefaultRules())
}

// NewWithRules creates an engine with exactly the given rules.
func NewWithRules(rules []Rule) *Engine {
	return &Engine{rules: sortRules(rules)}
}

// WithRules returns a new engine with extra rules added to the current set.
func (e *Engine) WithRules(rules ...Rule) *Engine {
	all := make([]Rule, 0, len(e.rules)+len(rules))
	all = append(all, e.rules...)
	all = append(all, rules...)
	return NewWithRules(all)
}

// Rules returns the rules in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Fields runs the first-match-wins reducer over one section.
func (e *Engine) Fields(section string) map[Field]string {
	found := make(map[Field]string, 6)
	for _, rule := range e.rules {
		if _, ok := found[rule.Field]; ok {
			continue
		}
		if value, ok := rule.match(section); ok {
			found[rule.Field] = value
		}
	}
	return found
}

// ExtractSection builds a record from one section. It reports false when
// no name was found.
func (e *Engine) ExtractSection(section string) (domain.ExtractedJudgeRecord, bool) {
	fields := e.Fields(section)
	name := fields[FieldName]
	if name == "" {
		return domain.ExtractedJudgeRecord{}, false
	}
	return domain.ExtractedJudgeRecord{
		Name:               name,
		Designation:        domain.StringPtr(fields[FieldDesignation]),
		CourtName:          domain.StringPtr(fields[FieldCourtName]),
		CourtRoom:          domain.StringPtr(fields[FieldCourtRoom]),
		MeetingLink:        domain.StringPtr(fields[FieldMeetingLink]),
		VCMeetingIDOrEmail: domain.StringPtr(fields[FieldMeetingID]),
	}, true
}

// Extract parses a whole document, segmenting on entry boundaries.
func (e *Engine) Extract(text string) []domain.ExtractedJudgeRecord {
	return e.extractAll(SplitEntries(text))
}

// ExtractSnippets parses highlighted fragments, segmenting each on entry
// boundaries like a whole document.
func (e *Engine) ExtractSnippets(snippets []string) []domain.ExtractedJudgeRecord {
	var sections []string
	for _, s := range snippets {
		sections = append(sections, SplitEntries(stripHighlightTags(s))...)
	}
	return e.extractAll(sections)
}

func (e *Engine) extractAll(sections []string) []domain.ExtractedJudgeRecord {
	records := make([]domain.ExtractedJudgeRecord, 0, len(sections))
	for _, section := range sections {
		if rec, ok := e.ExtractSection(section); ok {
			records = append(records, rec)
		}
	}
	return records
}

// ExtractFromDocument parses a stored document's full text and stamps each
// record with the document's provenance.
func (e *Engine) ExtractFromDocument(doc *domain.Document) []domain.ExtractedJudgeRecord {
	if doc == nil {
		return nil
	}
	records := e.Extract(doc.FullText)
	Enrich(records, DocumentProvenance(doc), nil)
	return records
}

// ExtractFromHit parses a search hit's highlights and stamps each record
// with the hit's provenance and relevance score.
func (e *Engine) ExtractFromHit(hit domain.SearchHit) []domain.ExtractedJudgeRecord {
	records := e.ExtractSnippets(hit.Highlights)
	Enrich(records, HitProvenance(hit), hit.Score)
	return records
}

// Enrich stamps provenance and score onto every record.
func Enrich(records []domain.ExtractedJudgeRecord, prov domain.Provenance, score *float64) {
	for i := range records {
		records[i].Provenance = prov
		if score != nil {
			records[i].RelevanceScore = domain.Float64Ptr(*score)
		}
	}
}

// DocumentProvenance describes doc as a record origin.
func DocumentProvenance(doc *domain.Document) domain.Provenance {
	return domain.Provenance{
		Kind:       domain.ProvenanceDocument,
		DocumentID: doc.ID,
		Complex:    doc.Complex,
		Zone:       doc.Zone,
		Title:      doc.Title,
		DocDate:    doc.DocDate,
		SourceURL:  doc.SourceURL,
		BlobURL:    doc.BlobURL,
	}
}

// HitProvenance describes a search hit as a record origin.
func HitProvenance(hit domain.SearchHit) domain.Provenance {
	return domain.Provenance{
		Kind:       domain.ProvenanceDocument,
		DocumentID: hit.DocumentID,
		Complex:    hit.Complex,
		Zone:       hit.Zone,
		Title:      hit.Title,
		DocDate:    hit.DocDate,
		SourceURL:  hit.SourceURL,
		BlobURL:    hit.BlobURL,
	}
}

// MatchesQuery reports whether q occurs in the record's name, designation,
// court name or court room.
func MatchesQuery(rec domain.ExtractedJudgeRecord, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, field := range []string{
		rec.Name, domain.Deref(rec.Designation), domain.Deref(rec.CourtName), domain.Deref(rec.CourtRoom),
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// stripHighlightTags removes the emphasis markup engines wrap around
// matched terms.
func stripHighlightTags(s string) string {
	return highlightTags.Replace(s)
}

var highlightTags = strings.NewReplacer("<em>", "", "</em>", "", "<mark>", "", "</mark>", "")
