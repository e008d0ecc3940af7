// Package view holds the JSON shapes the driving adapters return.
//
// The HTTP API, the MCP server and the CLI's --json output all render the
// same views so clients see one vocabulary regardless of entry point.
package view

import (
	"time"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

const dateLayout = "2006-01-02"

// Document is a stored document without its page text.
type Document struct {
	ID              string           `json:"id"`
	Complex         domain.Complex   `json:"complex"`
	Zone            domain.Zone      `json:"zone"`
	Category        domain.Category  `json:"category"`
	Title           string           `json:"title,omitempty"`
	DocDate         string           `json:"docDate,omitempty"`
	SourceURL       string           `json:"sourceUrl,omitempty"`
	BlobURL         string           `json:"blobUrl,omitempty"`
	BlobKey         string           `json:"blobKey,omitempty"`
	PageCount       int              `json:"pageCount"`
	SearchEngineRef *SearchEngineRef `json:"searchEngineRef,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// SearchEngineRef locates a mirrored document in the primary engine.
type SearchEngineRef struct {
	IndexName  string `json:"indexName"`
	ExternalID string `json:"externalId"`
}

// Page is one page of extracted text.
type Page struct {
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
}

// Hit is one search match.
type Hit struct {
	DocumentID string          `json:"documentId"`
	Complex    domain.Complex  `json:"complex"`
	Zone       domain.Zone     `json:"zone"`
	Category   domain.Category `json:"category"`
	Title      string          `json:"title,omitempty"`
	DocDate    string          `json:"docDate,omitempty"`
	SourceURL  string          `json:"sourceUrl,omitempty"`
	BlobURL    string          `json:"blobUrl,omitempty"`
	Score      *float64        `json:"score"`
	Highlights []string        `json:"highlights"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// SearchResponse is a ranked list from one engine.
type SearchResponse struct {
	Engine domain.Engine `json:"engine"`
	Total  int           `json:"total"`
	Hits   []Hit         `json:"hits"`
}

// Judge is an extracted or roster judge record.
type Judge struct {
	Name               string     `json:"name"`
	Designation        *string    `json:"designation"`
	CourtName          *string    `json:"courtName"`
	CourtRoom          *string    `json:"courtRoom"`
	MeetingLink        *string    `json:"meetingLink"`
	VCMeetingIDOrEmail *string    `json:"vcMeetingIdOrEmail"`
	Provenance         Provenance `json:"provenance"`
	RelevanceScore     *float64   `json:"relevanceScore"`
}

// Provenance tells where a judge record came from.
type Provenance struct {
	Kind       domain.ProvenanceKind `json:"kind"`
	DocumentID string                `json:"documentId,omitempty"`
	RosterID   string                `json:"rosterId,omitempty"`
	Complex    domain.Complex        `json:"complex,omitempty"`
	Zone       domain.Zone           `json:"zone,omitempty"`
	Title      string                `json:"title,omitempty"`
	DocDate    string                `json:"docDate,omitempty"`
	SourceURL  string                `json:"sourceUrl,omitempty"`
	BlobURL    string                `json:"blobUrl,omitempty"`
}

// JudgeResponse is the merged judge list.
type JudgeResponse struct {
	Engine domain.Engine `json:"engine"`
	Count  int           `json:"count"`
	Judges []Judge       `json:"judges"`
}

// Group summarises one (complex, zone, category) group.
type Group struct {
	Complex         domain.Complex  `json:"complex"`
	Zone            domain.Zone     `json:"zone"`
	Category        domain.Category `json:"category"`
	Count           int             `json:"count"`
	LatestDocDate   string          `json:"latestDocDate,omitempty"`
	LatestUpdatedAt time.Time       `json:"latestUpdatedAt"`
}

// Topology lists the court hierarchy.
type Topology struct {
	Complexes  []ComplexZones    `json:"complexes"`
	Categories []domain.Category `json:"categories"`
}

// ComplexZones lists the zones a complex services.
type ComplexZones struct {
	Complex domain.Complex `json:"complex"`
	Zones   []domain.Zone  `json:"zones"`
}

// FromDocument renders a stored document.
func FromDocument(doc *domain.Document) Document {
	d := Document{
		ID:        doc.ID,
		Complex:   doc.Complex,
		Zone:      doc.Zone,
		Category:  doc.Category,
		Title:     doc.Title,
		DocDate:   formatDate(doc.DocDate),
		SourceURL: doc.SourceURL,
		BlobURL:   doc.BlobURL,
		BlobKey:   doc.BlobKey,
		PageCount: len(doc.Pages),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if doc.SearchEngineRef != nil {
		d.SearchEngineRef = &SearchEngineRef{
			IndexName:  doc.SearchEngineRef.IndexName,
			ExternalID: doc.SearchEngineRef.ExternalID,
		}
	}
	return d
}

// FromDocuments renders a document listing.
func FromDocuments(docs []domain.Document) []Document {
	out := make([]Document, 0, len(docs))
	for i := range docs {
		out = append(out, FromDocument(&docs[i]))
	}
	return out
}

// FromPages renders page text.
func FromPages(pages []domain.Page) []Page {
	out := make([]Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, Page{PageNumber: p.PageNumber, Text: p.Text})
	}
	return out
}

// FromHit renders a search hit.
func FromHit(h domain.SearchHit) Hit {
	highlights := h.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	return Hit{
		DocumentID: h.DocumentID,
		Complex:    h.Complex,
		Zone:       h.Zone,
		Category:   h.Category,
		Title:      h.Title,
		DocDate:    formatDate(h.DocDate),
		SourceURL:  h.SourceURL,
		BlobURL:    h.BlobURL,
		Score:      h.Score,
		Highlights: highlights,
		UpdatedAt:  h.UpdatedAt,
	}
}

// FromSearchResponse renders a search response.
func FromSearchResponse(resp *domain.SearchResponse) SearchResponse {
	hits := make([]Hit, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		hits = append(hits, FromHit(h))
	}
	return SearchResponse{Engine: resp.Engine, Total: resp.Total, Hits: hits}
}

// FromJudge renders a judge record.
func FromJudge(j domain.ExtractedJudgeRecord) Judge {
	p := j.Provenance
	return Judge{
		Name:               j.Name,
		Designation:        j.Designation,
		CourtName:          j.CourtName,
		CourtRoom:          j.CourtRoom,
		MeetingLink:        j.MeetingLink,
		VCMeetingIDOrEmail: j.VCMeetingIDOrEmail,
		Provenance: Provenance{
			Kind:       p.Kind,
			DocumentID: p.DocumentID,
			RosterID:   p.RosterID,
			Complex:    p.Complex,
			Zone:       p.Zone,
			Title:      p.Title,
			DocDate:    formatDate(p.DocDate),
			SourceURL:  p.SourceURL,
			BlobURL:    p.BlobURL,
		},
		RelevanceScore: j.RelevanceScore,
	}
}

// FromJudgeResponse renders a judge response.
func FromJudgeResponse(resp *domain.JudgeResponse) JudgeResponse {
	judges := make([]Judge, 0, len(resp.Judges))
	for _, j := range resp.Judges {
		judges = append(judges, FromJudge(j))
	}
	return JudgeResponse{Engine: resp.Engine, Count: len(judges), Judges: judges}
}

// FromGroups renders a summary.
func FromGroups(groups []domain.GroupSummary) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, Group{
			Complex:         g.Complex,
			Zone:            g.Zone,
			Category:        g.Category,
			Count:           g.Count,
			LatestDocDate:   formatDate(g.LatestDocDate),
			LatestUpdatedAt: g.LatestUpdatedAt,
		})
	}
	return out
}

// CurrentTopology renders the static court hierarchy.
func CurrentTopology() Topology {
	t := Topology{Categories: domain.Categories()}
	for _, c := range domain.Complexes() {
		t.Complexes = append(t.Complexes, ComplexZones{Complex: c, Zones: domain.ZonesFor(c)})
	}
	return t
}

// ParseDate parses a YYYY-MM-DD or RFC 3339 date. Empty input yields nil.
func ParseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(field, "expected YYYY-MM-DD, got %q", s)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
