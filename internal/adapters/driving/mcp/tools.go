package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// defaultLimit caps tool results when the caller gives no limit.
const defaultLimit = 10

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"free-text query matched against document titles and text"`
	Complex  string `json:"complex,omitempty" jsonschema:"court complex, e.g. ROHINI or TIS_HAZARI"`
	Zone     string `json:"zone,omitempty" jsonschema:"zone within the complex, e.g. NORTH"`
	Category string `json:"category,omitempty" jsonschema:"document category, e.g. BAIL_ROSTER or JUDGES_LIST"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// FilterInput is the input schema for the filter_documents tool.
type FilterInput struct {
	Complex  string `json:"complex,omitempty" jsonschema:"court complex, e.g. SAKET"`
	Zone     string `json:"zone,omitempty" jsonschema:"zone within the complex, e.g. SOUTH"`
	Category string `json:"category,omitempty" jsonschema:"document category, e.g. DUTY_MAGISTRATE_ROSTER"`
	Skip     int    `json:"skip,omitempty" jsonschema:"number of documents to skip"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 10)"`
}

// SearchOutput is the output schema for the document search tools.
type SearchOutput struct {
	Engine  string           `json:"engine"`
	Total   int              `json:"total"`
	Count   int              `json:"count"`
	Results []DocumentResult `json:"results"`
}

// DocumentResult represents a single document hit.
type DocumentResult struct {
	DocumentID string   `json:"document_id"`
	URI        string   `json:"uri"`
	Complex    string   `json:"complex"`
	Zone       string   `json:"zone"`
	Category   string   `json:"category"`
	Title      string   `json:"title,omitempty"`
	DocDate    string   `json:"doc_date,omitempty"`
	SourceURL  string   `json:"source_url,omitempty"`
	Score      float64  `json:"score,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// JudgeInput is the input schema for the search_judges tool.
type JudgeInput struct {
	Query   string `json:"query" jsonschema:"judge name, court or room to look for"`
	Complex string `json:"complex,omitempty" jsonschema:"restrict documents to a court complex"`
	Zone    string `json:"zone,omitempty" jsonschema:"restrict documents to a zone"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of judges to return (default 20)"`
}

// JudgeOutput is the output schema for the search_judges tool.
type JudgeOutput struct {
	Engine string        `json:"engine"`
	Count  int           `json:"count"`
	Judges []JudgeResult `json:"judges"`
}

// JudgeResult is one judge with where it was found.
type JudgeResult struct {
	Name        string  `json:"name"`
	Designation string  `json:"designation,omitempty"`
	CourtName   string  `json:"court_name,omitempty"`
	CourtRoom   string  `json:"court_room,omitempty"`
	MeetingLink string  `json:"meeting_link,omitempty"`
	VCContact   string  `json:"vc_meeting_id_or_email,omitempty"`
	Source      string  `json:"source"`
	DocumentURI string  `json:"document_uri,omitempty"`
	Title       string  `json:"title,omitempty"`
	DocDate     string  `json:"doc_date,omitempty"`
	Score       float64 `json:"score,omitempty"`
}

// RosterInput is the input schema for the search_rosters tool.
type RosterInput struct {
	Query string `json:"query" jsonschema:"text matched against names, courts and locations"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of records to return (default 10)"`
}

// RosterOutput is the output schema for the search_rosters tool.
type RosterOutput struct {
	Count   int            `json:"count"`
	Rosters []RosterResult `json:"rosters"`
}

// RosterResult is one structured roster record.
type RosterResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Designation string `json:"designation,omitempty"`
	CourtName   string `json:"court_name,omitempty"`
	CourtRoom   string `json:"court_room,omitempty"`
	VCLink      string `json:"vc_link,omitempty"`
	District    string `json:"district,omitempty"`
	Zone        string `json:"zone,omitempty"`
	Location    string `json:"location,omitempty"`
}

// SummaryInput is the input schema for the summarize_documents tool.
type SummaryInput struct {
	Complex string `json:"complex,omitempty" jsonschema:"only report groups of this court complex"`
}

// SummaryOutput is the output schema for the summarize_documents tool.
type SummaryOutput struct {
	Groups []GroupResult `json:"groups"`
}

// GroupResult counts the documents of one complex, zone and category.
type GroupResult struct {
	Complex         string `json:"complex"`
	Zone            string `json:"zone"`
	Category        string `json:"category"`
	Count           int    `json:"count"`
	LatestDocDate   string `json:"latest_doc_date,omitempty"`
	LatestUpdatedAt string `json:"latest_updated_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Full-text search over roster documents, optionally narrowed by complex, zone and category",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "filter_documents",
		Description: "List roster documents by complex, zone or category, newest first. No free text",
	}, s.handleFilter)

	if s.ports.Judges != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_judges",
			Description: "Find judges with their courts, rooms and video-conference details",
		}, s.handleJudges)
	}

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "summarize_documents",
			Description: "Count documents per complex, zone and category with the latest document date of each",
		}, s.handleSummary)
	}

	if s.ports.Roster != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_rosters",
			Description: "Search the structured judge roster entered outside of documents",
		}, s.handleRosters)
	}
}

// handleSearch handles the search_documents tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	f, err := s.filter(input.Complex, input.Zone, input.Category)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	resp, err := s.ports.Search.TextSearch(ctx, domain.TextQuery{
		Q:        input.Query,
		Complex:  f.Complex,
		Zone:     f.Zone,
		Category: f.Category,
		Size:     limit,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, searchOutput(resp), nil
}

// handleFilter handles the filter_documents tool invocation.
func (s *Server) handleFilter(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilterInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	f, err := s.filter(input.Complex, input.Zone, input.Category)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	resp, err := s.ports.Search.FilterSearch(ctx, domain.FilterQuery{
		Complex:    f.Complex,
		Zone:       f.Zone,
		Category:   f.Category,
		Pagination: domain.Pagination{Skip: input.Skip, Limit: limit},
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, searchOutput(resp), nil
}

// handleJudges handles the search_judges tool invocation.
func (s *Server) handleJudges(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input JudgeInput,
) (*mcp.CallToolResult, JudgeOutput, error) {
	f, err := s.filter(input.Complex, input.Zone, "")
	if err != nil {
		return nil, JudgeOutput{}, err
	}

	resp, err := s.ports.Judges.SearchJudges(ctx, domain.JudgeQuery{
		Q:       input.Query,
		Complex: f.Complex,
		Zone:    f.Zone,
		Limit:   input.Limit,
	})
	if err != nil {
		return nil, JudgeOutput{}, err
	}

	output := JudgeOutput{
		Engine: string(resp.Engine),
		Count:  len(resp.Judges),
		Judges: make([]JudgeResult, len(resp.Judges)),
	}
	for i, j := range resp.Judges {
		output.Judges[i] = JudgeResult{
			Name:        j.Name,
			Designation: domain.Deref(j.Designation),
			CourtName:   domain.Deref(j.CourtName),
			CourtRoom:   domain.Deref(j.CourtRoom),
			MeetingLink: domain.Deref(j.MeetingLink),
			VCContact:   domain.Deref(j.VCMeetingIDOrEmail),
			Source:      string(j.Provenance.Kind),
			Title:       j.Provenance.Title,
			DocDate:     formatDate(j.Provenance.DocDate),
		}
		if j.Provenance.DocumentID != "" {
			output.Judges[i].DocumentURI = documentURI(j.Provenance.DocumentID)
		}
		if j.RelevanceScore != nil {
			output.Judges[i].Score = *j.RelevanceScore
		}
	}
	return nil, output, nil
}

// handleRosters handles the search_rosters tool invocation.
func (s *Server) handleRosters(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RosterInput,
) (*mcp.CallToolResult, RosterOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	recs, err := s.ports.Roster.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, RosterOutput{}, err
	}

	output := RosterOutput{
		Count:   len(recs),
		Rosters: make([]RosterResult, len(recs)),
	}
	for i := range recs {
		r := &recs[i]
		output.Rosters[i] = RosterResult{
			ID:          r.ID,
			Name:        r.Name,
			Designation: r.Designation,
			CourtName:   r.CourtName,
			CourtRoom:   r.CourtRoom,
			VCLink:      r.VCLink,
			District:    r.District,
			Zone:        r.Zone,
			Location:    r.Location,
		}
	}
	return nil, output, nil
}

// handleSummary handles the summarize_documents tool invocation.
func (s *Server) handleSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummaryInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	f, err := s.filter(input.Complex, "", "")
	if err != nil {
		return nil, SummaryOutput{}, err
	}

	groups, err := s.ports.Document.Summary(ctx)
	if err != nil {
		return nil, SummaryOutput{}, err
	}

	output := SummaryOutput{Groups: []GroupResult{}}
	for _, g := range groups {
		if f.Complex != "" && g.Complex != f.Complex {
			continue
		}
		output.Groups = append(output.Groups, GroupResult{
			Complex:         string(g.Complex),
			Zone:            string(g.Zone),
			Category:        string(g.Category),
			Count:           g.Count,
			LatestDocDate:   formatDate(g.LatestDocDate),
			LatestUpdatedAt: g.LatestUpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return nil, output, nil
}

func searchOutput(resp *domain.SearchResponse) SearchOutput {
	output := SearchOutput{
		Engine:  string(resp.Engine),
		Total:   resp.Total,
		Count:   len(resp.Hits),
		Results: make([]DocumentResult, len(resp.Hits)),
	}
	for i, h := range resp.Hits {
		output.Results[i] = DocumentResult{
			DocumentID: h.DocumentID,
			URI:        documentURI(h.DocumentID),
			Complex:    string(h.Complex),
			Zone:       string(h.Zone),
			Category:   string(h.Category),
			Title:      h.Title,
			DocDate:    formatDate(h.DocDate),
			SourceURL:  h.SourceURL,
			Highlights: h.Highlights,
		}
		if h.Score != nil {
			output.Results[i].Score = *h.Score
		}
	}
	return output
}

// filter parses hierarchy values in any case, with spaces or dashes. A
// scoped server fills in its complex and rejects any other.
func (s *Server) filter(complex, zone, category string) (domain.DocumentFilter, error) {
	var f domain.DocumentFilter
	var err error
	if strings.TrimSpace(complex) != "" {
		if f.Complex, err = domain.ParseComplex(complex); err != nil {
			return f, err
		}
	}
	if strings.TrimSpace(zone) != "" {
		if f.Zone, err = domain.ParseZone(zone); err != nil {
			return f, err
		}
	}
	if strings.TrimSpace(category) != "" {
		if f.Category, err = domain.ParseCategory(category); err != nil {
			return f, err
		}
	}

	if s.complex == "" {
		return f, nil
	}
	if f.Complex != "" && f.Complex != s.complex {
		return f, domain.NewValidationError("complex", "this server only serves %s", s.complex)
	}
	f.Complex = s.complex
	return f, nil
}
