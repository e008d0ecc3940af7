package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/view"
	"github.com/custodia-labs/lexroster/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for lexroster resources.
	uriScheme = "lexroster://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "topology",
		Name:        "topology",
		Description: "Court complexes, the zones each one services, and document categories",
		MIMEType:    "application/json",
	}, s.handleTopologyResource)

	if s.ports.Document == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "summary",
		Name:        "summary",
		Description: "Document counts and latest dates per complex, zone and category",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Extracted text of a roster document, one section per page",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// handleTopologyResource returns the court hierarchy.
func (s *Server) handleTopologyResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, view.CurrentTopology())
}

// handleSummaryResource returns per-group counts.
func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return jsonResource(req.Params.URI, []view.Group{})
	}

	groups, err := s.ports.Document.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("summarising documents: %w", err)
	}
	if s.complex != "" {
		scoped := groups[:0:0]
		for _, g := range groups {
			if g.Complex == s.complex {
				scoped = append(scoped, g)
			}
		}
		groups = scoped
	}
	return jsonResource(req.Params.URI, view.FromGroups(groups))
}

// handleDocumentContentResource returns the text of a specific document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: lexroster://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if s.complex != "" && doc.Complex != s.complex {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     documentText(doc),
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// documentText renders a header followed by each page. Documents stored
// without pages fall back to the full text.
func documentText(doc *domain.Document) string {
	var b strings.Builder
	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	fmt.Fprintf(&b, "# %s\n", title)
	fmt.Fprintf(&b, "%s / %s / %s", doc.Complex, doc.Zone, doc.Category)
	if date := formatDate(doc.DocDate); date != "" {
		fmt.Fprintf(&b, " / %s", date)
	}
	b.WriteString("\n")

	if len(doc.Pages) == 0 {
		b.WriteString("\n")
		b.WriteString(doc.FullText)
		return b.String()
	}
	for _, p := range doc.Pages {
		fmt.Fprintf(&b, "\n--- page %d ---\n%s\n", p.PageNumber, p.Text)
	}
	return b.String()
}

func documentURI(id string) string {
	return uriScheme + "documents/" + id
}

// extractDocumentID extracts the document ID from a URI like lexroster://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
