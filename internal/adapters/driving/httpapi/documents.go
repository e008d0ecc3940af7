package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/view"
	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/export"
	"github.com/custodia-labs/lexroster/internal/logger"
)

// remoteIngest is the JSON body for ingesting a document from a URL.
type remoteIngest struct {
	Complex   string `json:"complex"`
	Zone      string `json:"zone"`
	Category  string `json:"category"`
	Title     string `json:"title"`
	DocDate   string `json:"docDate"`
	SourceURL string `json:"sourceUrl"`
	BlobURL   string `json:"blobUrl"`
	BlobKey   string `json:"blobKey"`

	// FetchFrom is "sourceUrl" or "blobUrl". It defaults to blobUrl when one
	// is given and sourceUrl otherwise.
	FetchFrom string `json:"fetchFrom"`
}

const (
	fetchFromSource = "sourceUrl"
	fetchFromBlob   = "blobUrl"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var req domain.IngestRequest
	var err error
	switch mediaType {
	case "multipart/form-data":
		req, err = s.multipartIngest(w, r)
	case "application/json":
		var body remoteIngest
		if decodeJSON(w, r, &body) != nil {
			return
		}
		req, err = body.toRequest()
	default:
		writeError(w, http.StatusUnsupportedMediaType, "use multipart/form-data with a file or application/json with a URL")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	doc, err := s.svc.Ingest.Ingest(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view.FromDocument(doc))
}

func (s *Server) multipartIngest(w http.ResponseWriter, r *http.Request) (domain.IngestRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.IngestRequest{}, domain.NewValidationError("file", "exceeds %d bytes", s.cfg.MaxUploadBytes)
		}
		return domain.IngestRequest{}, domain.NewValidationError("body", "invalid multipart form: %v", err)
	}

	h, err := parseHierarchy(r.MultipartForm.Value)
	if err != nil {
		return domain.IngestRequest{}, err
	}
	date, err := view.ParseDate("docDate", r.FormValue("docDate"))
	if err != nil {
		return domain.IngestRequest{}, err
	}

	req := domain.IngestRequest{
		Complex:   h.complex,
		Zone:      h.zone,
		Category:  h.category,
		Title:     r.FormValue("title"),
		DocDate:   date,
		SourceURL: r.FormValue("sourceUrl"),
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return domain.IngestRequest{}, domain.NewValidationError("file", "is required")
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		return domain.IngestRequest{}, fmt.Errorf("read upload: %w", err)
	}
	req.File = buf
	req.FileName = header.Filename
	return req, nil
}

func (b remoteIngest) toRequest() (domain.IngestRequest, error) {
	values := map[string][]string{
		"complex":  {b.Complex},
		"zone":     {b.Zone},
		"category": {b.Category},
	}
	h, err := parseHierarchy(values)
	if err != nil {
		return domain.IngestRequest{}, err
	}
	date, err := view.ParseDate("docDate", b.DocDate)
	if err != nil {
		return domain.IngestRequest{}, err
	}

	req := domain.IngestRequest{
		Complex:   h.complex,
		Zone:      h.zone,
		Category:  h.category,
		Title:     b.Title,
		DocDate:   date,
		SourceURL: b.SourceURL,
		BlobURL:   b.BlobURL,
		BlobKey:   b.BlobKey,
	}

	from := b.FetchFrom
	if from == "" {
		from = fetchFromSource
		if b.BlobURL != "" {
			from = fetchFromBlob
		}
	}
	switch from {
	case fetchFromSource:
		req.FetchSource = true
	case fetchFromBlob:
		req.FetchBlob = true
	default:
		return domain.IngestRequest{}, domain.NewValidationError("fetchFrom", "must be %s or %s", fetchFromSource, fetchFromBlob)
	}
	return req, nil
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	filter, err := parseDocumentFilter(values)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	page, err := parsePagination(values)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	docs, err := s.svc.Documents.List(r.Context(), filter, page)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": view.FromDocuments(docs),
		"count":     len(docs),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Documents.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.FromDocument(doc))
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.svc.Documents.Pages(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": view.FromPages(pages)})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Documents.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.Documents.Summary(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": view.FromGroups(groups)})
}

func (s *Server) handleSummaryXLSX(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.Documents.Summary(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	buf, err := export.SummaryXLSX(groups)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeXLSX(w, "summary.xlsx", buf)
}

func writeXLSX(w http.ResponseWriter, name string, buf []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(name, `"`, "")+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf); err != nil {
		logger.Debug("Writing %s failed: %v", name, err)
	}
}
