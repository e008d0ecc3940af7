package httpapi

import (
	"net/http"
	"strings"

	"github.com/custodia-labs/lexroster/internal/adapters/driving/view"
	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/export"
)

func (s *Server) handleFilterSearch(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	h, err := parseHierarchy(values)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	page, err := parsePagination(values)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp, err := s.svc.Search.FilterSearch(r.Context(), domain.FilterQuery{
		Complex:    h.complex,
		Zone:       h.zone,
		Category:   h.category,
		Q:          values.Get("q"),
		Pagination: page,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.FromSearchResponse(resp))
}

func (s *Server) handleTextSearch(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	h, err := parseHierarchy(values)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	size, err := queryInt(values, "size")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp, err := s.svc.Search.TextSearch(r.Context(), domain.TextQuery{
		Q:        values.Get("q"),
		Complex:  h.complex,
		Zone:     h.zone,
		Category: h.category,
		Size:     size,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.FromSearchResponse(resp))
}

// handleJudgeSearch serves JSON, or an XLSX workbook with format=xlsx.
func (s *Server) handleJudgeSearch(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	h, err := parseHierarchy(values)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	limit, err := queryInt(values, "limit")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp, err := s.svc.Judges.SearchJudges(r.Context(), domain.JudgeQuery{
		Q:       values.Get("q"),
		Complex: h.complex,
		Zone:    h.zone,
		Limit:   limit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if strings.EqualFold(values.Get("format"), "xlsx") {
		buf, err := export.JudgesXLSX(resp.Judges)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.Header().Set("X-Search-Engine", string(resp.Engine))
		writeXLSX(w, "judges.xlsx", buf)
		return
	}
	writeJSON(w, http.StatusOK, view.FromJudgeResponse(resp))
}

func (s *Server) handleTopology(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, view.CurrentTopology())
}

// health is the /healthz body.
type health struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Engine string `json:"engine"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := health{Status: "ok", Store: "unknown", Engine: "unknown"}

	if s.svc.Store != nil {
		if err := s.svc.Store.Ping(r.Context()); err != nil {
			h.Status = "degraded"
			h.Store = "unreachable"
		} else {
			h.Store = "ok"
		}
	}

	if s.svc.Engine != nil {
		switch configured, healthy := s.svc.Engine.EngineStatus(); {
		case !configured:
			h.Engine = "not_configured"
		case healthy:
			h.Engine = "ok"
		default:
			h.Engine = "cooling_down"
		}
	}

	status := http.StatusOK
	if h.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, h)
}
