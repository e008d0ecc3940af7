package httpapi

import (
	"net/http"
	"strings"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/rosterjson"
)

// handleListRosters lists records, or searches them when q is given.
func (s *Server) handleListRosters(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page, err := parsePagination(values)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var recs []domain.RosterRecord
	if q := strings.TrimSpace(values.Get("q")); q != "" {
		recs, err = s.svc.Rosters.Search(r.Context(), q, page.Normalised().Limit)
	} else {
		recs, err = s.svc.Rosters.List(r.Context(), page)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rosters": rosterjson.FromDomainList(recs),
		"count":   len(recs),
	})
}

// handleUpsertRosters accepts one record or an array and upserts each.
func (s *Server) handleUpsertRosters(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r, maxJSONBytes)
	if !ok {
		return
	}
	recs, err := rosterjson.Decode(body)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	stored := make([]domain.RosterRecord, 0, len(recs))
	for _, rec := range recs {
		out, err := s.svc.Rosters.Upsert(r.Context(), rec)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		stored = append(stored, *out)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rosters": rosterjson.FromDomainList(stored),
		"count":   len(stored),
	})
}

func (s *Server) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Rosters.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterjson.FromDomain(rec))
}

func (s *Server) handleDeleteRoster(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Rosters.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
