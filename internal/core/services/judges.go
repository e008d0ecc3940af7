package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
	"github.com/custodia-labs/lexroster/internal/core/ports/driving"
	"github.com/custodia-labs/lexroster/internal/extraction"
	"github.com/custodia-labs/lexroster/internal/logger"
)

// Ensure JudgeService implements the interface.
var _ driving.JudgeService = (*JudgeService)(nil)

// JudgeService finds judges in JUDGES_LIST documents and the structured
// roster, and merges both into one ranked list.
type JudgeService struct {
	search    driving.SearchService
	docStore  driven.DocumentStore
	rosters   driven.RosterStore
	extractor *extraction.Engine
}

// NewJudgeService creates a judge service.
// The docStore and rosters parameters are optional (can be nil).
func NewJudgeService(
	search driving.SearchService,
	docStore driven.DocumentStore,
	rosters driven.RosterStore,
	extractor *extraction.Engine,
) *JudgeService {
	if extractor == nil {
		extractor = extraction.New()
	}
	return &JudgeService{
		search:    search,
		docStore:  docStore,
		rosters:   rosters,
		extractor: extractor,
	}
}

// SearchJudges runs a text search over judges lists, extracts judge records
// from the hits, adds matching roster records and merges the two.
func (s *JudgeService) SearchJudges(ctx context.Context, query domain.JudgeQuery) (*domain.JudgeResponse, error) {
	logger.Section("Judge Search")

	q := strings.TrimSpace(query.Q)
	if q == "" {
		return nil, domain.NewValidationError("q", "judge search requires a query")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = domain.DefaultJudgeLimit
	}

	resp, err := s.search.TextSearch(ctx, domain.TextQuery{
		Q:        q,
		Complex:  query.Complex,
		Zone:     query.Zone,
		Category: domain.CategoryJudgesList,
		Size:     limit,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Judge search: %d hits from %s engine", len(resp.Hits), resp.Engine)

	var fromSearch []domain.ExtractedJudgeRecord
	for _, hit := range resp.Hits {
		fromSearch = append(fromSearch, s.judgesFromHit(ctx, hit, q)...)
	}

	fromRoster := s.rosterJudges(ctx, q, query.Zone, limit)
	logger.Debug("Judge search: %d extracted, %d from roster", len(fromSearch), len(fromRoster))

	return &domain.JudgeResponse{
		Engine: resp.Engine,
		Judges: MergeJudges(fromSearch, fromRoster, limit),
	}, nil
}

// judgesFromHit extracts the judges matching q from a hit's highlights.
// Fragments can cut across neighbouring entries, so records that do not
// match q are dropped, and when none is left the stored document's full
// text is parsed instead.
func (s *JudgeService) judgesFromHit(ctx context.Context, hit domain.SearchHit, q string) []domain.ExtractedJudgeRecord {
	records := matching(s.extractor.ExtractFromHit(hit), q)
	if len(records) > 0 || s.docStore == nil {
		return records
	}

	doc, err := s.docStore.Get(ctx, hit.DocumentID)
	if err != nil {
		logger.Debug("Judge search: loading document %s: %v", hit.DocumentID, err)
		return nil
	}

	records = matching(s.extractor.Extract(doc.FullText), q)
	extraction.Enrich(records, extraction.HitProvenance(hit), hit.Score)
	return records
}

func matching(records []domain.ExtractedJudgeRecord, q string) []domain.ExtractedJudgeRecord {
	var out []domain.ExtractedJudgeRecord
	for _, rec := range records {
		if extraction.MatchesQuery(rec, q) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *JudgeService) rosterJudges(ctx context.Context, q string, zone domain.Zone, limit int) []domain.ExtractedJudgeRecord {
	if s.rosters == nil {
		return nil
	}

	recs, err := s.rosters.Search(ctx, q, limit)
	if err != nil {
		logger.Warn("Roster search failed, continuing with document judges only: %v", err)
		return nil
	}

	out := make([]domain.ExtractedJudgeRecord, 0, len(recs))
	for i := range recs {
		if zone != "" {
			if z, err := domain.ParseZone(recs[i].Zone); err != nil || z != zone {
				continue
			}
		}
		out = append(out, recs[i].ToJudgeRecord())
	}
	return out
}
