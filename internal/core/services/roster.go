package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
	"github.com/custodia-labs/lexroster/internal/core/ports/driving"
	"github.com/custodia-labs/lexroster/internal/logger"
)

// Ensure RosterService implements the interface.
var _ driving.RosterService = (*RosterService)(nil)

// RosterService manages structured roster records.
type RosterService struct {
	store driven.RosterStore
}

// NewRosterService creates a new roster service.
func NewRosterService(store driven.RosterStore) *RosterService {
	return &RosterService{store: store}
}

// Upsert validates rec and inserts it, or replaces the record sharing its
// (name, courtName, courtRoom, vcLink) key.
func (s *RosterService) Upsert(ctx context.Context, rec domain.RosterRecord) (*domain.RosterRecord, error) {
	trimRoster(&rec)
	if err := rec.Validate(); err != nil {
		logger.Debug("Rejected roster record: %v", err)
		return nil, err
	}

	stored, err := s.store.Upsert(ctx, &rec)
	if err != nil {
		return nil, err
	}
	logger.Debug("Upserted roster record %s (%s)", stored.ID, stored.Name)
	return stored, nil
}

// Get retrieves a roster record by ID.
func (s *RosterService) Get(ctx context.Context, id string) (*domain.RosterRecord, error) {
	return s.store.Get(ctx, id)
}

// List returns roster records ordered by name.
func (s *RosterService) List(ctx context.Context, page domain.Pagination) ([]domain.RosterRecord, error) {
	return s.store.List(ctx, page.Normalised())
}

// Delete removes a roster record.
func (s *RosterService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Search matches query against names, courts and locations.
func (s *RosterService) Search(ctx context.Context, query string, limit int) ([]domain.RosterRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "roster search requires a query")
	}
	if limit <= 0 {
		limit = domain.DefaultJudgeLimit
	}
	return s.store.Search(ctx, query, limit)
}

func trimRoster(rec *domain.RosterRecord) {
	for _, f := range []*string{
		&rec.Name, &rec.Designation, &rec.Jurisdiction, &rec.CourtName, &rec.CourtRoom,
		&rec.VCLink, &rec.VCMeetingID, &rec.VCEmail, &rec.District, &rec.Zone, &rec.Location,
		&rec.Source.Name, &rec.Source.URL,
	} {
		*f = strings.TrimSpace(*f)
	}
}
