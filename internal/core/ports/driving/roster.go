package driving

import (
	"context"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// RosterService manages structured roster records.
type RosterService interface {
	Upsert(ctx context.Context, rec domain.RosterRecord) (*domain.RosterRecord, error)
	Get(ctx context.Context, id string) (*domain.RosterRecord, error)
	List(ctx context.Context, page domain.Pagination) ([]domain.RosterRecord, error)
	Delete(ctx context.Context, id string) error

	// Search matches query against names, courts and locations.
	Search(ctx context.Context, query string, limit int) ([]domain.RosterRecord, error)
}
