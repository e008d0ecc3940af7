package driven

import (
	"context"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// RosterStore persists structured roster records, unique on
// (name, courtName, courtRoom, vcLink).
type RosterStore interface {
	// Upsert inserts or replaces the record sharing rec's unique key.
	Upsert(ctx context.Context, rec *domain.RosterRecord) (*domain.RosterRecord, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.RosterRecord, error)

	// List returns records ordered by name.
	List(ctx context.Context, page domain.Pagination) ([]domain.RosterRecord, error)

	// Search returns records whose searchable fields contain query.
	Search(ctx context.Context, query string, limit int) ([]domain.RosterRecord, error)

	// Delete removes a record.
	Delete(ctx context.Context, id string) error
}
