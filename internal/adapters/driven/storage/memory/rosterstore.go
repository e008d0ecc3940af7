package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// Ensure RosterStore implements the interface.
var _ driven.RosterStore = (*RosterStore)(nil)

// RosterStore is an in-memory implementation of driven.RosterStore.
type RosterStore struct {
	mu      sync.RWMutex
	records map[string]domain.RosterRecord
	byKey   map[string]string
}

// NewRosterStore creates a new in-memory roster store.
func NewRosterStore() *RosterStore {
	return &RosterStore{
		records: make(map[string]domain.RosterRecord),
		byKey:   make(map[string]string),
	}
}

// Upsert inserts rec or replaces the record sharing its unique key.
func (s *RosterStore) Upsert(_ context.Context, rec *domain.RosterRecord) (*domain.RosterRecord, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	next := *rec
	key := rec.UniqueKey()

	existingID := rec.ID
	if id, ok := s.byKey[key]; ok {
		existingID = id
	}

	if existing, ok := s.records[existingID]; ok && existingID != "" {
		next.ID = existing.ID
		next.CreatedAt = existing.CreatedAt
		if oldKey := existing.UniqueKey(); oldKey != key {
			delete(s.byKey, oldKey)
		}
	} else {
		if next.ID == "" {
			next.ID = uuid.New().String()
		}
		next.CreatedAt = now
	}
	next.UpdatedAt = now

	s.records[next.ID] = next
	s.byKey[key] = next.ID

	out := next
	return &out, nil
}

// Get retrieves a record by ID.
func (s *RosterStore) Get(_ context.Context, id string) (*domain.RosterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, domain.NewNotFoundError("roster record", id)
	}
	return &rec, nil
}

// List returns records ordered by name.
func (s *RosterStore) List(_ context.Context, page domain.Pagination) ([]domain.RosterRecord, error) {
	page = page.Normalised()
	all := s.sorted(func(*domain.RosterRecord) bool { return true })

	if page.Skip >= len(all) {
		return []domain.RosterRecord{}, nil
	}
	end := page.Skip + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[page.Skip:end], nil
}

// Search returns records whose searchable fields contain query.
func (s *RosterStore) Search(_ context.Context, query string, limit int) ([]domain.RosterRecord, error) {
	matched := s.sorted(func(rec *domain.RosterRecord) bool { return rec.MatchesQuery(query) })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Delete removes a record.
func (s *RosterStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return domain.NewNotFoundError("roster record", id)
	}
	delete(s.byKey, rec.UniqueKey())
	delete(s.records, id)
	return nil
}

func (s *RosterStore) sorted(keep func(*domain.RosterRecord) bool) []domain.RosterRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RosterRecord, 0, len(s.records))
	for _, rec := range s.records {
		if keep(&rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}
