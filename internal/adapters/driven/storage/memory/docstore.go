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

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// titleWeight boosts matches in the title over the full text.
const titleWeight = 5

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	byKey     map[string]string
	now       func() time.Time
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		byKey:     make(map[string]string),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Upsert inserts doc or replaces the content of the document sharing its
// unique key.
func (s *DocumentStore) Upsert(_ context.Context, doc *domain.Document) (*domain.Document, error) {
	if err := domain.ValidateHierarchy(doc.Complex, doc.Zone, doc.Category); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	next := cloneDocument(doc)

	existingID := doc.ID
	key, keyed := doc.UniqueKey()
	if keyed {
		if id, ok := s.byKey[key]; ok {
			existingID = id
		}
	}

	if existing, ok := s.documents[existingID]; ok && existingID != "" {
		next.ID = existing.ID
		next.CreatedAt = existing.CreatedAt
		if next.SearchEngineRef == nil {
			next.SearchEngineRef = existing.SearchEngineRef
		}
		if oldKey, oldKeyed := existing.UniqueKey(); oldKeyed && oldKey != key {
			delete(s.byKey, oldKey)
		}
	} else {
		if next.ID == "" {
			next.ID = uuid.New().String()
		}
		next.CreatedAt = now
	}
	next.UpdatedAt = now

	s.documents[next.ID] = next
	if keyed {
		s.byKey[key] = next.ID
	}

	out := cloneDocument(&next)
	return &out, nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.NewNotFoundError("document", id)
	}
	out := cloneDocument(&doc)
	return &out, nil
}

// Find lists documents matching filter, newest first.
func (s *DocumentStore) Find(
	_ context.Context, filter domain.DocumentFilter, page domain.Pagination,
) ([]domain.Document, error) {
	page = page.Normalised()
	matched := s.matching(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return domain.NewerFirst(&matched[i], &matched[j])
	})

	if page.Skip >= len(matched) {
		return []domain.Document{}, nil
	}
	end := page.Skip + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[page.Skip:end], nil
}

// Count returns how many documents match filter.
func (s *DocumentStore) Count(_ context.Context, filter domain.DocumentFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, doc := range s.documents {
		if filter.Matches(&doc) {
			n++
		}
	}
	return n, nil
}

// Summarize groups documents by (complex, zone, category).
func (s *DocumentStore) Summarize(_ context.Context) ([]domain.GroupSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[[3]string]*domain.GroupSummary)
	for _, doc := range s.documents {
		k := [3]string{string(doc.Complex), string(doc.Zone), string(doc.Category)}
		g, ok := groups[k]
		if !ok {
			g = &domain.GroupSummary{Complex: doc.Complex, Zone: doc.Zone, Category: doc.Category}
			groups[k] = g
		}
		g.Count++
		if doc.DocDate != nil && (g.LatestDocDate == nil || doc.DocDate.After(*g.LatestDocDate)) {
			d := *doc.DocDate
			g.LatestDocDate = &d
		}
		if doc.UpdatedAt.After(g.LatestUpdatedAt) {
			g.LatestUpdatedAt = doc.UpdatedAt
		}
	}

	out := make([]domain.GroupSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Complex != b.Complex {
			return a.Complex < b.Complex
		}
		if a.Zone != b.Zone {
			return a.Zone < b.Zone
		}
		return a.Category < b.Category
	})
	return out, nil
}

// TextSearch matches documents containing every query term in the title
// or full text, case-insensitively. Scores count term occurrences with
// title hits weighted higher.
func (s *DocumentStore) TextSearch(
	_ context.Context, query string, filter domain.DocumentFilter, limit int,
) ([]driven.TextMatch, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []driven.TextMatch{}, nil
	}

	var matches []driven.TextMatch
	for _, doc := range s.matching(filter) {
		title := strings.ToLower(doc.Title)
		body := strings.ToLower(doc.FullText)

		score := 0
		for _, term := range terms {
			n := titleWeight*strings.Count(title, term) + strings.Count(body, term)
			if n == 0 {
				score = 0
				break
			}
			score += n
		}
		if score == 0 {
			continue
		}
		matches = append(matches, driven.TextMatch{
			Document: doc,
			Score:    float64(score),
			Snippet:  domain.Snippet(doc.FullText, query, domain.DefaultSnippetRadius),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return domain.NewerFirst(&matches[i].Document, &matches[j].Document)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// AttachSearchEngineRef records where the document was mirrored.
func (s *DocumentStore) AttachSearchEngineRef(_ context.Context, id string, ref domain.SearchEngineRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.NewNotFoundError("document", id)
	}
	doc.SearchEngineRef = &ref
	s.documents[id] = doc
	return nil
}

// Delete removes a document.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.NewNotFoundError("document", id)
	}
	if key, keyed := doc.UniqueKey(); keyed {
		delete(s.byKey, key)
	}
	delete(s.documents, id)
	return nil
}

// matching returns copies of the documents that satisfy filter.
func (s *DocumentStore) matching(filter domain.DocumentFilter) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		if filter.Matches(&doc) {
			out = append(out, cloneDocument(&doc))
		}
	}
	return out
}

func cloneDocument(doc *domain.Document) domain.Document {
	out := *doc
	if doc.Pages != nil {
		out.Pages = make([]domain.Page, len(doc.Pages))
		copy(out.Pages, doc.Pages)
	}
	if doc.DocDate != nil {
		d := *doc.DocDate
		out.DocDate = &d
	}
	if doc.SearchEngineRef != nil {
		ref := *doc.SearchEngineRef
		out.SearchEngineRef = &ref
	}
	return out
}
