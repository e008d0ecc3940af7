package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/lexroster/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// mockEngine is a controllable driven.PrimaryEngine.
type mockEngine struct {
	mu sync.Mutex

	searchResult *driven.EngineResult
	filterResult *driven.EngineResult
	err          error
	delay        time.Duration

	searchCalls int
	filterCalls int
	indexed     []string
	deleted     []domain.SearchEngineRef
}

func (m *mockEngine) wait(ctx context.Context) error {
	if m.delay == 0 {
		return nil
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mockEngine) IndexDocument(ctx context.Context, doc *domain.Document) (domain.SearchEngineRef, error) {
	if err := m.wait(ctx); err != nil {
		return domain.SearchEngineRef{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.SearchEngineRef{}, m.err
	}
	m.indexed = append(m.indexed, doc.ID)
	return domain.SearchEngineRef{IndexName: "rosters", ExternalID: doc.ID}, nil
}

func (m *mockEngine) Search(ctx context.Context, _ domain.TextQuery, _ int) (*driven.EngineResult, error) {
	m.mu.Lock()
	m.searchCalls++
	m.mu.Unlock()
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.searchResult, nil
}

func (m *mockEngine) Filter(ctx context.Context, _ domain.DocumentFilter, _ domain.Pagination) (*driven.EngineResult, error) {
	m.mu.Lock()
	m.filterCalls++
	m.mu.Unlock()
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.filterResult, nil
}

func (m *mockEngine) DeleteDocument(_ context.Context, ref domain.SearchEngineRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, ref)
	return m.err
}

func (m *mockEngine) Ping(_ context.Context) error {
	return m.err
}

func (m *mockEngine) calls() (search, filter int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls, m.filterCalls
}

// failingStore wraps a memory store and fails reads on demand.
type failingStore struct {
	*memory.DocumentStore
	findErr   error
	searchErr error
	attachErr error
}

func (s *failingStore) AttachSearchEngineRef(ctx context.Context, id string, ref domain.SearchEngineRef) error {
	if s.attachErr != nil {
		return s.attachErr
	}
	return s.DocumentStore.AttachSearchEngineRef(ctx, id, ref)
}

func (s *failingStore) Find(ctx context.Context, f domain.DocumentFilter, p domain.Pagination) ([]domain.Document, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.DocumentStore.Find(ctx, f, p)
}

func (s *failingStore) TextSearch(ctx context.Context, q string, f domain.DocumentFilter, limit int) ([]driven.TextMatch, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.DocumentStore.TextSearch(ctx, q, f, limit)
}

// mockExtractor returns canned text.
type mockExtractor struct {
	text *domain.ExtractedText
	err  error
	seen [][]byte
}

func (m *mockExtractor) Extract(_ context.Context, buf []byte) (*domain.ExtractedText, error) {
	m.seen = append(m.seen, buf)
	return m.text, m.err
}

func extracted(text string) *mockExtractor {
	return &mockExtractor{text: &domain.ExtractedText{
		FullText: text,
		Pages:    []domain.Page{{PageNumber: 1, Text: text}},
	}}
}

// mockBlobs is an in-memory driven.BlobStore.
type mockBlobs struct {
	objects map[string][]byte
	putErr  error
}

func newMockBlobs() *mockBlobs {
	return &mockBlobs{objects: make(map[string][]byte)}
}

func (m *mockBlobs) Put(_ context.Context, key string, buf []byte) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	m.objects[key] = buf
	return "s3://rosters/" + key, nil
}

func (m *mockBlobs) Get(_ context.Context, key string) ([]byte, error) {
	buf, ok := m.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return buf, nil
}

// mockFetcher serves canned bodies by URL.
type mockFetcher struct {
	bodies map[string][]byte
}

func (m *mockFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	buf, ok := m.bodies[url]
	if !ok {
		return nil, errors.New("404 Not Found")
	}
	return buf, nil
}

// mockRosters is a driven.RosterStore whose Search can fail.
type mockRosters struct {
	*memory.RosterStore
	searchErr error
}

func (m *mockRosters) Search(ctx context.Context, q string, limit int) ([]domain.RosterRecord, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.RosterStore.Search(ctx, q, limit)
}

// countingRecorder records measurements for assertions.
type countingRecorder struct {
	mu        sync.Mutex
	searches  map[string]int
	fallbacks map[string]int
	ingests   map[string]int
	mirrors   map[string]int
	documents int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		searches:  make(map[string]int),
		fallbacks: make(map[string]int),
		ingests:   make(map[string]int),
		mirrors:   make(map[string]int),
	}
}

func (r *countingRecorder) RecordSearch(mode, engine string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches[mode+"/"+engine]++
}

func (r *countingRecorder) RecordFallback(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks[reason]++
}

func (r *countingRecorder) RecordIngest(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingests[status]++
}

func (r *countingRecorder) RecordMirror(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mirrors[status]++
}

func (r *countingRecorder) SetDocuments(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents = n
}

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
