package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
	"github.com/custodia-labs/lexroster/internal/core/ports/driving"
	"github.com/custodia-labs/lexroster/internal/logger"
)

// Ensure SearchGateway implements the interface.
var _ driving.SearchService = (*SearchGateway)(nil)

// Fallback reasons reported to the recorder.
const (
	fallbackNotConfigured = "not_configured"
	fallbackCooldown      = "cooldown"
	fallbackEngineError   = "engine_error"
)

// SearchGateway answers searches from the primary engine when it is
// configured and healthy, and from the document store otherwise.
// A primary failure marks the engine unhealthy for a cool-down window.
type SearchGateway struct {
	store    driven.DocumentStore
	engine   driven.PrimaryEngine
	cfg      domain.SearchConfig
	recorder Recorder
	now      func() time.Time

	mu             sync.Mutex
	unhealthyUntil time.Time
}

// NewSearchGateway creates a search gateway.
// The engine parameter is optional (can be nil).
func NewSearchGateway(store driven.DocumentStore, engine driven.PrimaryEngine, cfg domain.SearchConfig) *SearchGateway {
	defaults := domain.DefaultSearchConfig()
	if cfg.PrimaryTimeout <= 0 {
		cfg.PrimaryTimeout = defaults.PrimaryTimeout
	}
	if cfg.FallbackTimeout <= 0 {
		cfg.FallbackTimeout = defaults.FallbackTimeout
	}
	if cfg.UnhealthyCooldown <= 0 {
		cfg.UnhealthyCooldown = defaults.UnhealthyCooldown
	}
	if cfg.DefaultSize <= 0 {
		cfg.DefaultSize = defaults.DefaultSize
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaults.MaxSize
	}
	if cfg.SnippetRadius <= 0 {
		cfg.SnippetRadius = defaults.SnippetRadius
	}

	return &SearchGateway{
		store:    store,
		engine:   engine,
		cfg:      cfg,
		recorder: nopRecorder{},
		now:      time.Now,
	}
}

// SetRecorder sets the recorder for search measurements.
func (g *SearchGateway) SetRecorder(r Recorder) {
	g.recorder = recorderOrNop(r)
}

// EngineStatus reports whether the primary engine is configured and
// currently considered healthy.
func (g *SearchGateway) EngineStatus() (configured, healthy bool) {
	if g.engine == nil {
		return false, false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return true, !g.now().Before(g.unhealthyUntil)
}

// Ping checks the primary engine and marks it unhealthy when unreachable.
func (g *SearchGateway) Ping(ctx context.Context) error {
	if g.engine == nil {
		return &domain.EngineUnavailableError{Op: "ping"}
	}
	ctx, cancel := context.WithTimeout(ctx, g.cfg.PrimaryTimeout)
	defer cancel()

	if err := g.engine.Ping(ctx); err != nil {
		unavailable := &domain.EngineUnavailableError{Op: "ping", Err: err}
		g.markUnhealthy()
		return unavailable
	}
	return nil
}

// FilterSearch lists documents by complex, zone or category.
func (g *SearchGateway) FilterSearch(ctx context.Context, query domain.FilterQuery) (*domain.SearchResponse, error) {
	logger.Section("Filter Search")

	if err := query.Validate(); err != nil {
		logger.Debug("Rejected filter search: %v", err)
		return nil, err
	}

	filter := query.Filter()
	page := query.Pagination.Normalised()
	logger.Debug("Filter: complex=%q zone=%q category=%q skip=%d limit=%d",
		filter.Complex, filter.Zone, filter.Category, page.Skip, page.Limit)

	start := g.now()
	if g.usePrimary("filter") {
		result, err := g.primaryFilter(ctx, filter, page)
		if err == nil {
			g.recorder.RecordSearch("filter", string(domain.EnginePrimary), g.now().Sub(start))
			return &domain.SearchResponse{Engine: domain.EnginePrimary, Hits: result.Hits, Total: result.Total}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		g.primaryFailed(err)
	}

	hits, total, err := g.fallbackFilter(ctx, filter, page)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Error("Fallback filter search failed: %v", err)
		return nil, fmt.Errorf("filter search: %w", domain.ErrSearchFailed)
	}

	g.recorder.RecordSearch("filter", string(domain.EngineFallback), g.now().Sub(start))
	return &domain.SearchResponse{Engine: domain.EngineFallback, Hits: hits, Total: total}, nil
}

// TextSearch runs a free-text query with optional filters.
func (g *SearchGateway) TextSearch(ctx context.Context, query domain.TextQuery) (*domain.SearchResponse, error) {
	logger.Section("Text Search")
	logger.Debug("Query: %q", query.Q)

	if err := query.Validate(); err != nil {
		logger.Debug("Rejected text search: %v", err)
		return nil, err
	}

	size := g.size(query.Size)
	logger.Debug("Size: %d", size)

	start := g.now()
	if g.usePrimary("text") {
		result, err := g.primaryText(ctx, query, size)
		if err == nil {
			g.recorder.RecordSearch("text", string(domain.EnginePrimary), g.now().Sub(start))
			return &domain.SearchResponse{Engine: domain.EnginePrimary, Hits: result.Hits, Total: result.Total}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		g.primaryFailed(err)
	}

	hits, err := g.fallbackText(ctx, query, size)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Error("Fallback text search failed: %v", err)
		return nil, fmt.Errorf("text search: %w", domain.ErrSearchFailed)
	}

	// The native text index is queried with a limit, so the fallback total
	// is capped at size.
	g.recorder.RecordSearch("text", string(domain.EngineFallback), g.now().Sub(start))
	return &domain.SearchResponse{Engine: domain.EngineFallback, Hits: hits, Total: len(hits)}, nil
}

// size clamps a requested text search size.
func (g *SearchGateway) size(requested int) int {
	switch {
	case requested <= 0:
		return g.cfg.DefaultSize
	case requested > g.cfg.MaxSize:
		return g.cfg.MaxSize
	default:
		return requested
	}
}

// usePrimary decides the engine for one request:
// configured and healthy means primary, anything else means fallback.
func (g *SearchGateway) usePrimary(mode string) bool {
	configured, healthy := g.EngineStatus()
	switch {
	case !configured:
		logger.Debug("Primary engine not configured, using fallback for %s search", mode)
		g.recorder.RecordFallback(fallbackNotConfigured)
		return false
	case !healthy:
		logger.Debug("Primary engine cooling down, using fallback for %s search", mode)
		g.recorder.RecordFallback(fallbackCooldown)
		return false
	default:
		return true
	}
}

func (g *SearchGateway) primaryFailed(err error) {
	logger.Warn("Primary search engine failed, using fallback: %v", err)
	g.recorder.RecordFallback(fallbackEngineError)
	g.markUnhealthy()
}

func (g *SearchGateway) markUnhealthy() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unhealthyUntil = g.now().Add(g.cfg.UnhealthyCooldown)
}

func (g *SearchGateway) primaryFilter(
	ctx context.Context, filter domain.DocumentFilter, page domain.Pagination,
) (*driven.EngineResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.PrimaryTimeout)
	defer cancel()

	result, err := g.engine.Filter(ctx, filter, page)
	if err != nil {
		return nil, unavailable("filter", err)
	}
	return result, nil
}

func (g *SearchGateway) primaryText(ctx context.Context, query domain.TextQuery, size int) (*driven.EngineResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.PrimaryTimeout)
	defer cancel()

	result, err := g.engine.Search(ctx, query, size)
	if err != nil {
		return nil, unavailable("search", err)
	}
	return result, nil
}

// fallbackFilter returns one page of hits and the unpaginated match count.
func (g *SearchGateway) fallbackFilter(
	ctx context.Context, filter domain.DocumentFilter, page domain.Pagination,
) ([]domain.SearchHit, int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.FallbackTimeout)
	defer cancel()

	docs, err := g.store.Find(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	total, err := g.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	hits := make([]domain.SearchHit, 0, len(docs))
	for i := range docs {
		hits = append(hits, domain.HitFromDocument(&docs[i], nil, nil))
	}
	return hits, total, nil
}

func (g *SearchGateway) fallbackText(ctx context.Context, query domain.TextQuery, size int) ([]domain.SearchHit, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.FallbackTimeout)
	defer cancel()

	matches, err := g.store.TextSearch(ctx, query.Q, query.Filter(), size)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.SearchHit, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		snippet := m.Snippet
		if snippet == "" {
			snippet = domain.Snippet(m.Document.FullText, query.Q, g.cfg.SnippetRadius)
		}
		var highlights []string
		if snippet != "" {
			highlights = []string{snippet}
		}
		hits = append(hits, domain.HitFromDocument(&m.Document, domain.Float64Ptr(m.Score), highlights))
	}
	return hits, nil
}

// unavailable wraps a primary engine error once.
func unavailable(op string, err error) error {
	var engineErr *domain.EngineUnavailableError
	if errors.As(err, &engineErr) {
		return err
	}
	return &domain.EngineUnavailableError{Op: op, Err: err}
}
