package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroster/internal/config"
	"github.com/custodia-labs/lexroster/internal/core/domain"
)

type fixedExtractor struct{ text string }

func (f fixedExtractor) Extract(context.Context, []byte) (*domain.ExtractedText, error) {
	return &domain.ExtractedText{FullText: f.text, Pages: []domain.Page{{PageNumber: 1, Text: f.text}}}, nil
}

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	return cfg
}

func TestNew_Memory(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, memoryConfig(), Options{
		Extractor: fixedExtractor{text: "Sh. Ramesh Kumar, District Judge, Court No. 4, Room 201"},
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close(ctx)) }()

	require.NoError(t, a.Ping(ctx))
	configured, _ := a.Search.EngineStatus()
	assert.False(t, configured)

	doc, err := a.Ingest.Ingest(ctx, domain.IngestRequest{
		Complex:  domain.ComplexTisHazari,
		Zone:     domain.ZoneCentral,
		Category: domain.CategoryJudgesList,
		File:     []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	resp, err := a.Judges.SearchJudges(ctx, domain.JudgeQuery{Q: "Ramesh"})
	require.NoError(t, err)
	assert.Equal(t, domain.EngineFallback, resp.Engine)
	require.NotEmpty(t, resp.Judges)
	assert.Equal(t, doc.ID, resp.Judges[0].Provenance.DocumentID)

	rec := httptest.NewRecorder()
	a.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `lexroster_ingest_total{status="ok"} 1`)
}

func TestNew_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.SQLite.DataDir = t.TempDir()

	a, err := New(ctx, cfg, Options{Extractor: fixedExtractor{text: "roster"}})
	require.NoError(t, err)
	require.NoError(t, a.Ping(ctx))
	require.NoError(t, a.Close(ctx))
}

func TestNew_EngineConfigured(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := memoryConfig()
	cfg.Engine.URL = srv.URL

	a, err := New(ctx, cfg, Options{Extractor: fixedExtractor{text: "roster"}})
	require.NoError(t, err)
	defer a.Close(ctx)

	configured, healthy := a.Search.EngineStatus()
	assert.True(t, configured)
	assert.True(t, healthy)
}

func TestNew_InvalidBlobConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Blob.Bucket = "rosters"
	cfg.Blob.PublicBaseURL = "not a url"

	_, err := New(context.Background(), cfg, Options{Extractor: fixedExtractor{text: "x"}})
	assert.Error(t, err)
}
