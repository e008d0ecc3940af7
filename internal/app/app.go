// Package app assembles lexroster from its configuration: it opens the
// document store, connects the optional primary engine and blob store, and
// builds the services every driving adapter shares.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/lexroster/internal/adapters/driven/blob/s3"
	"github.com/custodia-labs/lexroster/internal/adapters/driven/fetch/httpfetch"
	"github.com/custodia-labs/lexroster/internal/adapters/driven/searchengine/elastic"
	"github.com/custodia-labs/lexroster/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexroster/internal/adapters/driven/storage/mongo"
	"github.com/custodia-labs/lexroster/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexroster/internal/config"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
	"github.com/custodia-labs/lexroster/internal/core/services"
	"github.com/custodia-labs/lexroster/internal/logger"
	"github.com/custodia-labs/lexroster/internal/metrics"
	"github.com/custodia-labs/lexroster/internal/normalisers/pdf"
)

// App holds the wired services and the resources behind them.
type App struct {
	Config *config.Config

	Ingest    *services.IngestService
	Documents *services.DocumentService
	Search    *services.SearchGateway
	Judges    *services.JudgeService
	Rosters   *services.RosterService

	Metrics *metrics.Metrics

	docs    driven.DocumentStore
	rosters driven.RosterStore
	ping    func(context.Context) error
	closers []func(context.Context) error
}

// Options overrides components, mainly for tests.
type Options struct {
	// Extractor replaces the pdftotext extractor.
	Extractor driven.TextExtractor
}

// New builds an App from cfg.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{Config: cfg, Metrics: metrics.New()}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	engine, err := a.openEngine(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	blobs, err := a.openBlobStore(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	extractor := opts.Extractor
	if extractor == nil {
		if err := pdf.CheckAvailable(); err != nil {
			logger.Warn("%v\n%s", err, pdf.InstallInstructions())
		}
		extractor = pdf.New()
	}

	fetcher := httpfetch.New(httpfetch.Config{
		Timeout:           cfg.Fetch.Timeout.Duration,
		MaxBytes:          cfg.Fetch.MaxBytes,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
	})

	a.Search = services.NewSearchGateway(a.docs, engine, cfg.SearchSettings())
	a.Search.SetRecorder(a.Metrics)

	a.Ingest = services.NewIngestService(a.docs, extractor, engine, blobs, fetcher, services.IngestConfig{
		MirrorTimeout: cfg.Ingest.MirrorTimeout.Duration,
		BlobPrefix:    cfg.Blob.Prefix,
	})
	a.Ingest.SetRecorder(a.Metrics)

	a.Documents = services.NewDocumentService(a.docs, engine)
	a.Documents.SetRecorder(a.Metrics)

	a.Rosters = services.NewRosterService(a.rosters)
	a.Judges = services.NewJudgeService(a.Search, a.docs, a.rosters, nil)

	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Config.Store.Backend {
	case config.BackendMemory:
		a.docs = memory.NewDocumentStore()
		a.rosters = memory.NewRosterStore()
		a.ping = func(context.Context) error { return nil }

	case config.BackendMongo:
		store, err := mongo.NewStore(ctx, mongo.Config{
			URI:            a.Config.Mongo.URI,
			Database:       a.Config.Mongo.Database,
			ConnectTimeout: a.Config.Mongo.ConnectTimeout.Duration,
		})
		if err != nil {
			return fmt.Errorf("open mongo store: %w", err)
		}
		a.docs = store.DocumentStore()
		a.rosters = store.RosterStore()
		a.ping = store.Ping
		a.closers = append(a.closers, store.Close)
		logger.Debug("Using MongoDB database %s", a.Config.Mongo.Database)

	default:
		store, err := sqlite.NewStore(a.Config.SQLite.DataDir)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		a.docs = store.DocumentStore()
		a.rosters = store.RosterStore()
		a.ping = store.Ping
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		logger.Debug("Using SQLite store at %s", store.Path())
	}
	return nil
}

// openEngine returns the primary engine, or nil when none is configured.
// An unreachable engine is not fatal; the gateway falls back.
func (a *App) openEngine(ctx context.Context) (driven.PrimaryEngine, error) {
	ec := a.Config.Engine
	if !ec.Enabled() {
		logger.Debug("No primary search engine configured; using the document store")
		return nil, nil
	}

	engine, err := elastic.New(elastic.Config{
		BaseURL:           ec.URL,
		Index:             ec.Index,
		Username:          ec.Username,
		Password:          ec.Password,
		APIKey:            ec.APIKey,
		Timeout:           ec.Timeout.Duration,
		RequestsPerSecond: ec.RequestsPerSecond,
		Burst:             ec.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("configure search engine: %w", err)
	}

	ensureCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := engine.EnsureIndex(ensureCtx); err != nil {
		logger.Warn("Search engine index %s not ready: %v", engine.Index(), err)
	}
	return engine, nil
}

// openBlobStore returns the blob store, or nil when none is configured.
func (a *App) openBlobStore(ctx context.Context) (driven.BlobStore, error) {
	bc := a.Config.Blob
	if !bc.Enabled() {
		return nil, nil
	}
	store, err := s3.NewStore(ctx, s3.Config{
		Bucket:          bc.Bucket,
		Region:          bc.Region,
		Endpoint:        bc.Endpoint,
		AccessKeyID:     bc.AccessKeyID,
		SecretAccessKey: bc.SecretAccessKey,
		PublicBaseURL:   bc.PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("configure blob store: %w", err)
	}
	return store, nil
}

// Ping checks the document store.
func (a *App) Ping(ctx context.Context) error {
	return a.ping(ctx)
}

// MetricsHandler serves the Prometheus registry.
func (a *App) MetricsHandler() http.Handler {
	return a.Metrics.Handler()
}

// Close waits for background mirrors and releases the store.
func (a *App) Close(ctx context.Context) error {
	if a.Ingest != nil {
		a.Ingest.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
