package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
	"github.com/custodia-labs/lexroster/internal/core/ports/driving"
	"github.com/custodia-labs/lexroster/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Ingest outcomes reported to the recorder.
const (
	ingestOK         = "ok"
	ingestInvalid    = "invalid"
	ingestFetchError = "fetch_error"
	ingestParseError = "parse_error"
	ingestStoreError = "store_error"
)

// Mirror outcomes reported to the recorder.
const (
	mirrorOK    = "ok"
	mirrorError = "error"
)

// IngestConfig tunes ingestion.
type IngestConfig struct {
	// MirrorTimeout bounds each background mirror into the primary engine.
	MirrorTimeout time.Duration

	// BlobPrefix is prepended to generated blob keys.
	BlobPrefix string
}

// DefaultIngestConfig returns the stock ingestion settings.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		MirrorTimeout: 5 * time.Second,
		BlobPrefix:    "rosters",
	}
}

// IngestService runs the extract, validate, persist, mirror pipeline.
type IngestService struct {
	store     driven.DocumentStore
	extractor driven.TextExtractor
	engine    driven.PrimaryEngine
	blobs     driven.BlobStore
	fetcher   driven.Fetcher
	cfg       IngestConfig
	recorder  Recorder

	mirrors sync.WaitGroup
}

// NewIngestService creates an ingest service.
// The engine, blobs and fetcher parameters are optional (can be nil).
func NewIngestService(
	store driven.DocumentStore,
	extractor driven.TextExtractor,
	engine driven.PrimaryEngine,
	blobs driven.BlobStore,
	fetcher driven.Fetcher,
	cfg IngestConfig,
) *IngestService {
	if cfg.MirrorTimeout <= 0 {
		cfg.MirrorTimeout = DefaultIngestConfig().MirrorTimeout
	}
	return &IngestService{
		store:     store,
		extractor: extractor,
		engine:    engine,
		blobs:     blobs,
		fetcher:   fetcher,
		cfg:       cfg,
		recorder:  nopRecorder{},
	}
}

// SetRecorder sets the recorder for ingestion measurements.
func (s *IngestService) SetRecorder(r Recorder) {
	s.recorder = recorderOrNop(r)
}

// Ingest extracts text from the request's content, validates placement,
// and upserts the document. Mirroring into the primary engine happens in
// the background and never affects the result.
func (s *IngestService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.Document, error) {
	logger.Section("Ingest")

	source, err := req.Validate()
	if err != nil {
		logger.Debug("Rejected ingest: %v", err)
		s.recorder.RecordIngest(ingestInvalid)
		return nil, err
	}
	logger.Debug("Ingest %s/%s/%s from %s", req.Complex, req.Zone, req.Category, source)

	buf, err := s.content(ctx, req, source)
	if err != nil {
		s.recorder.RecordIngest(ingestFetchError)
		return nil, err
	}

	text, err := s.extractor.Extract(ctx, buf)
	if err != nil {
		s.recorder.RecordIngest(ingestParseError)
		return nil, err
	}
	if text.Empty() {
		s.recorder.RecordIngest(ingestParseError)
		return nil, &domain.ParseError{Reason: "document has no extractable text"}
	}
	logger.Debug("Extracted %d pages, %d chars", len(text.Pages), len(text.FullText))

	doc := &domain.Document{
		Complex:   req.Complex,
		Zone:      req.Zone,
		Category:  req.Category,
		Title:     strings.TrimSpace(req.Title),
		DocDate:   req.DocDate,
		SourceURL: req.SourceURL,
		BlobURL:   req.BlobURL,
		BlobKey:   req.BlobKey,
		FullText:  text.FullText,
		Pages:     text.Pages,
	}

	if source == domain.ContentFromFile && doc.BlobURL == "" {
		s.pushBlob(ctx, doc, req, buf)
	}

	stored, err := s.store.Upsert(ctx, doc)
	if err != nil {
		s.recorder.RecordIngest(ingestStoreError)
		return nil, fmt.Errorf("store document: %w", err)
	}
	logger.Info("Ingested document %s (%s/%s/%s, %d pages)",
		stored.ID, stored.Complex, stored.Zone, stored.Category, len(stored.Pages))
	s.recorder.RecordIngest(ingestOK)

	s.mirror(stored)
	return stored, nil
}

// Wait blocks until every background mirror has finished.
func (s *IngestService) Wait() {
	s.mirrors.Wait()
}

// content reads the document bytes from the request's source.
func (s *IngestService) content(ctx context.Context, req domain.IngestRequest, source domain.ContentSource) ([]byte, error) {
	switch source {
	case domain.ContentFromFile:
		return req.File, nil

	case domain.ContentFromSource:
		return s.fetch(ctx, req.SourceURL)

	case domain.ContentFromBlob:
		if req.BlobKey != "" && s.blobs != nil {
			buf, err := s.blobs.Get(ctx, req.BlobKey)
			if err != nil {
				return nil, fmt.Errorf("%w: blob %s: %v", domain.ErrFetch, req.BlobKey, err)
			}
			return buf, nil
		}
		return s.fetch(ctx, req.BlobURL)

	default:
		return nil, domain.NewValidationError("file", "unknown content source %q", source)
	}
}

func (s *IngestService) fetch(ctx context.Context, url string) ([]byte, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: remote fetching is not configured", domain.ErrFetch)
	}
	buf, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, domain.ErrFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetch, url, err)
	}
	return buf, nil
}

// pushBlob stores uploaded bytes in the blob store. The key is derived from
// the content so the same upload always maps to the same blob URL, which
// keeps re-ingestion idempotent. Failures are logged and the document is
// stored without blob references.
func (s *IngestService) pushBlob(ctx context.Context, doc *domain.Document, req domain.IngestRequest, buf []byte) {
	if s.blobs == nil {
		return
	}

	key := req.BlobKey
	if key == "" {
		key = BlobKey(s.cfg.BlobPrefix, req.Complex, req.Zone, req.Category, buf)
	}

	url, err := s.blobs.Put(ctx, key, buf)
	if err != nil {
		logger.Warn("Blob upload of %s failed, storing without blob reference: %v", key, err)
		return
	}
	doc.BlobURL = url
	doc.BlobKey = key
}

// BlobKey builds a content-addressed key for an uploaded document.
func BlobKey(prefix string, complex domain.Complex, zone domain.Zone, category domain.Category, buf []byte) string {
	sum := sha256.Sum256(buf)
	return path.Join(prefix, string(complex), string(zone), string(category), hex.EncodeToString(sum[:])+".pdf")
}

// mirror indexes doc into the primary engine in the background and records
// the engine reference on success.
func (s *IngestService) mirror(stored *domain.Document) {
	if s.engine == nil {
		return
	}

	doc := *stored
	s.mirrors.Add(1)
	go func() {
		defer s.mirrors.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.MirrorTimeout)
		defer cancel()

		ref, err := s.engine.IndexDocument(ctx, &doc)
		if err != nil {
			logger.Warn("Mirror of document %s failed: %v", doc.ID, err)
			s.recorder.RecordMirror(mirrorError)
			return
		}
		if err := s.store.AttachSearchEngineRef(ctx, doc.ID, ref); err != nil {
			logger.Warn("Recording search engine reference for %s failed: %v", doc.ID, err)
			s.recorder.RecordMirror(mirrorError)
			return
		}
		logger.Debug("Mirrored document %s as %s/%s", doc.ID, ref.IndexName, ref.ExternalID)
		s.recorder.RecordMirror(mirrorOK)
	}()
}
