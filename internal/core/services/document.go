package services

import (
	"context"
	"time"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
	"github.com/custodia-labs/lexroster/internal/core/ports/driving"
	"github.com/custodia-labs/lexroster/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes stored documents.
type DocumentService struct {
	docStore driven.DocumentStore
	engine   driven.PrimaryEngine
	recorder Recorder
}

// NewDocumentService creates a new document service.
// The engine parameter is optional (can be nil).
func NewDocumentService(docStore driven.DocumentStore, engine driven.PrimaryEngine) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		engine:   engine,
		recorder: nopRecorder{},
	}
}

// SetRecorder sets the recorder for document counts.
func (s *DocumentService) SetRecorder(r Recorder) {
	s.recorder = recorderOrNop(r)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.Get(ctx, documentID)
}

// List returns documents matching filter, newest first.
func (s *DocumentService) List(
	ctx context.Context, filter domain.DocumentFilter, page domain.Pagination,
) ([]domain.Document, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.docStore.Find(ctx, filter, page.Normalised())
}

// Pages returns the per-page text of a document.
func (s *DocumentService) Pages(ctx context.Context, documentID string) ([]domain.Page, error) {
	doc, err := s.docStore.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return doc.Pages, nil
}

// Summary returns per (complex, zone, category) counts and latest dates.
func (s *DocumentService) Summary(ctx context.Context) ([]domain.GroupSummary, error) {
	groups, err := s.docStore.Summarize(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, g := range groups {
		total += g.Count
	}
	s.recorder.SetDocuments(total)
	return groups, nil
}

// Delete removes a document and, best effort, its primary engine mirror.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	doc, err := s.docStore.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.docStore.Delete(ctx, documentID); err != nil {
		return err
	}

	if s.engine != nil && doc.SearchEngineRef != nil {
		engineCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.engine.DeleteDocument(engineCtx, *doc.SearchEngineRef); err != nil {
			logger.Warn("Removing document %s from the search engine failed: %v", documentID, err)
		}
	}
	return nil
}
