package mcp

import (
	"context"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	resp       *domain.SearchResponse
	err        error
	lastText   domain.TextQuery
	lastFilter domain.FilterQuery
}

func (m *mockSearchService) FilterSearch(_ context.Context, q domain.FilterQuery) (*domain.SearchResponse, error) {
	m.lastFilter = q
	return m.response(), m.err
}

func (m *mockSearchService) TextSearch(_ context.Context, q domain.TextQuery) (*domain.SearchResponse, error) {
	m.lastText = q
	return m.response(), m.err
}

func (m *mockSearchService) response() *domain.SearchResponse {
	if m.err != nil {
		return nil
	}
	if m.resp == nil {
		return &domain.SearchResponse{Engine: domain.EngineFallback}
	}
	return m.resp
}

// mockJudgeService is a mock implementation of driving.JudgeService.
type mockJudgeService struct {
	resp *domain.JudgeResponse
	err  error
	last domain.JudgeQuery
}

func (m *mockJudgeService) SearchJudges(_ context.Context, q domain.JudgeQuery) (*domain.JudgeResponse, error) {
	m.last = q
	return m.resp, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	document *domain.Document
	groups   []domain.GroupSummary
	err      error
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(
	_ context.Context, _ domain.DocumentFilter, _ domain.Pagination,
) ([]domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) Pages(_ context.Context, _ string) ([]domain.Page, error) {
	if m.document == nil {
		return nil, m.err
	}
	return m.document.Pages, m.err
}

func (m *mockDocumentService) Summary(_ context.Context) ([]domain.GroupSummary, error) {
	return m.groups, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockRosterService is a mock implementation of driving.RosterService.
type mockRosterService struct {
	records   []domain.RosterRecord
	err       error
	lastQuery string
	lastLimit int
}

func (m *mockRosterService) Upsert(_ context.Context, rec domain.RosterRecord) (*domain.RosterRecord, error) {
	return &rec, m.err
}

func (m *mockRosterService) Get(_ context.Context, _ string) (*domain.RosterRecord, error) {
	return nil, domain.NewNotFoundError("roster", "x")
}

func (m *mockRosterService) List(_ context.Context, _ domain.Pagination) ([]domain.RosterRecord, error) {
	return m.records, m.err
}

func (m *mockRosterService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockRosterService) Search(_ context.Context, query string, limit int) ([]domain.RosterRecord, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.records, m.err
}
