package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroster/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexroster/internal/core/domain"
)

func TestDocumentService_SummaryLatest(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	for _, d := range []struct {
		title string
		day   int
	}{{"D1", 1}, {"D3", 3}, {"D2", 2}} {
		_, err := store.Upsert(ctx, &domain.Document{
			Complex: domain.ComplexSaket, Zone: domain.ZoneSouth, Category: domain.CategoryJudgesList,
			Title: d.title, DocDate: ptrDate(2024, 5, d.day), FullText: d.title,
		})
		require.NoError(t, err)
	}

	rec := newCountingRecorder()
	svc := NewDocumentService(store, nil)
	svc.SetRecorder(rec)

	groups, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 3, groups[0].Count)
	require.NotNil(t, groups[0].LatestDocDate)
	assert.Equal(t, 3, groups[0].LatestDocDate.Day())
	assert.Equal(t, 3, rec.documents)

	docs, err := svc.List(ctx, domain.DocumentFilter{Complex: domain.ComplexSaket}, domain.Pagination{})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "D3", docs[0].Title)
}

func TestDocumentService_ListRejectsBadFilter(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil)

	_, err := svc.List(context.Background(), domain.DocumentFilter{
		Complex: domain.ComplexDwarka, Zone: domain.ZoneCBI,
	}, domain.Pagination{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.List(context.Background(), domain.DocumentFilter{
		DateFrom: ptrDate(2024, 2, 1), DateTo: ptrDate(2024, 1, 1),
	}, domain.Pagination{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_GetAndPages(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	doc, err := store.Upsert(ctx, &domain.Document{
		Complex: domain.ComplexDwarka, Zone: domain.ZoneSouthWest, Category: domain.CategoryJudgesOnLeave,
		FullText: "one\n\ntwo",
		Pages:    []domain.Page{{PageNumber: 1, Text: "one"}, {PageNumber: 2, Text: "two"}},
	})
	require.NoError(t, err)

	svc := NewDocumentService(store, nil)
	got, err := svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	pages, err := svc.Pages(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 2, pages[1].PageNumber)

	_, err = svc.Pages(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_DeleteRemovesMirror(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	doc, err := store.Upsert(ctx, &domain.Document{
		Complex: domain.ComplexRouseAvenue, Zone: domain.ZoneCBI, Category: domain.CategoryBailRoster,
		FullText: "bail",
	})
	require.NoError(t, err)
	ref := domain.SearchEngineRef{IndexName: "rosters", ExternalID: doc.ID}
	require.NoError(t, store.AttachSearchEngineRef(ctx, doc.ID, ref))

	engine := &mockEngine{}
	svc := NewDocumentService(store, engine)
	require.NoError(t, svc.Delete(ctx, doc.ID))

	_, err = store.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []domain.SearchEngineRef{ref}, engine.deleted)

	assert.ErrorIs(t, svc.Delete(ctx, doc.ID), domain.ErrNotFound)
}
