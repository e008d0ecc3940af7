package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func rosterDoc(title, blobURL string, docDate *time.Time, text string) *domain.Document {
	return &domain.Document{
		Complex:  domain.ComplexTisHazari,
		Zone:     domain.ZoneCentral,
		Category: domain.CategoryJudgesList,
		Title:    title,
		BlobURL:  blobURL,
		DocDate:  docDate,
		FullText: text,
		Pages:    []domain.Page{{PageNumber: 1, Text: text}},
	}
}

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.documents)
	assert.NotNil(t, store.byKey)
}

func TestDocumentStore_Upsert_Insert(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	saved, err := store.Upsert(ctx, rosterDoc("April", "s3://b/april.pdf", date(2024, 4, 1), "Sh. A B"))
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "April", got.Title)
	assert.Equal(t, "Sh. A B", got.FullText)
}

func TestDocumentStore_Upsert_InvalidHierarchy(t *testing.T) {
	store := NewDocumentStore()

	doc := rosterDoc("x", "", nil, "text")
	doc.Zone = domain.ZoneSouth

	_, err := store.Upsert(context.Background(), doc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	docs, err := store.Find(context.Background(), domain.DocumentFilter{}, domain.Pagination{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentStore_Upsert_IdempotentOnKey(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	first, err := store.Upsert(ctx, rosterDoc("April", "s3://b/april.pdf", date(2024, 4, 1), "old text"))
	require.NoError(t, err)
	require.NoError(t, store.AttachSearchEngineRef(ctx, first.ID, domain.SearchEngineRef{IndexName: "docs", ExternalID: first.ID}))

	second, err := store.Upsert(ctx, rosterDoc("April", "s3://b/april.pdf", date(2024, 4, 2), "new text"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "new text", second.FullText)
	assert.Equal(t, date(2024, 4, 2), second.DocDate)
	require.NotNil(t, second.SearchEngineRef, "engine reference is kept when unspecified")
	assert.Equal(t, "docs", second.SearchEngineRef.IndexName)

	docs, err := store.Find(ctx, domain.DocumentFilter{}, domain.Pagination{})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentStore_Upsert_NoBlobURLNoUniqueness(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	a, err := store.Upsert(ctx, rosterDoc("April", "", nil, "a"))
	require.NoError(t, err)
	b, err := store.Upsert(ctx, rosterDoc("April", "", nil, "b"))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestDocumentStore_Upsert_ConcurrentSameKey(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := store.Upsert(ctx, rosterDoc("Same", "s3://b/same.pdf", nil, fmt.Sprintf("v%d", i)))
			if err == nil {
				ids[i] = doc.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	docs, err := store.Find(ctx, domain.DocumentFilter{}, domain.Pagination{})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentStore_Get_NotFound(t *testing.T) {
	_, err := NewDocumentStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Get_ReturnsCopy(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	saved, err := store.Upsert(ctx, rosterDoc("April", "", nil, "text"))
	require.NoError(t, err)

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	got.Pages[0].Text = "mutated"

	again, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "text", again.Pages[0].Text)
}

func TestDocumentStore_Find_OrderAndPaging(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_, err := store.Upsert(ctx, rosterDoc("undated", "", nil, "x"))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, rosterDoc("march", "", date(2024, 3, 1), "x"))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, rosterDoc("may", "", date(2024, 5, 1), "x"))
	require.NoError(t, err)

	other := rosterDoc("saket", "", date(2024, 6, 1), "x")
	other.Complex, other.Zone = domain.ComplexSaket, domain.ZoneSouth
	_, err = store.Upsert(ctx, other)
	require.NoError(t, err)

	docs, err := store.Find(ctx, domain.DocumentFilter{Complex: domain.ComplexTisHazari}, domain.Pagination{})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "may", docs[0].Title)
	assert.Equal(t, "march", docs[1].Title)
	assert.Equal(t, "undated", docs[2].Title)

	docs, err = store.Find(ctx, domain.DocumentFilter{}, domain.Pagination{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "may", docs[0].Title)
	assert.Equal(t, "march", docs[1].Title)

	docs, err = store.Find(ctx, domain.DocumentFilter{DateFrom: date(2024, 4, 1), DateTo: date(2024, 5, 31)}, domain.Pagination{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "may", docs[0].Title)

	docs, err = store.Find(ctx, domain.DocumentFilter{}, domain.Pagination{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, docs)

	count, err := store.Count(ctx, domain.DocumentFilter{Complex: domain.ComplexTisHazari})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = store.Count(ctx, domain.DocumentFilter{DateFrom: date(2024, 4, 1)})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDocumentStore_Summarize(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, d := range []*time.Time{date(2024, 1, 1), date(2024, 3, 1), date(2024, 2, 1)} {
		_, err := store.Upsert(ctx, rosterDoc(d.Format("Jan"), "", d, "x"))
		require.NoError(t, err)
	}
	bail := rosterDoc("bail", "", nil, "x")
	bail.Category = domain.CategoryBailRoster
	_, err := store.Upsert(ctx, bail)
	require.NoError(t, err)

	groups, err := store.Summarize(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, domain.CategoryBailRoster, groups[0].Category)
	assert.Equal(t, 1, groups[0].Count)
	assert.Nil(t, groups[0].LatestDocDate)

	judges := groups[1]
	assert.Equal(t, domain.CategoryJudgesList, judges.Category)
	assert.Equal(t, 3, judges.Count)
	require.NotNil(t, judges.LatestDocDate)
	assert.Equal(t, *date(2024, 3, 1), *judges.LatestDocDate)
	assert.False(t, judges.LatestUpdatedAt.IsZero())
}

func TestDocumentStore_TextSearch(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_, err := store.Upsert(ctx, rosterDoc("Judges list", "", nil, "Sh. Rajesh Sharma, Room 12. Sh. Sharma also sits in Room 14."))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, rosterDoc("Sharma roster", "", nil, "Sh. Anil Sharma"))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, rosterDoc("Other", "", nil, "Smt. Neha Gupta"))
	require.NoError(t, err)

	matches, err := store.TextSearch(ctx, "sharma", domain.DocumentFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Sharma roster", matches[0].Document.Title, "title hits weigh more")
	assert.Greater(t, matches[0].Score, matches[1].Score)
	assert.Contains(t, matches[1].Snippet, "Sharma")

	matches, err = store.TextSearch(ctx, "rajesh sharma", domain.DocumentFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1, "every term must match")

	matches, err = store.TextSearch(ctx, "sharma", domain.DocumentFilter{}, 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	matches, err = store.TextSearch(ctx, "sharma", domain.DocumentFilter{Category: domain.CategoryBailRoster}, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = store.TextSearch(ctx, "   ", domain.DocumentFilter{}, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDocumentStore_AttachSearchEngineRef_NotFound(t *testing.T) {
	err := NewDocumentStore().AttachSearchEngineRef(context.Background(), "missing", domain.SearchEngineRef{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Delete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	saved, err := store.Upsert(ctx, rosterDoc("April", "s3://b/april.pdf", nil, "x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, saved.ID))
	_, err = store.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, saved.ID), domain.ErrNotFound)

	// The key is free again.
	again, err := store.Upsert(ctx, rosterDoc("April", "s3://b/april.pdf", nil, "x"))
	require.NoError(t, err)
	assert.NotEqual(t, saved.ID, again.ID)
}
