package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument_UniqueKey(t *testing.T) {
	doc := &Document{
		Complex:  ComplexRohini,
		Zone:     ZoneNorth,
		Category: CategoryJudgesList,
		Title:    "Judges list",
	}

	_, ok := doc.UniqueKey()
	assert.False(t, ok, "no blob url means no uniqueness")

	doc.BlobURL = "https://blobs.example/a.pdf"
	k1, ok := doc.UniqueKey()
	assert.True(t, ok)

	other := *doc
	other.Title = "Judges list (revised)"
	k2, _ := other.UniqueKey()
	assert.NotEqual(t, k1, k2)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", TruncateRunes("abc", 0))
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "ab", TruncateRunes("abc", 2))
	assert.Equal(t, "न्या", TruncateRunes("न्यायालय", 4))
	assert.Equal(t, "héllo", TruncateRunes("héllo", 5))
}

func TestExtractedText_Empty(t *testing.T) {
	var nilText *ExtractedText
	assert.True(t, nilText.Empty())
	assert.True(t, (&ExtractedText{FullText: " \n\t"}).Empty())
	assert.False(t, (&ExtractedText{FullText: "x"}).Empty())
}

func TestDocumentFilter_Matches(t *testing.T) {
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	doc := &Document{Complex: ComplexSaket, Zone: ZoneSouth, Category: CategoryBailRoster, DocDate: &d1}

	before := d1.AddDate(0, 0, -1)
	after := d1.AddDate(0, 0, 1)

	tests := []struct {
		name   string
		filter DocumentFilter
		want   bool
	}{
		{"empty", DocumentFilter{}, true},
		{"complex", DocumentFilter{Complex: ComplexSaket}, true},
		{"other zone", DocumentFilter{Zone: ZoneSouthEast}, false},
		{"category", DocumentFilter{Category: CategoryBailRoster}, true},
		{"date in range", DocumentFilter{DateFrom: &before, DateTo: &after}, true},
		{"date before range", DocumentFilter{DateFrom: &after}, false},
		{"date after range", DocumentFilter{DateTo: &before}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(doc))
		})
	}

	undated := &Document{Complex: ComplexSaket}
	assert.False(t, DocumentFilter{DateFrom: &before}.Matches(undated))
}

func TestDocumentFilter_IsEmpty(t *testing.T) {
	now := time.Now()
	assert.True(t, DocumentFilter{}.IsEmpty())
	assert.True(t, DocumentFilter{DateFrom: &now}.IsEmpty())
	assert.False(t, DocumentFilter{Zone: ZoneCBI}.IsEmpty())
}

func TestPagination_Normalised(t *testing.T) {
	assert.Equal(t, Pagination{Skip: 0, Limit: DefaultListLimit}, Pagination{Skip: -3}.Normalised())
	assert.Equal(t, Pagination{Skip: 5, Limit: 7}, Pagination{Skip: 5, Limit: 7}.Normalised())
}

func TestNewerFirst(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	dated := &Document{DocDate: &late}
	older := &Document{DocDate: &early, UpdatedAt: late}
	undated := &Document{UpdatedAt: late.Add(time.Hour)}

	assert.True(t, NewerFirst(dated, older))
	assert.False(t, NewerFirst(older, dated))
	assert.True(t, NewerFirst(older, undated), "undated documents sort last")
	assert.False(t, NewerFirst(undated, older))

	sameDayA := &Document{DocDate: &early, UpdatedAt: late}
	sameDayB := &Document{DocDate: &early, UpdatedAt: early}
	assert.True(t, NewerFirst(sameDayA, sameDayB))
	assert.False(t, NewerFirst(sameDayB, sameDayA))
}
