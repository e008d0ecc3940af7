package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

func TestFromDocument(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	d := FromDocument(&domain.Document{
		ID:              "doc-1",
		Complex:         domain.ComplexRohini,
		Zone:            domain.ZoneNorth,
		Category:        domain.CategoryBailRoster,
		DocDate:         &date,
		Pages:           []domain.Page{{PageNumber: 1, Text: "a"}, {PageNumber: 2, Text: "b"}},
		SearchEngineRef: &domain.SearchEngineRef{IndexName: "rosters", ExternalID: "doc-1"},
	})

	assert.Equal(t, "2025-03-14", d.DocDate)
	assert.Equal(t, 2, d.PageCount)
	require.NotNil(t, d.SearchEngineRef)
	assert.Equal(t, "rosters", d.SearchEngineRef.IndexName)
}

func TestSearchResponse_JSON(t *testing.T) {
	resp := FromSearchResponse(&domain.SearchResponse{
		Engine: domain.EngineFallback,
		Total:  1,
		Hits:   []domain.SearchHit{{DocumentID: "doc-1", Complex: domain.ComplexSaket}},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "fallback", decoded["engine"])

	hit := decoded["hits"].([]any)[0].(map[string]any)
	assert.Equal(t, "doc-1", hit["documentId"])
	assert.Nil(t, hit["score"], "unscored hits render an explicit null")
	assert.Equal(t, []any{}, hit["highlights"])
}

func TestFromJudgeResponse(t *testing.T) {
	resp := FromJudgeResponse(&domain.JudgeResponse{
		Engine: domain.EnginePrimary,
		Judges: []domain.ExtractedJudgeRecord{{
			Name:       "Ramesh Kumar",
			CourtRoom:  domain.StringPtr("201"),
			Provenance: domain.Provenance{Kind: domain.ProvenanceRoster, RosterID: "r-1"},
		}},
	})

	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "201", *resp.Judges[0].CourtRoom)
	assert.Equal(t, "r-1", resp.Judges[0].Provenance.RosterID)
	assert.Nil(t, resp.Judges[0].RelevanceScore)
}

func TestCurrentTopology(t *testing.T) {
	topo := CurrentTopology()

	assert.Len(t, topo.Complexes, 7)
	assert.Len(t, topo.Categories, 4)

	zones := 0
	for _, c := range topo.Complexes {
		zones += len(c.Zones)
		if c.Complex == domain.ComplexKarkardooma {
			assert.Len(t, c.Zones, 3)
		}
	}
	assert.Equal(t, 12, zones)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("docDate", "")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDate("docDate", "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 14, got.Day())

	got, err = ParseDate("docDate", "2025-03-14T10:00:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	_, err = ParseDate("docDate", "14/03/2025")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
