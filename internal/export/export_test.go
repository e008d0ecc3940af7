package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

func openWorkbook(t *testing.T, buf []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestJudgesXLSX(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	judges := []domain.ExtractedJudgeRecord{
		{
			Name:        "Ramesh Kumar",
			Designation: domain.StringPtr("Additional Sessions Judge"),
			CourtRoom:   domain.StringPtr("201"),
			MeetingLink: domain.StringPtr("https://vc.example.org/j/123"),
			Provenance: domain.Provenance{
				Kind:    domain.ProvenanceDocument,
				Complex: domain.ComplexRohini,
				Zone:    domain.ZoneNorth,
				Title:   "Bail roster",
				DocDate: &date,
				BlobURL: "s3://rosters/a.pdf",
			},
			RelevanceScore: domain.Float64Ptr(3.5),
		},
		{
			Name:       "Anita Sharma",
			Provenance: domain.Provenance{Kind: domain.ProvenanceRoster, SourceURL: "https://delhicourts.nic.in"},
		},
	}

	buf, err := JudgesXLSX(judges)
	require.NoError(t, err)

	f := openWorkbook(t, buf)
	assert.Equal(t, []string{JudgesSheet}, f.GetSheetList())

	rows, err := f.GetRows(JudgesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, len(judgeColumns), len(rows[0]))

	assert.Equal(t, "Ramesh Kumar", rows[1][0])
	assert.Equal(t, "Additional Sessions Judge", rows[1][1])
	assert.Equal(t, "document", rows[1][6])
	assert.Equal(t, "2025-03-14", rows[1][10])
	assert.Equal(t, "3.5", rows[1][11])
	assert.Equal(t, "s3://rosters/a.pdf", rows[1][12])

	assert.Equal(t, "Anita Sharma", rows[2][0])
	assert.Equal(t, "roster", rows[2][6])
	assert.Equal(t, "https://delhicourts.nic.in", rows[2][12])
}

func TestJudgesXLSX_Empty(t *testing.T) {
	buf, err := JudgesXLSX(nil)
	require.NoError(t, err)

	rows, err := openWorkbook(t, buf).GetRows(JudgesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestSummaryXLSX(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

	buf, err := SummaryXLSX([]domain.GroupSummary{{
		Complex:         domain.ComplexRohini,
		Zone:            domain.ZoneNorth,
		Category:        domain.CategoryBailRoster,
		Count:           4,
		LatestDocDate:   &date,
		LatestUpdatedAt: updated,
	}})
	require.NoError(t, err)

	rows, err := openWorkbook(t, buf).GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ROHINI", "NORTH", "BAIL_ROSTER", "4", "2025-03-14", "2025-03-15T10:30:00Z"}, rows[1])
}
