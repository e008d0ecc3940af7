package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

func judge(name, court, room string, score *float64) domain.ExtractedJudgeRecord {
	return domain.ExtractedJudgeRecord{
		Name:           name,
		CourtName:      domain.StringPtr(court),
		CourtRoom:      domain.StringPtr(room),
		RelevanceScore: score,
	}
}

func TestMergeJudges_DeduplicatesFirstSeenWins(t *testing.T) {
	fromSearch := []domain.ExtractedJudgeRecord{
		judge("Ramesh Kumar", "Court No. 4", "201", domain.Float64Ptr(2)),
	}
	fromRoster := []domain.ExtractedJudgeRecord{
		judge("  ramesh kumar ", "COURT NO. 4", "201", nil),
		judge("Neha Gupta", "Court No. 2", "12", nil),
	}
	fromRoster[0].Provenance.Kind = domain.ProvenanceRoster

	merged := MergeJudges(fromSearch, fromRoster, 0)
	require.Len(t, merged, 2)
	assert.Equal(t, "Ramesh Kumar", merged[0].Name)
	assert.NotEqual(t, domain.ProvenanceRoster, merged[0].Provenance.Kind, "the search record came first")
	assert.Equal(t, "Neha Gupta", merged[1].Name)
}

func TestMergeJudges_OrdersByScoreWithUnscoredLast(t *testing.T) {
	fromSearch := []domain.ExtractedJudgeRecord{
		judge("Low", "", "", domain.Float64Ptr(1)),
		judge("Unscored A", "", "", nil),
		judge("High", "", "", domain.Float64Ptr(9)),
	}
	fromRoster := []domain.ExtractedJudgeRecord{
		judge("Unscored B", "", "", nil),
		judge("Mid", "", "", domain.Float64Ptr(5)),
	}

	merged := MergeJudges(fromSearch, fromRoster, 10)
	names := make([]string, 0, len(merged))
	for _, rec := range merged {
		names = append(names, rec.Name)
	}
	assert.Equal(t, []string{"High", "Mid", "Low", "Unscored A", "Unscored B"}, names)
}

func TestMergeJudges_SameNameDifferentRoomKept(t *testing.T) {
	merged := MergeJudges([]domain.ExtractedJudgeRecord{
		judge("Ramesh Kumar", "Court No. 4", "201", nil),
		judge("Ramesh Kumar", "Court No. 4", "202", nil),
	}, nil, 0)
	assert.Len(t, merged, 2)
}

func TestMergeJudges_Limit(t *testing.T) {
	var many []domain.ExtractedJudgeRecord
	for _, name := range []string{"A", "B", "C", "D"} {
		many = append(many, judge(name, "", "", nil))
	}
	assert.Len(t, MergeJudges(many, nil, 2), 2)

	var lots []domain.ExtractedJudgeRecord
	for i := 0; i < domain.DefaultJudgeLimit+5; i++ {
		lots = append(lots, judge(string(rune('A'+i)), "", "", nil))
	}
	assert.Len(t, MergeJudges(lots, nil, 0), domain.DefaultJudgeLimit)
}

func TestMergeJudges_Empty(t *testing.T) {
	merged := MergeJudges(nil, nil, 0)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
