package services

import (
	"sort"
	"strings"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// MergeJudges combines judges recovered from search hits with structured
// roster matches.
//
// Records are de-duplicated on lower-cased (name, courtName, courtRoom),
// keeping the first occurrence, then ordered by relevance score with
// unscored records last. Ties keep first-seen order. At most limit records
// are returned; a non-positive limit means domain.DefaultJudgeLimit.
func MergeJudges(fromSearch, fromRoster []domain.ExtractedJudgeRecord, limit int) []domain.ExtractedJudgeRecord {
	if limit <= 0 {
		limit = domain.DefaultJudgeLimit
	}

	seen := make(map[string]struct{}, len(fromSearch)+len(fromRoster))
	merged := make([]domain.ExtractedJudgeRecord, 0, len(fromSearch)+len(fromRoster))
	for _, list := range [][]domain.ExtractedJudgeRecord{fromSearch, fromRoster} {
		for _, rec := range list {
			key := judgeKey(rec)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, rec)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i].RelevanceScore, merged[j].RelevanceScore
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func judgeKey(rec domain.ExtractedJudgeRecord) string {
	return strings.Join([]string{
		fold(rec.Name), fold(domain.Deref(rec.CourtName)), fold(domain.Deref(rec.CourtRoom)),
	}, "\x1f")
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
