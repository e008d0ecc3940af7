// Package export renders judge search results and document summaries as
// XLSX workbooks.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

// Sheet names.
const (
	JudgesSheet  = "Judges"
	SummarySheet = "Summary"
)

const dateLayout = "2006-01-02"

// column is one sheet column: header, width and cell value.
type column[T any] struct {
	header string
	width  float64
	value  func(T) any
}

var judgeColumns = []column[domain.ExtractedJudgeRecord]{
	{"Name", 28, func(r domain.ExtractedJudgeRecord) any { return r.Name }},
	{"Designation", 32, func(r domain.ExtractedJudgeRecord) any { return domain.Deref(r.Designation) }},
	{"Court", 28, func(r domain.ExtractedJudgeRecord) any { return domain.Deref(r.CourtName) }},
	{"Room", 12, func(r domain.ExtractedJudgeRecord) any { return domain.Deref(r.CourtRoom) }},
	{"Meeting Link", 40, func(r domain.ExtractedJudgeRecord) any { return domain.Deref(r.MeetingLink) }},
	{"Meeting ID / Email", 28, func(r domain.ExtractedJudgeRecord) any { return domain.Deref(r.VCMeetingIDOrEmail) }},
	{"Source", 10, func(r domain.ExtractedJudgeRecord) any { return string(r.Provenance.Kind) }},
	{"Complex", 16, func(r domain.ExtractedJudgeRecord) any { return string(r.Provenance.Complex) }},
	{"Zone", 14, func(r domain.ExtractedJudgeRecord) any { return string(r.Provenance.Zone) }},
	{"Document", 36, func(r domain.ExtractedJudgeRecord) any { return r.Provenance.Title }},
	{"Document Date", 14, func(r domain.ExtractedJudgeRecord) any { return formatDate(r.Provenance.DocDate) }},
	{"Score", 10, func(r domain.ExtractedJudgeRecord) any {
		if r.RelevanceScore == nil {
			return ""
		}
		return *r.RelevanceScore
	}},
	{"Link", 60, func(r domain.ExtractedJudgeRecord) any {
		if r.Provenance.BlobURL != "" {
			return r.Provenance.BlobURL
		}
		return r.Provenance.SourceURL
	}},
}

var summaryColumns = []column[domain.GroupSummary]{
	{"Complex", 16, func(g domain.GroupSummary) any { return string(g.Complex) }},
	{"Zone", 14, func(g domain.GroupSummary) any { return string(g.Zone) }},
	{"Category", 26, func(g domain.GroupSummary) any { return string(g.Category) }},
	{"Documents", 12, func(g domain.GroupSummary) any { return g.Count }},
	{"Latest Document Date", 20, func(g domain.GroupSummary) any { return formatDate(g.LatestDocDate) }},
	{"Last Updated", 22, func(g domain.GroupSummary) any { return g.LatestUpdatedAt.UTC().Format(time.RFC3339) }},
}

// JudgesXLSX returns a workbook with one row per judge.
func JudgesXLSX(judges []domain.ExtractedJudgeRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, JudgesSheet, judgeColumns, judges); err != nil {
		return nil, err
	}
	return finish(f)
}

// SummaryXLSX returns a workbook with one row per (complex, zone, category)
// group.
func SummaryXLSX(groups []domain.GroupSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, SummarySheet, summaryColumns, groups); err != nil {
		return nil, err
	}
	return finish(f)
}

func writeSheet[T any](f *excelize.File, sheet string, cols []column[T], rows []T) error {
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, c := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, c.header); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, name, name, c.width)
	}

	for r, row := range rows {
		for i, c := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, cell, c.value(row)); err != nil {
				return fmt.Errorf("xlsx cell %s: %w", cell, err)
			}
		}
	}

	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return nil
}

func finish(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
