package domain

import (
	"strings"
	"time"
)

// RosterRecord is roster data entered directly as fields rather than
// recovered from PDF text.
type RosterRecord struct {
	ID           string
	Name         string
	Designation  string
	Jurisdiction string
	CourtName    string
	CourtRoom    string
	VCLink       string
	VCMeetingID  string
	VCEmail      string
	District     string
	Zone         string
	Location     string
	Source       RosterSource

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RosterSource records where roster data was captured from.
type RosterSource struct {
	Name       string
	URL        string
	CapturedAt *time.Time
}

// UniqueKey identifies a roster record for upserts: name, court name,
// court room and VC link, compared case-insensitively.
func (r *RosterRecord) UniqueKey() string {
	return strings.Join([]string{
		foldKey(r.Name), foldKey(r.CourtName), foldKey(r.CourtRoom), foldKey(r.VCLink),
	}, "\x1f")
}

// Validate checks the minimum fields of a roster record.
func (r *RosterRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name", "is required")
	}
	return nil
}

// MatchesQuery reports whether q occurs in any searchable field.
func (r *RosterRecord) MatchesQuery(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, field := range []string{r.Name, r.Designation, r.CourtName, r.CourtRoom, r.District, r.Zone, r.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// ToJudgeRecord converts the roster record into the extracted-record view.
// Roster hits carry no relevance score.
func (r *RosterRecord) ToJudgeRecord() ExtractedJudgeRecord {
	vc := r.VCMeetingID
	if vc == "" {
		vc = r.VCEmail
	}
	return ExtractedJudgeRecord{
		Name:               r.Name,
		Designation:        StringPtr(r.Designation),
		CourtName:          StringPtr(r.CourtName),
		CourtRoom:          StringPtr(r.CourtRoom),
		MeetingLink:        StringPtr(r.VCLink),
		VCMeetingIDOrEmail: StringPtr(vc),
		Provenance: Provenance{
			Kind:      ProvenanceRoster,
			RosterID:  r.ID,
			Zone:      Zone(r.Zone),
			SourceURL: r.Source.URL,
		},
	}
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
