// Package rosterjson decodes and encodes structured roster records as JSON.
//
// Payloads are validated against an embedded JSON schema before they are
// converted, so the HTTP API and the CLI import reject the same inputs with
// the same messages.
package rosterjson

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/lexroster/internal/core/domain"
)

//go:embed schema.json
var schemaJSON []byte

const schemaName = "roster.schema.json"

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaName, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaName)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// Record is the JSON form of a roster record.
type Record struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	Designation  string  `json:"designation,omitempty"`
	Jurisdiction string  `json:"jurisdiction,omitempty"`
	CourtName    string  `json:"courtName,omitempty"`
	CourtRoom    string  `json:"courtRoom,omitempty"`
	VCLink       string  `json:"vcLink,omitempty"`
	VCMeetingID  string  `json:"vcMeetingId,omitempty"`
	VCEmail      string  `json:"vcEmail,omitempty"`
	District     string  `json:"district,omitempty"`
	Zone         string  `json:"zone,omitempty"`
	Location     string  `json:"location,omitempty"`
	Source       *Source `json:"source,omitempty"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

// Source is the JSON form of a roster source.
type Source struct {
	Name       string `json:"name,omitempty"`
	URL        string `json:"url,omitempty"`
	CapturedAt string `json:"capturedAt,omitempty"`
}

// Decode validates data and returns the records it holds. data may be a
// single record object or a non-empty array of them. Each record is
// validated against the schema; invalid payloads return a
// *domain.ValidationError naming the first failing field.
func Decode(data []byte) ([]domain.RosterRecord, error) {
	schema, err := compiled()
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("[")) {
		trimmed = append(append([]byte("["), trimmed...), ']')
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, domain.NewValidationError("body", "invalid JSON: %v", err)
	}
	if len(raws) == 0 {
		return nil, domain.NewValidationError("body", "at least one record is required")
	}

	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, domain.NewValidationError("body", "invalid JSON: %v", err)
		}
		if err := schema.Validate(v); err != nil {
			return nil, domain.NewValidationError(fieldOf(err, i, len(raws) > 1), "%s", reasonOf(err))
		}
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, domain.NewValidationError("body", "invalid record: %v", err)
		}
		records = append(records, r)
	}

	out := make([]domain.RosterRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

// ToDomain converts the JSON record. Timestamps are ignored; the store
// maintains them. CapturedAt is trusted to be RFC 3339 after validation.
func (r Record) ToDomain() domain.RosterRecord {
	rec := domain.RosterRecord{
		ID:           r.ID,
		Name:         r.Name,
		Designation:  r.Designation,
		Jurisdiction: r.Jurisdiction,
		CourtName:    r.CourtName,
		CourtRoom:    r.CourtRoom,
		VCLink:       r.VCLink,
		VCMeetingID:  r.VCMeetingID,
		VCEmail:      r.VCEmail,
		District:     r.District,
		Zone:         r.Zone,
		Location:     r.Location,
	}
	if r.Source != nil {
		rec.Source.Name = r.Source.Name
		rec.Source.URL = r.Source.URL
		if t, err := time.Parse(time.RFC3339, r.Source.CapturedAt); err == nil {
			rec.Source.CapturedAt = &t
		}
	}
	return rec
}

// FromDomain converts a stored record to its JSON form.
func FromDomain(rec *domain.RosterRecord) Record {
	r := Record{
		ID:           rec.ID,
		Name:         rec.Name,
		Designation:  rec.Designation,
		Jurisdiction: rec.Jurisdiction,
		CourtName:    rec.CourtName,
		CourtRoom:    rec.CourtRoom,
		VCLink:       rec.VCLink,
		VCMeetingID:  rec.VCMeetingID,
		VCEmail:      rec.VCEmail,
		District:     rec.District,
		Zone:         rec.Zone,
		Location:     rec.Location,
		CreatedAt:    formatTime(rec.CreatedAt),
		UpdatedAt:    formatTime(rec.UpdatedAt),
	}
	if rec.Source.Name != "" || rec.Source.URL != "" || rec.Source.CapturedAt != nil {
		r.Source = &Source{Name: rec.Source.Name, URL: rec.Source.URL}
		if rec.Source.CapturedAt != nil {
			r.Source.CapturedAt = rec.Source.CapturedAt.UTC().Format(time.RFC3339)
		}
	}
	return r
}

// FromDomainList converts stored records to their JSON form.
func FromDomainList(recs []domain.RosterRecord) []Record {
	out := make([]Record, 0, len(recs))
	for i := range recs {
		out = append(out, FromDomain(&recs[i]))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// fieldOf names the deepest failing location of a schema error, e.g.
// "source.capturedAt", or "[1].name" for the second record of a list.
func fieldOf(err error, index int, list bool) string {
	var b strings.Builder
	if list {
		fmt.Fprintf(&b, "[%d]", index)
	}
	leaf := deepest(err)
	if leaf == nil {
		return fieldOrBody(b.String())
	}
	for _, part := range strings.Split(strings.TrimPrefix(leaf.InstanceLocation, "/"), "/") {
		switch {
		case part == "":
		case isIndex(part):
			b.WriteString("[" + part + "]")
		default:
			if b.Len() > 0 {
				b.WriteString(".")
			}
			b.WriteString(part)
		}
	}
	return fieldOrBody(b.String())
}

func fieldOrBody(s string) string {
	if s == "" {
		return "body"
	}
	return s
}

func reasonOf(err error) string {
	if leaf := deepest(err); leaf != nil {
		return leaf.Message
	}
	return err.Error()
}

func deepest(err error) *jsonschema.ValidationError {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[len(ve.Causes)-1]
	}
	return ve
}

func isIndex(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
