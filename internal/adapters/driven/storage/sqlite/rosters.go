package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

const rosterColumns = `id, name, designation, jurisdiction, court_name, court_room, vc_link, vc_meeting_id,
	vc_email, district, zone, location, source_name, source_url, source_captured_at, created_at, updated_at`

const rosterContentSet = `
	name = excluded.name,
	designation = excluded.designation,
	jurisdiction = excluded.jurisdiction,
	court_name = excluded.court_name,
	court_room = excluded.court_room,
	vc_link = excluded.vc_link,
	vc_meeting_id = excluded.vc_meeting_id,
	vc_email = excluded.vc_email,
	district = excluded.district,
	zone = excluded.zone,
	location = excluded.location,
	source_name = excluded.source_name,
	source_url = excluded.source_url,
	source_captured_at = excluded.source_captured_at,
	updated_at = excluded.updated_at`

const upsertRoster = `
	INSERT INTO rosters (id, unique_key, name, designation, jurisdiction, court_name, court_room, vc_link,
		vc_meeting_id, vc_email, district, zone, location, source_name, source_url, source_captured_at,
		created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(unique_key) DO UPDATE SET` + rosterContentSet + `
	ON CONFLICT(id) DO UPDATE SET
		unique_key = excluded.unique_key,` + rosterContentSet + `
	RETURNING id, created_at`

// rosterSearchFields are matched case-insensitively by Search.
var rosterSearchFields = []string{"name", "designation", "court_name", "court_room", "district", "zone", "location"}

// rosterStore implements driven.RosterStore.
type rosterStore struct {
	store *Store
}

var _ driven.RosterStore = (*rosterStore)(nil)

// Upsert inserts or replaces the record sharing rec's unique key.
func (s *rosterStore) Upsert(ctx context.Context, rec *domain.RosterRecord) (*domain.RosterRecord, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := s.store.now()

	var storedID, createdAt string
	err := s.store.db.QueryRowContext(ctx, upsertRoster,
		id, rec.UniqueKey(), rec.Name, rec.Designation, rec.Jurisdiction, rec.CourtName, rec.CourtRoom,
		rec.VCLink, rec.VCMeetingID, rec.VCEmail, rec.District, rec.Zone, rec.Location,
		rec.Source.Name, rec.Source.URL, nullTime(rec.Source.CapturedAt),
		formatTime(now), formatTime(now),
	).Scan(&storedID, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &domain.DuplicateKeyError{Key: rec.UniqueKey(), Err: err}
		}
		return nil, fmt.Errorf("saving roster record: %w", err)
	}

	out := *rec
	out.ID = storedID
	out.UpdatedAt = now
	if out.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get retrieves a record by ID.
func (s *rosterStore) Get(ctx context.Context, id string) (*domain.RosterRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+rosterColumns+` FROM rosters WHERE id = ?`, id)
	rec, err := scanRoster(row)
	if err != nil {
		return nil, notFound("roster record", id, err)
	}
	return rec, nil
}

// List returns records ordered by name.
func (s *rosterStore) List(ctx context.Context, page domain.Pagination) ([]domain.RosterRecord, error) {
	page = page.Normalised()
	return s.query(ctx, `SELECT `+rosterColumns+` FROM rosters
		ORDER BY name COLLATE NOCASE, id LIMIT ? OFFSET ?`, page.Limit, page.Skip)
}

// Search returns records whose searchable fields contain query.
func (s *rosterStore) Search(ctx context.Context, query string, limit int) ([]domain.RosterRecord, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	conds := make([]string, 0, len(rosterSearchFields))
	args := make([]any, 0, len(rosterSearchFields)+1)
	for _, field := range rosterSearchFields {
		conds = append(conds, "instr(lower("+field+"), ?) > 0")
		args = append(args, q)
	}

	sqlQuery := `SELECT ` + rosterColumns + ` FROM rosters WHERE ` + strings.Join(conds, " OR ") +
		` ORDER BY name COLLATE NOCASE, id`
	if limit > 0 {
		sqlQuery += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, sqlQuery, args...)
}

// Delete removes a record.
func (s *rosterStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, `DELETE FROM rosters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting roster record: %w", err)
	}
	return requireRow(res, "roster record", id)
}

func (s *rosterStore) query(ctx context.Context, query string, args ...any) ([]domain.RosterRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying roster records: %w", err)
	}
	defer rows.Close()

	out := []domain.RosterRecord{}
	for rows.Next() {
		rec, err := scanRoster(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roster records: %w", err)
	}
	return out, nil
}

func scanRoster(row scanner) (*domain.RosterRecord, error) {
	var rec domain.RosterRecord
	var capturedAt sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&rec.ID, &rec.Name, &rec.Designation, &rec.Jurisdiction, &rec.CourtName,
		&rec.CourtRoom, &rec.VCLink, &rec.VCMeetingID, &rec.VCEmail, &rec.District, &rec.Zone,
		&rec.Location, &rec.Source.Name, &rec.Source.URL, &capturedAt, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning roster record: %w", err)
	}

	var err error
	if rec.Source.CapturedAt, err = parseNullTime(capturedAt); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
