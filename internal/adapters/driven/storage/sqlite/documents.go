package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// titleWeight and bodyWeight are the bm25 column weights.
const (
	titleWeight = 5.0
	bodyWeight  = 1.0
)

const documentColumns = `d.id, d.complex, d.zone, d.category, d.title, d.doc_date, d.source_url,
	d.blob_url, d.blob_key, d.full_text, d.pages, d.engine_index, d.engine_id, d.created_at, d.updated_at`

// newerFirst orders listings: dated documents first, latest date first,
// then most recently updated.
const newerFirst = `d.doc_date IS NULL, d.doc_date DESC, d.updated_at DESC`

const documentContentSet = `
	doc_date = excluded.doc_date,
	source_url = excluded.source_url,
	blob_key = excluded.blob_key,
	full_text = excluded.full_text,
	pages = excluded.pages,
	engine_index = COALESCE(excluded.engine_index, engine_index),
	engine_id = COALESCE(excluded.engine_id, engine_id),
	updated_at = excluded.updated_at`

// upsertDocument resolves an artifact key conflict first, then an id
// conflict. Both keep the existing id and created_at.
const upsertDocument = `
	INSERT INTO documents (id, complex, zone, category, title, doc_date, source_url, blob_url, blob_key,
		full_text, pages, engine_index, engine_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(complex, zone, category, title, blob_url) WHERE blob_url IS NOT NULL DO UPDATE SET` +
	documentContentSet + `
	ON CONFLICT(id) DO UPDATE SET
		complex = excluded.complex,
		zone = excluded.zone,
		category = excluded.category,
		title = excluded.title,
		blob_url = excluded.blob_url,` +
	documentContentSet + `
	RETURNING id, created_at, engine_index, engine_id`

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Upsert inserts doc or replaces the content of the document sharing its
// unique key.
func (s *documentStore) Upsert(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if err := domain.ValidateHierarchy(doc.Complex, doc.Zone, doc.Category); err != nil {
		return nil, err
	}

	pages := doc.Pages
	if pages == nil {
		pages = []domain.Page{}
	}
	pagesJSON, err := json.Marshal(pages)
	if err != nil {
		return nil, fmt.Errorf("marshalling pages: %w", err)
	}

	id := doc.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := s.store.now()

	var engineIndex, engineID sql.NullString
	if doc.SearchEngineRef != nil {
		engineIndex = nullString(doc.SearchEngineRef.IndexName)
		engineID = nullString(doc.SearchEngineRef.ExternalID)
	}

	var storedID, createdAt string
	var storedIndex, storedEngineID sql.NullString
	err = s.store.db.QueryRowContext(ctx, upsertDocument,
		id, doc.Complex, doc.Zone, doc.Category, doc.Title, nullTime(doc.DocDate), doc.SourceURL,
		nullString(doc.BlobURL), doc.BlobKey, doc.FullText, string(pagesJSON),
		engineIndex, engineID, formatTime(now), formatTime(now),
	).Scan(&storedID, &createdAt, &storedIndex, &storedEngineID)
	if err != nil {
		if isUniqueViolation(err) {
			key, _ := doc.UniqueKey()
			return nil, &domain.DuplicateKeyError{Key: key, Err: err}
		}
		return nil, fmt.Errorf("saving document: %w", err)
	}

	out := *doc
	out.ID = storedID
	out.Pages = pages
	out.UpdatedAt = now
	if out.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if storedIndex.Valid || storedEngineID.Valid {
		out.SearchEngineRef = &domain.SearchEngineRef{IndexName: storedIndex.String, ExternalID: storedEngineID.String}
	}
	return &out, nil
}

// Get retrieves a document by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents d WHERE d.id = ?`, id)
	doc, err := scanDocument(row)
	if err != nil {
		return nil, notFound("document", id, err)
	}
	return doc, nil
}

// Find lists documents matching filter, newest first.
func (s *documentStore) Find(
	ctx context.Context, filter domain.DocumentFilter, page domain.Pagination,
) ([]domain.Document, error) {
	page = page.Normalised()
	where, args := filterClause(filter)

	query := `SELECT ` + documentColumns + ` FROM documents d` + where +
		` ORDER BY ` + newerFirst + ` LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Skip)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Count returns how many documents match filter.
func (s *documentStore) Count(ctx context.Context, filter domain.DocumentFilter) (int, error) {
	where, args := filterClause(filter)

	var n int
	if err := s.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents d`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Summarize groups documents by (complex, zone, category).
func (s *documentStore) Summarize(ctx context.Context) ([]domain.GroupSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT complex, zone, category, COUNT(*), MAX(doc_date), MAX(updated_at)
		FROM documents
		GROUP BY complex, zone, category
		ORDER BY complex, zone, category
	`)
	if err != nil {
		return nil, fmt.Errorf("summarising documents: %w", err)
	}
	defer rows.Close()

	out := []domain.GroupSummary{}
	for rows.Next() {
		var g domain.GroupSummary
		var latestDoc sql.NullString
		var latestUpdated string
		if err := rows.Scan(&g.Complex, &g.Zone, &g.Category, &g.Count, &latestDoc, &latestUpdated); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		if g.LatestDocDate, err = parseNullTime(latestDoc); err != nil {
			return nil, err
		}
		if g.LatestUpdatedAt, err = parseTime(latestUpdated); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary: %w", err)
	}
	return out, nil
}

// TextSearch runs an FTS5 query requiring every term, ranked by bm25.
func (s *documentStore) TextSearch(
	ctx context.Context, query string, filter domain.DocumentFilter, limit int,
) ([]driven.TextMatch, error) {
	match := ftsQuery(query)
	if match == "" {
		return []driven.TextMatch{}, nil
	}

	where, args := filterClause(filter)
	if where == "" {
		where = " WHERE documents_fts MATCH ?"
	} else {
		where += " AND documents_fts MATCH ?"
	}
	args = append(args, match)

	sqlQuery := fmt.Sprintf(`SELECT %s, bm25(documents_fts, %.1f, %.1f) AS rank
		FROM documents_fts JOIN documents d ON d.seq = documents_fts.rowid%s
		ORDER BY rank, %s`, documentColumns, titleWeight, bodyWeight, where, newerFirst)
	if limit > 0 {
		sqlQuery += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	defer rows.Close()

	matches := []driven.TextMatch{}
	for rows.Next() {
		var rank float64
		doc, err := scanDocument(rows, &rank)
		if err != nil {
			return nil, err
		}
		matches = append(matches, driven.TextMatch{
			Document: *doc,
			// bm25 is lower-is-better and negative for matches.
			Score:   -rank,
			Snippet: domain.Snippet(doc.FullText, query, domain.DefaultSnippetRadius),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating text search: %w", err)
	}
	return matches, nil
}

// AttachSearchEngineRef records where the document was mirrored.
func (s *documentStore) AttachSearchEngineRef(ctx context.Context, id string, ref domain.SearchEngineRef) error {
	res, err := s.store.db.ExecContext(ctx,
		`UPDATE documents SET engine_index = ?, engine_id = ? WHERE id = ?`,
		ref.IndexName, ref.ExternalID, id)
	if err != nil {
		return fmt.Errorf("attaching search engine reference: %w", err)
	}
	return requireRow(res, "document", id)
}

// Delete removes a document.
func (s *documentStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return requireRow(res, "document", id)
}

// filterClause renders the set dimensions of filter as a WHERE clause.
func filterClause(filter domain.DocumentFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Complex != "" {
		conds = append(conds, "d.complex = ?")
		args = append(args, filter.Complex)
	}
	if filter.Zone != "" {
		conds = append(conds, "d.zone = ?")
		args = append(args, filter.Zone)
	}
	if filter.Category != "" {
		conds = append(conds, "d.category = ?")
		args = append(args, filter.Category)
	}
	if filter.DateFrom != nil {
		conds = append(conds, "d.doc_date >= ?")
		args = append(args, formatTime(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		conds = append(conds, "d.doc_date <= ?")
		args = append(args, formatTime(*filter.DateTo))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ftsQuery quotes every term as an FTS5 string and ANDs them. Terms with
// no letters or digits are dropped.
func ftsQuery(q string) string {
	var terms []string
	for _, t := range strings.Fields(q) {
		if strings.IndexFunc(t, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " AND ")
}

// scanDocument scans documentColumns followed by any extra destinations.
func scanDocument(row scanner, extra ...any) (*domain.Document, error) {
	var doc domain.Document
	var docDate, blobURL, engineIndex, engineID sql.NullString
	var pagesJSON, createdAt, updatedAt string

	dest := []any{
		&doc.ID, &doc.Complex, &doc.Zone, &doc.Category, &doc.Title, &docDate, &doc.SourceURL,
		&blobURL, &doc.BlobKey, &doc.FullText, &pagesJSON, &engineIndex, &engineID, &createdAt, &updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	var err error
	if doc.DocDate, err = parseNullTime(docDate); err != nil {
		return nil, err
	}
	if doc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	doc.BlobURL = blobURL.String
	if engineIndex.Valid || engineID.Valid {
		doc.SearchEngineRef = &domain.SearchEngineRef{IndexName: engineIndex.String, ExternalID: engineID.String}
	}
	if err := json.Unmarshal([]byte(pagesJSON), &doc.Pages); err != nil {
		return nil, fmt.Errorf("unmarshaling pages: %w", err)
	}
	return &doc, nil
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(kind, id)
	}
	return nil
}
