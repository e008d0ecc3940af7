package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// upsertAttempts bounds duplicate-key retries; the second attempt always
// finds the row the racing insert created.
const upsertAttempts = 2

// documentRecord is the BSON shape of a document.
type documentRecord struct {
	ID          string       `bson:"_id"`
	Complex     string       `bson:"complex"`
	Zone        string       `bson:"zone"`
	Category    string       `bson:"category"`
	Title       string       `bson:"title"`
	DocDate     *time.Time   `bson:"doc_date"`
	SourceURL   string       `bson:"source_url"`
	BlobURL     string       `bson:"blob_url,omitempty"`
	BlobKey     string       `bson:"blob_key"`
	FullText    string       `bson:"full_text"`
	Pages       []pageRecord `bson:"pages"`
	EngineIndex string       `bson:"engine_index,omitempty"`
	EngineID    string       `bson:"engine_id,omitempty"`
	CreatedAt   time.Time    `bson:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at"`

	// Score is only present on text search results.
	Score float64 `bson:"score,omitempty"`
}

type pageRecord struct {
	PageNumber int    `bson:"page_number"`
	Text       string `bson:"text"`
}

func (r *documentRecord) toDomain() *domain.Document {
	doc := &domain.Document{
		ID:        r.ID,
		Complex:   domain.Complex(r.Complex),
		Zone:      domain.Zone(r.Zone),
		Category:  domain.Category(r.Category),
		Title:     r.Title,
		DocDate:   r.DocDate,
		SourceURL: r.SourceURL,
		BlobURL:   r.BlobURL,
		BlobKey:   r.BlobKey,
		FullText:  r.FullText,
		Pages:     make([]domain.Page, 0, len(r.Pages)),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	for _, p := range r.Pages {
		doc.Pages = append(doc.Pages, domain.Page{PageNumber: p.PageNumber, Text: p.Text})
	}
	if r.EngineIndex != "" || r.EngineID != "" {
		doc.SearchEngineRef = &domain.SearchEngineRef{IndexName: r.EngineIndex, ExternalID: r.EngineID}
	}
	return doc
}

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

	newID := doc.ID
	if newID == "" {
		newID = uuid.New().String()
	}
	filter, update := documentUpsert(doc, newID, s.store.now())
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var err error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		var rec documentRecord
		err = s.store.documents.FindOneAndUpdate(ctx, filter, update, opts).Decode(&rec)
		if err == nil {
			return rec.toDomain(), nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("saving document: %w", err)
		}
	}
	key, _ := doc.UniqueKey()
	return nil, &domain.DuplicateKeyError{Key: key, Err: err}
}

// documentUpsert builds the filter and update for an upsert. Keyed
// documents match on their artifact key, others on their id.
func documentUpsert(doc *domain.Document, newID string, now time.Time) (bson.D, bson.D) {
	pages := make([]pageRecord, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		pages = append(pages, pageRecord{PageNumber: p.PageNumber, Text: p.Text})
	}

	set := bson.D{
		{Key: "complex", Value: string(doc.Complex)},
		{Key: "zone", Value: string(doc.Zone)},
		{Key: "category", Value: string(doc.Category)},
		{Key: "title", Value: doc.Title},
		{Key: "doc_date", Value: doc.DocDate},
		{Key: "source_url", Value: doc.SourceURL},
		{Key: "blob_key", Value: doc.BlobKey},
		{Key: "full_text", Value: doc.FullText},
		{Key: "pages", Value: pages},
		{Key: "updated_at", Value: now},
	}
	if doc.SearchEngineRef != nil {
		set = append(set,
			bson.E{Key: "engine_index", Value: doc.SearchEngineRef.IndexName},
			bson.E{Key: "engine_id", Value: doc.SearchEngineRef.ExternalID},
		)
	}

	setOnInsert := bson.D{{Key: "created_at", Value: now}}
	update := bson.D{}

	var filter bson.D
	if doc.BlobURL != "" {
		filter = bson.D{
			{Key: "complex", Value: string(doc.Complex)},
			{Key: "zone", Value: string(doc.Zone)},
			{Key: "category", Value: string(doc.Category)},
			{Key: "title", Value: doc.Title},
			{Key: "blob_url", Value: doc.BlobURL},
		}
		set = append(set, bson.E{Key: "blob_url", Value: doc.BlobURL})
		setOnInsert = append(setOnInsert, bson.E{Key: "_id", Value: newID})
	} else {
		filter = bson.D{{Key: "_id", Value: newID}}
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "blob_url", Value: ""}}})
	}

	update = append(bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: setOnInsert},
	}, update...)
	return filter, update
}

// Get retrieves a document by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	var rec documentRecord
	if err := s.store.documents.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec); err != nil {
		return nil, notFound("document", id, err)
	}
	return rec.toDomain(), nil
}

// Find lists documents matching filter, newest first.
func (s *documentStore) Find(
	ctx context.Context, filter domain.DocumentFilter, page domain.Pagination,
) ([]domain.Document, error) {
	page = page.Normalised()
	opts := options.Find().
		SetSort(newerFirst()).
		SetSkip(int64(page.Skip)).
		SetLimit(int64(page.Limit))

	cursor, err := s.store.documents.Find(ctx, filterDoc(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	return decodeDocuments(ctx, cursor)
}

// Count returns how many documents match filter.
func (s *documentStore) Count(ctx context.Context, filter domain.DocumentFilter) (int, error) {
	n, err := s.store.documents.CountDocuments(ctx, filterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return int(n), nil
}

// Summarize groups documents by (complex, zone, category).
func (s *documentStore) Summarize(ctx context.Context) ([]domain.GroupSummary, error) {
	cursor, err := s.store.documents.Aggregate(ctx, summaryPipeline())
	if err != nil {
		return nil, fmt.Errorf("summarising documents: %w", err)
	}
	defer cursor.Close(ctx)

	out := []domain.GroupSummary{}
	for cursor.Next(ctx) {
		var row struct {
			Group struct {
				Complex  string `bson:"complex"`
				Zone     string `bson:"zone"`
				Category string `bson:"category"`
			} `bson:"_id"`
			Count           int        `bson:"count"`
			LatestDocDate   *time.Time `bson:"latest_doc_date"`
			LatestUpdatedAt time.Time  `bson:"latest_updated_at"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decoding summary: %w", err)
		}
		out = append(out, domain.GroupSummary{
			Complex:         domain.Complex(row.Group.Complex),
			Zone:            domain.Zone(row.Group.Zone),
			Category:        domain.Category(row.Group.Category),
			Count:           row.Count,
			LatestDocDate:   row.LatestDocDate,
			LatestUpdatedAt: row.LatestUpdatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary: %w", err)
	}
	return out, nil
}

func summaryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "complex", Value: "$complex"},
				{Key: "zone", Value: "$zone"},
				{Key: "category", Value: "$category"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "latest_doc_date", Value: bson.D{{Key: "$max", Value: "$doc_date"}}},
			{Key: "latest_updated_at", Value: bson.D{{Key: "$max", Value: "$updated_at"}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.complex", Value: 1},
			{Key: "_id.zone", Value: 1},
			{Key: "_id.category", Value: 1},
		}}},
	}
}

// TextSearch runs the weighted text index, requiring every term, ranked
// by textScore.
func (s *documentStore) TextSearch(
	ctx context.Context, query string, filter domain.DocumentFilter, limit int,
) ([]driven.TextMatch, error) {
	search := textSearchString(query)
	if search == "" {
		return []driven.TextMatch{}, nil
	}

	f := append(filterDoc(filter), bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: search}}})
	score := bson.D{{Key: "$meta", Value: "textScore"}}
	opts := options.Find().
		SetProjection(bson.D{{Key: "score", Value: score}}).
		SetSort(append(bson.D{{Key: "score", Value: score}}, newerFirst()...))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.store.documents.Find(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	defer cursor.Close(ctx)

	matches := []driven.TextMatch{}
	for cursor.Next(ctx) {
		var rec documentRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		doc := rec.toDomain()
		matches = append(matches, driven.TextMatch{
			Document: *doc,
			Score:    rec.Score,
			Snippet:  domain.Snippet(doc.FullText, query, domain.DefaultSnippetRadius),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating text search: %w", err)
	}
	return matches, nil
}

// AttachSearchEngineRef records where the document was mirrored.
func (s *documentStore) AttachSearchEngineRef(ctx context.Context, id string, ref domain.SearchEngineRef) error {
	res, err := s.store.documents.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "engine_index", Value: ref.IndexName},
		{Key: "engine_id", Value: ref.ExternalID},
	}}})
	if err != nil {
		return fmt.Errorf("attaching search engine reference: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFoundError("document", id)
	}
	return nil
}

// Delete removes a document.
func (s *documentStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.documents.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFoundError("document", id)
	}
	return nil
}

// filterDoc renders the set dimensions of filter as a query document.
func filterDoc(filter domain.DocumentFilter) bson.D {
	f := bson.D{}
	if filter.Complex != "" {
		f = append(f, bson.E{Key: "complex", Value: string(filter.Complex)})
	}
	if filter.Zone != "" {
		f = append(f, bson.E{Key: "zone", Value: string(filter.Zone)})
	}
	if filter.Category != "" {
		f = append(f, bson.E{Key: "category", Value: string(filter.Category)})
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		r := bson.D{}
		if filter.DateFrom != nil {
			r = append(r, bson.E{Key: "$gte", Value: *filter.DateFrom})
		}
		if filter.DateTo != nil {
			r = append(r, bson.E{Key: "$lte", Value: *filter.DateTo})
		}
		f = append(f, bson.E{Key: "doc_date", Value: r})
	}
	return f
}

// newerFirst sorts dated documents first since null sorts lowest.
func newerFirst() bson.D {
	return bson.D{{Key: "doc_date", Value: -1}, {Key: "updated_at", Value: -1}}
}

// textSearchString quotes every term so the text index ANDs them.
func textSearchString(q string) string {
	var terms []string
	for _, t := range strings.Fields(strings.ReplaceAll(q, `"`, " ")) {
		terms = append(terms, `"`+t+`"`)
	}
	return strings.Join(terms, " ")
}

func decodeDocuments(ctx context.Context, cursor *mongo.Cursor) ([]domain.Document, error) {
	defer cursor.Close(ctx)

	docs := []domain.Document{}
	for cursor.Next(ctx) {
		var rec documentRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		docs = append(docs, *rec.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}
