package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// rosterSearchFields are matched case-insensitively by Search.
var rosterSearchFields = []string{"name", "designation", "court_name", "court_room", "district", "zone", "location"}

// rosterRecord is the BSON shape of a roster record.
type rosterRecord struct {
	ID               string     `bson:"_id"`
	UniqueKey        string     `bson:"unique_key"`
	NameFold         string     `bson:"name_fold"`
	Name             string     `bson:"name"`
	Designation      string     `bson:"designation"`
	Jurisdiction     string     `bson:"jurisdiction"`
	CourtName        string     `bson:"court_name"`
	CourtRoom        string     `bson:"court_room"`
	VCLink           string     `bson:"vc_link"`
	VCMeetingID      string     `bson:"vc_meeting_id"`
	VCEmail          string     `bson:"vc_email"`
	District         string     `bson:"district"`
	Zone             string     `bson:"zone"`
	Location         string     `bson:"location"`
	SourceName       string     `bson:"source_name"`
	SourceURL        string     `bson:"source_url"`
	SourceCapturedAt *time.Time `bson:"source_captured_at"`
	CreatedAt        time.Time  `bson:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at"`
}

func (r *rosterRecord) toDomain() *domain.RosterRecord {
	return &domain.RosterRecord{
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
		Source: domain.RosterSource{
			Name:       r.SourceName,
			URL:        r.SourceURL,
			CapturedAt: r.SourceCapturedAt,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

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

	newID := rec.ID
	if newID == "" {
		newID = uuid.New().String()
	}
	filter, update := rosterUpsert(rec, newID, s.store.now())
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var err error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		var stored rosterRecord
		err = s.store.rosters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
		if err == nil {
			return stored.toDomain(), nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("saving roster record: %w", err)
		}
	}
	return nil, &domain.DuplicateKeyError{Key: rec.UniqueKey(), Err: err}
}

func rosterUpsert(rec *domain.RosterRecord, newID string, now time.Time) (bson.D, bson.D) {
	filter := bson.D{{Key: "unique_key", Value: rec.UniqueKey()}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name_fold", Value: strings.ToLower(rec.Name)},
			{Key: "name", Value: rec.Name},
			{Key: "designation", Value: rec.Designation},
			{Key: "jurisdiction", Value: rec.Jurisdiction},
			{Key: "court_name", Value: rec.CourtName},
			{Key: "court_room", Value: rec.CourtRoom},
			{Key: "vc_link", Value: rec.VCLink},
			{Key: "vc_meeting_id", Value: rec.VCMeetingID},
			{Key: "vc_email", Value: rec.VCEmail},
			{Key: "district", Value: rec.District},
			{Key: "zone", Value: rec.Zone},
			{Key: "location", Value: rec.Location},
			{Key: "source_name", Value: rec.Source.Name},
			{Key: "source_url", Value: rec.Source.URL},
			{Key: "source_captured_at", Value: rec.Source.CapturedAt},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: newID},
			{Key: "created_at", Value: now},
		}},
	}
	return filter, update
}

// Get retrieves a record by ID.
func (s *rosterStore) Get(ctx context.Context, id string) (*domain.RosterRecord, error) {
	var rec rosterRecord
	if err := s.store.rosters.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec); err != nil {
		return nil, notFound("roster record", id, err)
	}
	return rec.toDomain(), nil
}

// List returns records ordered by name.
func (s *rosterStore) List(ctx context.Context, page domain.Pagination) ([]domain.RosterRecord, error) {
	page = page.Normalised()
	opts := options.Find().SetSort(byName()).SetSkip(int64(page.Skip)).SetLimit(int64(page.Limit))
	return s.find(ctx, bson.D{}, opts)
}

// Search returns records whose searchable fields contain query.
func (s *rosterStore) Search(ctx context.Context, query string, limit int) ([]domain.RosterRecord, error) {
	opts := options.Find().SetSort(byName())
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.find(ctx, rosterSearchFilter(query), opts)
}

// Delete removes a record.
func (s *rosterStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.rosters.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("deleting roster record: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFoundError("roster record", id)
	}
	return nil
}

func (s *rosterStore) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]domain.RosterRecord, error) {
	cursor, err := s.store.rosters.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying roster records: %w", err)
	}
	defer cursor.Close(ctx)

	out := []domain.RosterRecord{}
	for cursor.Next(ctx) {
		var rec rosterRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decoding roster record: %w", err)
		}
		out = append(out, *rec.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating roster records: %w", err)
	}
	return out, nil
}

// rosterSearchFilter matches query as a literal, case-insensitive
// substring of any searchable field.
func rosterSearchFilter(query string) bson.D {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(query)), Options: "i"}
	or := make(bson.A, 0, len(rosterSearchFields))
	for _, field := range rosterSearchFields {
		or = append(or, bson.D{{Key: field, Value: pattern}})
	}
	return bson.D{{Key: "$or", Value: or}}
}

func byName() bson.D {
	return bson.D{{Key: "name_fold", Value: 1}, {Key: "_id", Value: 1}}
}
