package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
	"github.com/custodia-labs/lexroster/internal/logger"
)

const (
	documentsCollection = "documents"
	rostersCollection   = "rosters"
)

// Config holds MongoDB connection settings.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Validate checks the required settings.
func (c Config) Validate() error {
	if c.URI == "" {
		return &ConfigError{Field: "uri"}
	}
	if c.Database == "" {
		return &ConfigError{Field: "database"}
	}
	return nil
}

// ConfigError reports a missing MongoDB setting.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mongo: %s is required", e.Field)
}

// Store is a MongoDB database that provides the document and roster stores.
type Store struct {
	client    *mongo.Client
	documents *mongo.Collection
	rosters   *mongo.Collection
	now       func() time.Time
}

// NewStore connects to MongoDB, verifies the connection and ensures the
// collection indexes exist.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:    client,
		documents: db.Collection(documentsCollection),
		rosters:   db.Collection(rostersCollection),
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.Debug("Connected to mongo database %s", cfg.Database)
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// RosterStore returns a RosterStore interface backed by this store.
func (s *Store) RosterStore() driven.RosterStore {
	return &rosterStore{store: s}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.documents.Indexes().CreateMany(ctx, documentIndexes()); err != nil {
		return fmt.Errorf("creating document indexes: %w", err)
	}
	if _, err := s.rosters.Indexes().CreateMany(ctx, rosterIndexes()); err != nil {
		return fmt.Errorf("creating roster indexes: %w", err)
	}
	return nil
}

func documentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "title", Value: "text"}, {Key: "full_text", Value: "text"}},
			Options: options.Index().
				SetName("documents_text").
				SetWeights(bson.D{{Key: "title", Value: 5}, {Key: "full_text", Value: 1}}),
		},
		{
			Keys: bson.D{
				{Key: "complex", Value: 1}, {Key: "zone", Value: 1}, {Key: "category", Value: 1},
				{Key: "title", Value: 1}, {Key: "blob_url", Value: 1},
			},
			Options: options.Index().
				SetName("documents_artifact").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "blob_url", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
		{
			Keys: bson.D{
				{Key: "complex", Value: 1}, {Key: "zone", Value: 1}, {Key: "category", Value: 1},
				{Key: "doc_date", Value: -1}, {Key: "updated_at", Value: -1},
			},
			Options: options.Index().SetName("documents_listing"),
		},
	}
}

func rosterIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "unique_key", Value: 1}},
			Options: options.Index().SetName("rosters_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name_fold", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("rosters_name"),
		},
	}
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.NewNotFoundError(kind, id)
	}
	return err
}
