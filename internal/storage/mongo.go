// Package storage persists GitHub documents to MongoDB and answers the
// queries the analyzer needs. It also owns the database bootstrap: the
// six collections and their index sets.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names. The bootstrap creates exactly this set.
const (
	CollectionRepositories = "repositories"
	CollectionCommits      = "commits"
	CollectionContributors = "contributors"
	CollectionPullRequests = "pull_requests"
	CollectionIssues       = "issues"
	CollectionComments     = "comments"
)

// namespaceExistsCode is MongoDB's error code for creating a collection
// that already exists.
const namespaceExistsCode = 48

// Collections returns the collection names the bootstrap provisions, in
// creation order.
func Collections() []string {
	return []string{
		CollectionRepositories,
		CollectionCommits,
		CollectionContributors,
		CollectionPullRequests,
		CollectionIssues,
		CollectionComments,
	}
}

// Store wraps a MongoDB database holding GitHub activity data. It
// implements both the Writer and Reader interfaces.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger logrus.FieldLogger
}

// NewStore connects to MongoDB, verifies the connection with a ping, and
// returns a Store bound to the named database.
func NewStore(ctx context.Context, uri, database string, connectTimeout time.Duration, logger logrus.FieldLogger) (*Store, error) {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	logger.Debugf("connected to MongoDB database %q", database)

	return &Store{
		client: client,
		db:     client.Database(database),
		logger: logger,
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureCollections creates the six collections. Collections that
// already exist are left untouched, so re-running against a populated
// database is a no-op.
func (s *Store) EnsureCollections(ctx context.Context) error {
	for _, name := range Collections() {
		err := s.db.CreateCollection(ctx, name)
		if err != nil {
			var cmdErr mongo.CommandError
			if errors.As(err, &cmdErr) && cmdErr.Code == namespaceExistsCode {
				s.logger.Debugf("collection %q already exists", name)
				continue
			}
			return fmt.Errorf("failed to create collection %q: %w", name, err)
		}
		s.logger.Debugf("created collection %q", name)
	}
	s.logger.Infof("database %q collections ready", s.db.Name())
	return nil
}

// EnsureIndexes builds the per-collection index sets. Index builds are
// idempotent on the server side.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for name, models := range indexSpecs() {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %q: %w", name, err)
		}
	}
	s.logger.Infof("database %q indexes ready", s.db.Name())
	return nil
}

// indexSpecs maps each collection to the single-field indexes backing
// the upsert filters and the analyzer's sorts.
func indexSpecs() map[string][]mongo.IndexModel {
	asc := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
	}
	desc := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: -1}}}
	}

	return map[string][]mongo.IndexModel{
		CollectionRepositories: {
			asc("owner"), asc("name"), desc("updated_at"), desc("collected_at"),
		},
		CollectionCommits: {
			asc("repository_id"), asc("sha"), desc("author_date"), desc("collected_at"),
		},
		CollectionContributors: {
			asc("repository_id"), asc("login"), desc("collected_at"),
		},
		CollectionPullRequests: {
			asc("repository_id"), asc("number"), asc("state"), desc("created_at"), desc("collected_at"),
		},
		CollectionIssues: {
			asc("repository_id"), asc("number"), asc("state"), desc("created_at"), desc("collected_at"),
		},
		CollectionComments: {
			asc("repository_id"), asc("issue_number"), asc("pull_number"), desc("created_at"), desc("collected_at"),
		},
	}
}
