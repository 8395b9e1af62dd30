package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/octosync/octosync/internal/domain"
)

// Reader is the store surface the analyzer depends on.
type Reader interface {
	RepositoriesByOwner(ctx context.Context, owner string) ([]domain.Repository, error)
	CountByRepository(ctx context.Context, collection string, repositoryID int64) (int64, error)
	CommitsSince(ctx context.Context, repositoryIDs []int64, since time.Time) ([]domain.Commit, error)
	CountByState(ctx context.Context, collection string, repositoryIDs []int64) (map[string]int64, error)
	CountMergedPulls(ctx context.Context, repositoryIDs []int64) (int64, error)
	ContributorsByRepositories(ctx context.Context, repositoryIDs []int64) ([]domain.Contributor, error)
	SearchRepositories(ctx context.Context, query, owner string) ([]domain.Repository, error)
	RecentCommits(ctx context.Context, repositoryIDs []int64, limit int) ([]domain.Commit, error)
	RecentIssues(ctx context.Context, repositoryIDs []int64, limit int) ([]domain.Issue, error)
	RecentPulls(ctx context.Context, repositoryIDs []int64, limit int) ([]domain.PullRequest, error)
}

// RepositoriesByOwner returns every stored repository of an owner.
func (s *Store) RepositoriesByOwner(ctx context.Context, owner string) ([]domain.Repository, error) {
	var repos []domain.Repository
	err := s.find(ctx, CollectionRepositories, bson.M{"owner": owner}, nil, &repos)
	return repos, err
}

// CountByRepository counts the documents of one collection belonging to
// a repository.
func (s *Store) CountByRepository(ctx context.Context, collection string, repositoryID int64) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.M{"repository_id": repositoryID})
	if err != nil {
		return 0, fmt.Errorf("failed to count %q for repository %d: %w", collection, repositoryID, err)
	}
	return n, nil
}

// CommitsSince returns commits authored at or after the cutoff across
// the given repositories.
func (s *Store) CommitsSince(ctx context.Context, repositoryIDs []int64, since time.Time) ([]domain.Commit, error) {
	filter := bson.M{
		"repository_id": bson.M{"$in": repositoryIDs},
		"author_date":   bson.M{"$gte": since},
	}
	var commits []domain.Commit
	err := s.find(ctx, CollectionCommits, filter, nil, &commits)
	return commits, err
}

// CountByState groups the documents of a collection by their state field.
func (s *Store) CountByState(ctx context.Context, collection string, repositoryIDs []int64) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"repository_id": bson.M{"$in": repositoryIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$state", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %q by state: %w", collection, err)
	}
	var rows []struct {
		State string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %q state counts: %w", collection, err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Count
	}
	return counts, nil
}

// CountMergedPulls counts pull requests that carry a merged_at timestamp.
func (s *Store) CountMergedPulls(ctx context.Context, repositoryIDs []int64) (int64, error) {
	filter := bson.M{
		"repository_id": bson.M{"$in": repositoryIDs},
		"merged_at":     bson.M{"$ne": nil},
	}
	n, err := s.db.Collection(CollectionPullRequests).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count merged pull requests: %w", err)
	}
	return n, nil
}

// ContributorsByRepositories returns every contributor record across the
// given repositories. One person appears once per repository.
func (s *Store) ContributorsByRepositories(ctx context.Context, repositoryIDs []int64) ([]domain.Contributor, error) {
	filter := bson.M{"repository_id": bson.M{"$in": repositoryIDs}}
	var contributors []domain.Contributor
	err := s.find(ctx, CollectionContributors, filter, nil, &contributors)
	return contributors, err
}

// SearchRepositories matches repositories whose name or description
// contains the query, case-insensitively. An empty owner matches all.
func (s *Store) SearchRepositories(ctx context.Context, query, owner string) ([]domain.Repository, error) {
	pattern := bson.M{"$regex": query, "$options": "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"description": pattern},
	}}
	if owner != "" {
		filter["owner"] = owner
	}
	var repos []domain.Repository
	err := s.find(ctx, CollectionRepositories, filter, nil, &repos)
	return repos, err
}

// RecentCommits returns the latest commits by author date.
func (s *Store) RecentCommits(ctx context.Context, repositoryIDs []int64, limit int) ([]domain.Commit, error) {
	filter := bson.M{"repository_id": bson.M{"$in": repositoryIDs}}
	opts := options.Find().SetSort(bson.D{{Key: "author_date", Value: -1}}).SetLimit(int64(limit))
	var commits []domain.Commit
	err := s.find(ctx, CollectionCommits, filter, opts, &commits)
	return commits, err
}

// RecentIssues returns the latest issues by creation date.
func (s *Store) RecentIssues(ctx context.Context, repositoryIDs []int64, limit int) ([]domain.Issue, error) {
	filter := bson.M{"repository_id": bson.M{"$in": repositoryIDs}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	var issues []domain.Issue
	err := s.find(ctx, CollectionIssues, filter, opts, &issues)
	return issues, err
}

// RecentPulls returns the latest pull requests by creation date.
func (s *Store) RecentPulls(ctx context.Context, repositoryIDs []int64, limit int) ([]domain.PullRequest, error) {
	filter := bson.M{"repository_id": bson.M{"$in": repositoryIDs}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	var pulls []domain.PullRequest
	err := s.find(ctx, CollectionPullRequests, filter, opts, &pulls)
	return pulls, err
}

func (s *Store) find(ctx context.Context, collection string, filter bson.M, opts *options.FindOptions, out any) error {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.db.Collection(collection).Find(ctx, filter, opts)
	} else {
		cursor, err = s.db.Collection(collection).Find(ctx, filter)
	}
	if err != nil {
		return fmt.Errorf("failed to query %q: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %q documents: %w", collection, err)
	}
	return nil
}
