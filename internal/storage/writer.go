package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/octosync/octosync/internal/domain"
)

// Writer is the store surface the collector depends on. Every method
// upserts by the entity's natural key, stamps collected_at, and returns
// how many documents were written.
type Writer interface {
	SaveRepositories(ctx context.Context, repos []domain.Repository) (int, error)
	SaveCommits(ctx context.Context, repositoryID int64, commits []domain.Commit) (int, error)
	SaveContributors(ctx context.Context, repositoryID int64, contributors []domain.Contributor) (int, error)
	SavePullRequests(ctx context.Context, repositoryID int64, pulls []domain.PullRequest) (int, error)
	SaveIssues(ctx context.Context, repositoryID int64, issues []domain.Issue) (int, error)
	SaveComments(ctx context.Context, repositoryID int64, comments []domain.Comment) (int, error)
}

// SaveRepositories upserts repositories by their GitHub ID.
func (s *Store) SaveRepositories(ctx context.Context, repos []domain.Repository) (int, error) {
	now := time.Now().UTC()
	for _, repo := range repos {
		repo.CollectedAt = now
		if err := s.upsert(ctx, CollectionRepositories, bson.M{"id": repo.ID}, repo); err != nil {
			return 0, err
		}
	}
	s.logger.Infof("stored %d repositories", len(repos))
	return len(repos), nil
}

// SaveCommits upserts commits by (sha, repository_id).
func (s *Store) SaveCommits(ctx context.Context, repositoryID int64, commits []domain.Commit) (int, error) {
	now := time.Now().UTC()
	for _, commit := range commits {
		commit.RepositoryID = repositoryID
		commit.CollectedAt = now
		filter := bson.M{"sha": commit.SHA, "repository_id": repositoryID}
		if err := s.upsert(ctx, CollectionCommits, filter, commit); err != nil {
			return 0, err
		}
	}
	s.logger.Infof("stored %d commits for repository %d", len(commits), repositoryID)
	return len(commits), nil
}

// SaveContributors upserts contributors by (login, repository_id).
func (s *Store) SaveContributors(ctx context.Context, repositoryID int64, contributors []domain.Contributor) (int, error) {
	now := time.Now().UTC()
	for _, contributor := range contributors {
		contributor.RepositoryID = repositoryID
		contributor.CollectedAt = now
		filter := bson.M{"login": contributor.Login, "repository_id": repositoryID}
		if err := s.upsert(ctx, CollectionContributors, filter, contributor); err != nil {
			return 0, err
		}
	}
	s.logger.Infof("stored %d contributors for repository %d", len(contributors), repositoryID)
	return len(contributors), nil
}

// SavePullRequests upserts pull requests by their GitHub ID.
func (s *Store) SavePullRequests(ctx context.Context, repositoryID int64, pulls []domain.PullRequest) (int, error) {
	now := time.Now().UTC()
	for _, pull := range pulls {
		pull.RepositoryID = repositoryID
		pull.CollectedAt = now
		if err := s.upsert(ctx, CollectionPullRequests, bson.M{"id": pull.ID}, pull); err != nil {
			return 0, err
		}
	}
	s.logger.Infof("stored %d pull requests for repository %d", len(pulls), repositoryID)
	return len(pulls), nil
}

// SaveIssues upserts issues by their GitHub ID.
func (s *Store) SaveIssues(ctx context.Context, repositoryID int64, issues []domain.Issue) (int, error) {
	now := time.Now().UTC()
	for _, issue := range issues {
		issue.RepositoryID = repositoryID
		issue.CollectedAt = now
		if err := s.upsert(ctx, CollectionIssues, bson.M{"id": issue.ID}, issue); err != nil {
			return 0, err
		}
	}
	s.logger.Infof("stored %d issues for repository %d", len(issues), repositoryID)
	return len(issues), nil
}

// SaveComments upserts comments by their GitHub ID.
func (s *Store) SaveComments(ctx context.Context, repositoryID int64, comments []domain.Comment) (int, error) {
	now := time.Now().UTC()
	for _, comment := range comments {
		comment.RepositoryID = repositoryID
		comment.CollectedAt = now
		if err := s.upsert(ctx, CollectionComments, bson.M{"id": comment.ID}, comment); err != nil {
			return 0, err
		}
	}
	return len(comments), nil
}

func (s *Store) upsert(ctx context.Context, collection string, filter bson.M, doc any) error {
	_, err := s.db.Collection(collection).UpdateOne(
		ctx,
		filter,
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert into %q: %w", collection, err)
	}
	return nil
}
