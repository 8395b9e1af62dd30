// Package usecase contains the business logic of the application: the
// collector that syncs GitHub data into MongoDB and the analyzer that
// reports over the stored documents.
package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/octosync/octosync/internal/domain"
	"github.com/octosync/octosync/internal/gateway"
	"github.com/octosync/octosync/internal/storage"
)

// Collector orchestrates one collection run: fetch an owner's
// repositories, then everything inside each of them, and upsert it all.
type Collector struct {
	fetcher gateway.Fetcher
	store   storage.Writer
	logger  logrus.FieldLogger
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, store storage.Writer, logger logrus.FieldLogger) *Collector {
	return &Collector{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}
}

// CollectOwner syncs every repository of the owner. Commits,
// contributors, pull requests, and issues of one repository are fetched
// concurrently; comments follow once the issue and PR numbers are known.
// The first fetch error cancels the remaining fetches and propagates.
func (c *Collector) CollectOwner(ctx context.Context, owner string, includeComments bool) (*domain.CollectionSummary, error) {
	c.logger.Infof("starting collection for %s", owner)

	repos, err := c.fetcher.FetchRepositories(ctx, owner)
	if err != nil {
		return nil, err
	}
	summary := &domain.CollectionSummary{Owner: owner}
	summary.Repositories, err = c.store.SaveRepositories(ctx, repos)
	if err != nil {
		return nil, err
	}

	for _, repo := range repos {
		if err := c.collectRepository(ctx, owner, repo, includeComments, summary); err != nil {
			return nil, fmt.Errorf("failed to collect %s/%s: %w", owner, repo.Name, err)
		}
	}

	c.logger.Infof("completed collection for %s", owner)
	return summary, nil
}

func (c *Collector) collectRepository(ctx context.Context, owner string, repo domain.Repository, includeComments bool, summary *domain.CollectionSummary) error {
	c.logger.Infof("processing repository %s", repo.FullName)

	var commits []domain.Commit
	var contributors []domain.Contributor
	var pulls []domain.PullRequest
	var issues []domain.Issue

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		commits, err = c.fetcher.FetchCommits(egCtx, owner, repo.Name)
		return err
	})
	eg.Go(func() error {
		var err error
		contributors, err = c.fetcher.FetchContributors(egCtx, owner, repo.Name)
		return err
	})
	eg.Go(func() error {
		var err error
		pulls, err = c.fetcher.FetchPullRequests(egCtx, owner, repo.Name)
		return err
	})
	eg.Go(func() error {
		var err error
		issues, err = c.fetcher.FetchIssues(egCtx, owner, repo.Name)
		return err
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	n, err := c.store.SaveCommits(ctx, repo.ID, commits)
	if err != nil {
		return err
	}
	summary.Commits += n

	n, err = c.store.SaveContributors(ctx, repo.ID, contributors)
	if err != nil {
		return err
	}
	summary.Contributors += n

	n, err = c.store.SavePullRequests(ctx, repo.ID, pulls)
	if err != nil {
		return err
	}
	summary.PullRequests += n

	n, err = c.store.SaveIssues(ctx, repo.ID, issues)
	if err != nil {
		return err
	}
	summary.Issues += n

	if !includeComments {
		return nil
	}

	for _, issue := range issues {
		comments, err := c.fetcher.FetchIssueComments(ctx, owner, repo.Name, issue.Number)
		if err != nil {
			return err
		}
		n, err := c.store.SaveComments(ctx, repo.ID, comments)
		if err != nil {
			return err
		}
		summary.Comments += n
	}
	for _, pull := range pulls {
		comments, err := c.fetcher.FetchPullComments(ctx, owner, repo.Name, pull.Number)
		if err != nil {
			return err
		}
		n, err := c.store.SaveComments(ctx, repo.ID, comments)
		if err != nil {
			return err
		}
		summary.Comments += n
	}
	return nil
}
