// Package gateway provides a gateway to the GitHub REST API, abstracting
// away the underlying client, pagination, and rate-limit handling.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/octosync/octosync/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching GitHub resources.
// Every listing is fully paginated before it returns.
type Fetcher interface {
	FetchRepositories(ctx context.Context, owner string) ([]domain.Repository, error)
	FetchCommits(ctx context.Context, owner, repo string) ([]domain.Commit, error)
	FetchContributors(ctx context.Context, owner, repo string) ([]domain.Contributor, error)
	FetchPullRequests(ctx context.Context, owner, repo string) ([]domain.PullRequest, error)
	FetchIssues(ctx context.Context, owner, repo string) ([]domain.Issue, error)
	FetchIssueComments(ctx context.Context, owner, repo string, number int) ([]domain.Comment, error)
	FetchPullComments(ctx context.Context, owner, repo string, number int) ([]domain.Comment, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client  *github.Client
	perPage int
	logger  logrus.FieldLogger
}

// NewGitHubGateway creates a gateway whose HTTP transport injects the
// token and sleeps through secondary rate limits instead of failing.
func NewGitHubGateway(token, baseURL string, perPage int, logger logrus.FieldLogger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub base URL: %w", err)
		}
	}
	if perPage <= 0 {
		perPage = 100
	}
	return &GitHubGateway{
		client:  client,
		perPage: perPage,
		logger:  logger,
	}, nil
}

// FetchRepositories lists all repositories of a user or organization,
// most recently updated first.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, owner string) ([]domain.Repository, error) {
	g.logger.Debugf("fetching repositories for %s", owner)
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var repos []domain.Repository
	for {
		page, resp, err := g.client.Repositories.ListByUser(ctx, owner, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", owner, err)
		}
		for _, r := range page {
			repos = append(repos, repositoryDoc(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	g.logger.Debugf("fetched %d repositories for %s", len(repos), owner)
	return repos, nil
}

// FetchCommits lists all commits of a repository. An empty repository
// (GitHub answers 409) yields an empty slice rather than an error.
func (g *GitHubGateway) FetchCommits(ctx context.Context, owner, repo string) ([]domain.Commit, error) {
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var commits []domain.Commit
	for {
		page, resp, err := g.client.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			if statusOf(err) == http.StatusConflict {
				g.logger.Infof("repository %s/%s is empty", owner, repo)
				return nil, nil
			}
			return nil, fmt.Errorf("failed to list commits for %s/%s: %w", owner, repo, err)
		}
		for _, c := range page {
			commits = append(commits, commitDoc(c))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return commits, nil
}

// FetchContributors lists the contributors of a repository. GitHub
// answers 404 for repositories without contributor data; that yields an
// empty slice.
func (g *GitHubGateway) FetchContributors(ctx context.Context, owner, repo string) ([]domain.Contributor, error) {
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var contributors []domain.Contributor
	for {
		page, resp, err := g.client.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			if statusOf(err) == http.StatusNotFound {
				g.logger.Warnf("contributors not found for %s/%s", owner, repo)
				return nil, nil
			}
			return nil, fmt.Errorf("failed to list contributors for %s/%s: %w", owner, repo, err)
		}
		for _, c := range page {
			contributors = append(contributors, contributorDoc(c))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return contributors, nil
}

// FetchPullRequests lists all pull requests of a repository, open and
// closed alike.
func (g *GitHubGateway) FetchPullRequests(ctx context.Context, owner, repo string) ([]domain.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var pulls []domain.PullRequest
	for {
		page, resp, err := g.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests for %s/%s: %w", owner, repo, err)
		}
		for _, pr := range page {
			pulls = append(pulls, pullDoc(pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return pulls, nil
}

// FetchIssues lists all issues of a repository. The issues endpoint also
// returns pull requests; those are dropped here so the issues collection
// holds only real issues.
func (g *GitHubGateway) FetchIssues(ctx context.Context, owner, repo string) ([]domain.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var issues []domain.Issue
	for {
		page, resp, err := g.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues for %s/%s: %w", owner, repo, err)
		}
		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, issueDoc(issue))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return issues, nil
}

// FetchIssueComments lists the comments of a single issue.
func (g *GitHubGateway) FetchIssueComments(ctx context.Context, owner, repo string, number int) ([]domain.Comment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var comments []domain.Comment
	for {
		page, resp, err := g.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments for issue %s/%s#%d: %w", owner, repo, number, err)
		}
		for _, c := range page {
			comments = append(comments, issueCommentDoc(c, number))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return comments, nil
}

// FetchPullComments lists the review comments of a single pull request.
func (g *GitHubGateway) FetchPullComments(ctx context.Context, owner, repo string, number int) ([]domain.Comment, error) {
	opts := &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var comments []domain.Comment
	for {
		page, resp, err := g.client.PullRequests.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments for pull %s/%s#%d: %w", owner, repo, number, err)
		}
		for _, c := range page {
			comments = append(comments, pullCommentDoc(c, number))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return comments, nil
}

// statusOf extracts the HTTP status code from a go-github error, or 0.
func statusOf(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}
