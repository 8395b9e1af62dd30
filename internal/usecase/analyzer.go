package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/octosync/octosync/internal/domain"
	"github.com/octosync/octosync/internal/storage"
)

const topListSize = 10

// Analyzer answers analytical queries over the collected data.
type Analyzer struct {
	store  storage.Reader
	logger logrus.FieldLogger
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(store storage.Reader, logger logrus.FieldLogger) *Analyzer {
	return &Analyzer{
		store:  store,
		logger: logger,
	}
}

// OwnerReport builds the per-owner repository summary: totals, language
// breakdown, and a per-repository row with entity counts.
func (a *Analyzer) OwnerReport(ctx context.Context, owner string) (*domain.OwnerReport, error) {
	repos, err := a.store.RepositoriesByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	report := &domain.OwnerReport{
		Owner:             owner,
		TotalRepositories: len(repos),
		Languages:         make(map[string]int),
		Repositories:      make([]domain.RepoDetail, 0, len(repos)),
	}

	var maxStars, maxForks int
	for _, repo := range repos {
		report.TotalStars += repo.Stars
		report.TotalForks += repo.Forks
		report.TotalWatchers += repo.Watchers
		if repo.Language != "" {
			report.Languages[repo.Language]++
		}
		if report.MostStarred == "" || repo.Stars > maxStars {
			maxStars, report.MostStarred = repo.Stars, repo.Name
		}
		if report.MostForked == "" || repo.Forks > maxForks {
			maxForks, report.MostForked = repo.Forks, repo.Name
		}

		detail := domain.RepoDetail{
			Name:      repo.Name,
			Language:  repo.Language,
			Stars:     repo.Stars,
			Forks:     repo.Forks,
			CreatedAt: repo.CreatedAt,
			UpdatedAt: repo.UpdatedAt,
		}
		for collection, target := range map[string]*int64{
			storage.CollectionCommits:      &detail.Commits,
			storage.CollectionContributors: &detail.Contributors,
			storage.CollectionPullRequests: &detail.PullRequests,
			storage.CollectionIssues:       &detail.Issues,
		} {
			n, err := a.store.CountByRepository(ctx, collection, repo.ID)
			if err != nil {
				return nil, err
			}
			*target = n
		}
		report.Repositories = append(report.Repositories, detail)
	}

	sort.Slice(report.Repositories, func(i, j int) bool {
		return report.Repositories[i].Name < report.Repositories[j].Name
	})
	return report, nil
}

// CommitActivity summarizes commit volume over the trailing N days:
// per-day counts, top authors, and mean/median commits per active day.
func (a *Analyzer) CommitActivity(ctx context.Context, owner string, days int) (*domain.CommitActivity, error) {
	if days <= 0 {
		days = 30
	}
	repos, err := a.store.RepositoriesByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	commits, err := a.store.CommitsSince(ctx, repositoryIDs(repos), since)
	if err != nil {
		return nil, err
	}

	activity := &domain.CommitActivity{
		PeriodDays:   days,
		TotalCommits: len(commits),
		Daily:        make(map[string]int),
	}
	authors := make(map[string]int)
	for _, commit := range commits {
		activity.Daily[commit.AuthorDate.Format("2006-01-02")]++
		author := commit.AuthorName
		if author == "" {
			author = commit.AuthorLogin
		}
		authors[author]++
	}
	activity.ActiveDays = len(activity.Daily)
	activity.TopAuthors = topAuthors(authors)

	if activity.ActiveDays > 0 {
		perDay := make([]float64, 0, activity.ActiveDays)
		for _, n := range activity.Daily {
			perDay = append(perDay, float64(n))
		}
		if activity.MeanPerActiveDay, err = stats.Mean(perDay); err != nil {
			return nil, err
		}
		if activity.MedianPerActiveDay, err = stats.Median(perDay); err != nil {
			return nil, err
		}
	}
	return activity, nil
}

// IssuePullStats breaks issues and pull requests down by state. Merged
// pull requests are counted separately since GitHub folds them into
// "closed".
func (a *Analyzer) IssuePullStats(ctx context.Context, owner string) (*domain.IssuePullStats, error) {
	repos, err := a.store.RepositoriesByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	ids := repositoryIDs(repos)

	issuesByState, err := a.store.CountByState(ctx, storage.CollectionIssues, ids)
	if err != nil {
		return nil, err
	}
	pullsByState, err := a.store.CountByState(ctx, storage.CollectionPullRequests, ids)
	if err != nil {
		return nil, err
	}
	merged, err := a.store.CountMergedPulls(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &domain.IssuePullStats{
		Issues:       domain.StateBreakdown{ByState: issuesByState},
		PullRequests: domain.PullBreakdown{ByState: pullsByState, Merged: merged},
	}
	for _, n := range issuesByState {
		result.Issues.Total += n
	}
	for _, n := range pullsByState {
		result.PullRequests.Total += n
	}
	if result.Issues.Total > 0 {
		result.Issues.OpenRatio = float64(issuesByState["open"]) / float64(result.Issues.Total)
	}
	if result.PullRequests.Total > 0 {
		result.PullRequests.MergedRatio = float64(merged) / float64(result.PullRequests.Total)
	}
	return result, nil
}

// ContributorReport aggregates contributor records across the owner's
// repositories into per-login totals.
func (a *Analyzer) ContributorReport(ctx context.Context, owner string) (*domain.ContributorReport, error) {
	repos, err := a.store.RepositoriesByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	contributors, err := a.store.ContributorsByRepositories(ctx, repositoryIDs(repos))
	if err != nil {
		return nil, err
	}

	type entry struct {
		repos         int
		contributions int
	}
	byLogin := make(map[string]*entry)
	for _, contributor := range contributors {
		e, ok := byLogin[contributor.Login]
		if !ok {
			e = &entry{}
			byLogin[contributor.Login] = e
		}
		e.repos++
		e.contributions += contributor.Contributions
	}

	report := &domain.ContributorReport{TotalContributors: len(byLogin)}
	all := make([]domain.ContributorActivity, 0, len(byLogin))
	for login, e := range byLogin {
		if e.repos > 1 {
			report.MultiRepoContributors++
		}
		all = append(all, domain.ContributorActivity{
			Login:         login,
			Repositories:  e.repos,
			Contributions: e.contributions,
		})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Contributions != all[j].Contributions {
			return all[i].Contributions > all[j].Contributions
		}
		return all[i].Login < all[j].Login
	})
	if len(all) > topListSize {
		all = all[:topListSize]
	}
	report.Top = all
	return report, nil
}

// SearchRepositories matches stored repositories by name or description.
func (a *Analyzer) SearchRepositories(ctx context.Context, query, owner string) ([]domain.SearchResult, error) {
	repos, err := a.store.SearchRepositories(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(repos))
	for _, repo := range repos {
		results = append(results, domain.SearchResult{
			Name:        repo.Name,
			FullName:    repo.FullName,
			Description: repo.Description,
			Language:    repo.Language,
			Stars:       repo.Stars,
			Forks:       repo.Forks,
			UpdatedAt:   repo.UpdatedAt,
		})
	}
	return results, nil
}

// RecentActivity lists the latest commits, issues, and pull requests
// across the owner's repositories.
func (a *Analyzer) RecentActivity(ctx context.Context, owner string, limit int) (*domain.RecentActivity, error) {
	if limit <= 0 {
		limit = 50
	}
	repos, err := a.store.RepositoriesByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	ids := repositoryIDs(repos)
	names := make(map[int64]string, len(repos))
	for _, repo := range repos {
		names[repo.ID] = repo.FullName
	}

	commits, err := a.store.RecentCommits(ctx, ids, limit)
	if err != nil {
		return nil, err
	}
	issues, err := a.store.RecentIssues(ctx, ids, limit)
	if err != nil {
		return nil, err
	}
	pulls, err := a.store.RecentPulls(ctx, ids, limit)
	if err != nil {
		return nil, err
	}

	activity := &domain.RecentActivity{
		Commits:      make([]domain.RecentCommit, 0, len(commits)),
		Issues:       make([]domain.RecentItem, 0, len(issues)),
		PullRequests: make([]domain.RecentItem, 0, len(pulls)),
	}
	for _, commit := range commits {
		activity.Commits = append(activity.Commits, domain.RecentCommit{
			SHA:        shortSHA(commit.SHA),
			Message:    firstLine(commit.Message),
			Author:     commit.AuthorName,
			Date:       commit.AuthorDate,
			Repository: names[commit.RepositoryID],
		})
	}
	for _, issue := range issues {
		activity.Issues = append(activity.Issues, domain.RecentItem{
			Number:     issue.Number,
			Title:      issue.Title,
			State:      issue.State,
			CreatedAt:  issue.CreatedAt,
			Repository: names[issue.RepositoryID],
		})
	}
	for _, pull := range pulls {
		activity.PullRequests = append(activity.PullRequests, domain.RecentItem{
			Number:     pull.Number,
			Title:      pull.Title,
			State:      pull.State,
			CreatedAt:  pull.CreatedAt,
			Repository: names[pull.RepositoryID],
		})
	}
	return activity, nil
}

func repositoryIDs(repos []domain.Repository) []int64 {
	ids := make([]int64, 0, len(repos))
	for _, repo := range repos {
		ids = append(ids, repo.ID)
	}
	return ids
}

func topAuthors(counts map[string]int) []domain.AuthorActivity {
	authors := make([]domain.AuthorActivity, 0, len(counts))
	for author, n := range counts {
		authors = append(authors, domain.AuthorActivity{Author: author, Commits: n})
	}
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].Commits != authors[j].Commits {
			return authors[i].Commits > authors[j].Commits
		}
		return authors[i].Author < authors[j].Author
	})
	if len(authors) > topListSize {
		authors = authors[:topListSize]
	}
	return authors
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func firstLine(message string) string {
	if line, _, found := strings.Cut(message, "\n"); found {
		return line
	}
	return message
}
