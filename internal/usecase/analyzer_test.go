package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/octosync/octosync/internal/domain"
	"github.com/octosync/octosync/internal/storage"
)

// mockReader is a mock implementation of the storage.Reader interface.
type mockReader struct {
	mock.Mock
}

func (m *mockReader) RepositoriesByOwner(ctx context.Context, owner string) ([]domain.Repository, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func (m *mockReader) CountByRepository(ctx context.Context, collection string, repositoryID int64) (int64, error) {
	args := m.Called(ctx, collection, repositoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReader) CommitsSince(ctx context.Context, repositoryIDs []int64, since time.Time) ([]domain.Commit, error) {
	args := m.Called(ctx, repositoryIDs, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockReader) CountByState(ctx context.Context, collection string, repositoryIDs []int64) (map[string]int64, error) {
	args := m.Called(ctx, collection, repositoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockReader) CountMergedPulls(ctx context.Context, repositoryIDs []int64) (int64, error) {
	args := m.Called(ctx, repositoryIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReader) ContributorsByRepositories(ctx context.Context, repositoryIDs []int64) ([]domain.Contributor, error) {
	args := m.Called(ctx, repositoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contributor), args.Error(1)
}

func (m *mockReader) SearchRepositories(ctx context.Context, query, owner string) ([]domain.Repository, error) {
	args := m.Called(ctx, query, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func (m *mockReader) RecentCommits(ctx context.Context, repositoryIDs []int64, limit int) ([]domain.Commit, error) {
	args := m.Called(ctx, repositoryIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockReader) RecentIssues(ctx context.Context, repositoryIDs []int64, limit int) ([]domain.Issue, error) {
	args := m.Called(ctx, repositoryIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *mockReader) RecentPulls(ctx context.Context, repositoryIDs []int64, limit int) ([]domain.PullRequest, error) {
	args := m.Called(ctx, repositoryIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func TestAnalyzer_OwnerReport(t *testing.T) {
	repos := []domain.Repository{
		{ID: 1, Name: "zeta", Language: "Go", Stars: 10, Forks: 2, Watchers: 10},
		{ID: 2, Name: "alpha", Language: "Go", Stars: 3, Forks: 8, Watchers: 3},
	}
	store := new(mockReader)
	store.On("RepositoriesByOwner", mock.Anything, "octocat").Return(repos, nil)
	for _, collection := range []string{
		storage.CollectionCommits, storage.CollectionContributors,
		storage.CollectionPullRequests, storage.CollectionIssues,
	} {
		store.On("CountByRepository", mock.Anything, collection, int64(1)).Return(int64(5), nil)
		store.On("CountByRepository", mock.Anything, collection, int64(2)).Return(int64(1), nil)
	}

	analyzer := NewAnalyzer(store, testLogger())
	report, err := analyzer.OwnerReport(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalRepositories)
	assert.Equal(t, 13, report.TotalStars)
	assert.Equal(t, 10, report.TotalForks)
	assert.Equal(t, map[string]int{"Go": 2}, report.Languages)
	assert.Equal(t, "zeta", report.MostStarred)
	assert.Equal(t, "alpha", report.MostForked)
	// Rows are sorted by repository name.
	require.Len(t, report.Repositories, 2)
	assert.Equal(t, "alpha", report.Repositories[0].Name)
	assert.Equal(t, int64(1), report.Repositories[0].Commits)
	assert.Equal(t, int64(5), report.Repositories[1].PullRequests)
}

func TestAnalyzer_CommitActivity(t *testing.T) {
	repos := []domain.Repository{{ID: 1, Name: "repo-a"}}
	day1 := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)
	commits := []domain.Commit{
		{SHA: "a", AuthorName: "Alice", AuthorDate: day1},
		{SHA: "b", AuthorName: "Alice", AuthorDate: day1.Add(2 * time.Hour)},
		{SHA: "c", AuthorName: "Bob", AuthorDate: day1.Add(3 * time.Hour)},
		{SHA: "d", AuthorName: "", AuthorLogin: "carol", AuthorDate: day2},
	}
	store := new(mockReader)
	store.On("RepositoriesByOwner", mock.Anything, "octocat").Return(repos, nil)
	store.On("CommitsSince", mock.Anything, []int64{1}, mock.Anything).Return(commits, nil)

	analyzer := NewAnalyzer(store, testLogger())
	activity, err := analyzer.CommitActivity(context.Background(), "octocat", 30)

	require.NoError(t, err)
	assert.Equal(t, 30, activity.PeriodDays)
	assert.Equal(t, 4, activity.TotalCommits)
	assert.Equal(t, 2, activity.ActiveDays)
	assert.Equal(t, map[string]int{"2026-08-20": 3, "2026-08-21": 1}, activity.Daily)
	assert.InDelta(t, 2.0, activity.MeanPerActiveDay, 1e-9)
	assert.InDelta(t, 2.0, activity.MedianPerActiveDay, 1e-9)
	// Alice leads, the nameless commit falls back to the login.
	require.NotEmpty(t, activity.TopAuthors)
	assert.Equal(t, domain.AuthorActivity{Author: "Alice", Commits: 2}, activity.TopAuthors[0])
	assert.Contains(t, activity.TopAuthors, domain.AuthorActivity{Author: "carol", Commits: 1})
}

func TestAnalyzer_CommitActivity_NoCommits(t *testing.T) {
	store := new(mockReader)
	store.On("RepositoriesByOwner", mock.Anything, "octocat").Return([]domain.Repository{}, nil)
	store.On("CommitsSince", mock.Anything, []int64{}, mock.Anything).Return([]domain.Commit{}, nil)

	analyzer := NewAnalyzer(store, testLogger())
	activity, err := analyzer.CommitActivity(context.Background(), "octocat", 0)

	require.NoError(t, err)
	assert.Equal(t, 30, activity.PeriodDays, "days defaults to 30")
	assert.Zero(t, activity.TotalCommits)
	assert.Zero(t, activity.MeanPerActiveDay)
}

func TestAnalyzer_IssuePullStats(t *testing.T) {
	repos := []domain.Repository{{ID: 1}, {ID: 2}}
	store := new(mockReader)
	store.On("RepositoriesByOwner", mock.Anything, "octocat").Return(repos, nil)
	store.On("CountByState", mock.Anything, storage.CollectionIssues, []int64{1, 2}).
		Return(map[string]int64{"open": 2, "closed": 3}, nil)
	store.On("CountByState", mock.Anything, storage.CollectionPullRequests, []int64{1, 2}).
		Return(map[string]int64{"open": 1, "closed": 4}, nil)
	store.On("CountMergedPulls", mock.Anything, []int64{1, 2}).Return(int64(3), nil)

	analyzer := NewAnalyzer(store, testLogger())
	result, err := analyzer.IssuePullStats(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Issues.Total)
	assert.InDelta(t, 0.4, result.Issues.OpenRatio, 1e-9)
	assert.Equal(t, int64(5), result.PullRequests.Total)
	assert.Equal(t, int64(3), result.PullRequests.Merged)
	assert.InDelta(t, 0.6, result.PullRequests.MergedRatio, 1e-9)
}

func TestAnalyzer_ContributorReport(t *testing.T) {
	repos := []domain.Repository{{ID: 1}, {ID: 2}}
	contributors := []domain.Contributor{
		{Login: "alice", RepositoryID: 1, Contributions: 10},
		{Login: "alice", RepositoryID: 2, Contributions: 5},
		{Login: "bob", RepositoryID: 1, Contributions: 7},
	}
	store := new(mockReader)
	store.On("RepositoriesByOwner", mock.Anything, "octocat").Return(repos, nil)
	store.On("ContributorsByRepositories", mock.Anything, []int64{1, 2}).Return(contributors, nil)

	analyzer := NewAnalyzer(store, testLogger())
	report, err := analyzer.ContributorReport(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalContributors)
	assert.Equal(t, 1, report.MultiRepoContributors)
	require.Len(t, report.Top, 2)
	assert.Equal(t, domain.ContributorActivity{Login: "alice", Repositories: 2, Contributions: 15}, report.Top[0])
	assert.Equal(t, domain.ContributorActivity{Login: "bob", Repositories: 1, Contributions: 7}, report.Top[1])
}

func TestAnalyzer_RecentActivity(t *testing.T) {
	repos := []domain.Repository{{ID: 1, FullName: "octocat/repo-a"}}
	commitDate := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	store := new(mockReader)
	store.On("RepositoriesByOwner", mock.Anything, "octocat").Return(repos, nil)
	store.On("RecentCommits", mock.Anything, []int64{1}, 50).Return([]domain.Commit{{
		SHA:          "abcdef0123456789",
		Message:      "fix: sync deadlock\n\nLonger explanation.",
		AuthorName:   "Alice",
		AuthorDate:   commitDate,
		RepositoryID: 1,
	}}, nil)
	store.On("RecentIssues", mock.Anything, []int64{1}, 50).Return([]domain.Issue{{
		Number: 3, Title: "Crash on start", State: "open", CreatedAt: commitDate, RepositoryID: 1,
	}}, nil)
	store.On("RecentPulls", mock.Anything, []int64{1}, 50).Return([]domain.PullRequest{{
		Number: 5, Title: "Speed up sync", State: "closed", CreatedAt: commitDate, RepositoryID: 1,
	}}, nil)

	analyzer := NewAnalyzer(store, testLogger())
	activity, err := analyzer.RecentActivity(context.Background(), "octocat", 0)

	require.NoError(t, err)
	require.Len(t, activity.Commits, 1)
	assert.Equal(t, domain.RecentCommit{
		SHA:        "abcdef0",
		Message:    "fix: sync deadlock",
		Author:     "Alice",
		Date:       commitDate,
		Repository: "octocat/repo-a",
	}, activity.Commits[0])
	require.Len(t, activity.Issues, 1)
	assert.Equal(t, "octocat/repo-a", activity.Issues[0].Repository)
	require.Len(t, activity.PullRequests, 1)
	assert.Equal(t, 5, activity.PullRequests[0].Number)
}

func TestAnalyzer_SearchRepositories(t *testing.T) {
	store := new(mockReader)
	store.On("SearchRepositories", mock.Anything, "sync", "octocat").Return([]domain.Repository{
		{Name: "octosync", FullName: "octocat/octosync", Description: "GitHub to MongoDB sync", Stars: 12},
	}, nil)

	analyzer := NewAnalyzer(store, testLogger())
	results, err := analyzer.SearchRepositories(context.Background(), "sync", "octocat")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "octocat/octosync", results[0].FullName)
	assert.Equal(t, 12, results[0].Stars)
}

func TestAnalyzer_StoreErrorsPropagate(t *testing.T) {
	store := new(mockReader)
	store.On("RepositoriesByOwner", mock.Anything, "octocat").Return(nil, errors.New("connection reset"))

	analyzer := NewAnalyzer(store, testLogger())

	_, err := analyzer.OwnerReport(context.Background(), "octocat")
	assert.Error(t, err)
	_, err = analyzer.IssuePullStats(context.Background(), "octocat")
	assert.Error(t, err)
}
