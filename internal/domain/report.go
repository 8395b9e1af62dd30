package domain

import "time"

// RepoDetail is the per-repository row of an OwnerReport.
type RepoDetail struct {
	Name         string    `json:"name"`
	Language     string    `json:"language,omitempty"`
	Stars        int       `json:"stars"`
	Forks        int       `json:"forks"`
	Commits      int64     `json:"commits"`
	Contributors int64     `json:"contributors"`
	PullRequests int64     `json:"pull_requests"`
	Issues       int64     `json:"issues"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnerReport summarizes everything stored for one owner.
type OwnerReport struct {
	Owner             string         `json:"owner"`
	TotalRepositories int            `json:"total_repositories"`
	TotalStars        int            `json:"total_stars"`
	TotalForks        int            `json:"total_forks"`
	TotalWatchers     int            `json:"total_watchers"`
	Languages         map[string]int `json:"languages"`
	MostStarred       string         `json:"most_starred,omitempty"`
	MostForked        string         `json:"most_forked,omitempty"`
	Repositories      []RepoDetail   `json:"repositories"`
}

// AuthorActivity is one author's commit count inside an activity window.
type AuthorActivity struct {
	Author  string `json:"author"`
	Commits int    `json:"commits"`
}

// CommitActivity describes commit volume over the trailing N days.
type CommitActivity struct {
	PeriodDays         int              `json:"period_days"`
	TotalCommits       int              `json:"total_commits"`
	ActiveDays         int              `json:"active_days"`
	MeanPerActiveDay   float64          `json:"mean_per_active_day"`
	MedianPerActiveDay float64          `json:"median_per_active_day"`
	Daily              map[string]int   `json:"daily_commits"`
	TopAuthors         []AuthorActivity `json:"top_authors"`
}

// StateBreakdown is a per-state count of issues.
type StateBreakdown struct {
	Total     int64            `json:"total"`
	ByState   map[string]int64 `json:"by_state"`
	OpenRatio float64          `json:"open_ratio"`
}

// PullBreakdown is a per-state count of pull requests. Merged is counted
// from merged_at since GitHub reports merged PRs as "closed".
type PullBreakdown struct {
	Total       int64            `json:"total"`
	ByState     map[string]int64 `json:"by_state"`
	Merged      int64            `json:"merged"`
	MergedRatio float64          `json:"merged_ratio"`
}

// IssuePullStats pairs the issue and pull request breakdowns.
type IssuePullStats struct {
	Issues       StateBreakdown `json:"issues"`
	PullRequests PullBreakdown  `json:"pull_requests"`
}

// ContributorActivity is one contributor aggregated across repositories.
type ContributorActivity struct {
	Login         string `json:"login"`
	Repositories  int    `json:"repositories"`
	Contributions int    `json:"contributions"`
}

// ContributorReport aggregates contributors across an owner's repositories.
type ContributorReport struct {
	TotalContributors     int                   `json:"total_contributors"`
	MultiRepoContributors int                   `json:"multi_repo_contributors"`
	Top                   []ContributorActivity `json:"top_contributors"`
}

// RecentCommit is the compact commit row of a RecentActivity report.
type RecentCommit struct {
	SHA        string    `json:"sha"`
	Message    string    `json:"message"`
	Author     string    `json:"author"`
	Date       time.Time `json:"date"`
	Repository string    `json:"repository"`
}

// RecentItem is the compact issue/PR row of a RecentActivity report.
type RecentItem struct {
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
	Repository string    `json:"repository"`
}

// RecentActivity lists the latest activity across an owner's repositories.
type RecentActivity struct {
	Commits      []RecentCommit `json:"commits"`
	Issues       []RecentItem   `json:"issues"`
	PullRequests []RecentItem   `json:"pull_requests"`
}

// SearchResult is one repository matched by a search query.
type SearchResult struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	UpdatedAt   time.Time `json:"updated_at"`
}
