// Package domain contains the core data structures of the application:
// the documents persisted to MongoDB and the reports computed over them.
package domain

import "time"

// Repository is a source-control repository as stored in the
// "repositories" collection. The GitHub numeric ID is the natural key.
type Repository struct {
	ID            int64      `bson:"id" json:"id"`
	Owner         string     `bson:"owner" json:"owner"`
	Name          string     `bson:"name" json:"name"`
	FullName      string     `bson:"full_name" json:"full_name"`
	Description   string     `bson:"description" json:"description"`
	Language      string     `bson:"language" json:"language"`
	Fork          bool       `bson:"fork" json:"fork"`
	Stars         int        `bson:"stargazers_count" json:"stargazers_count"`
	Forks         int        `bson:"forks_count" json:"forks_count"`
	Watchers      int        `bson:"watchers_count" json:"watchers_count"`
	OpenIssues    int        `bson:"open_issues_count" json:"open_issues_count"`
	DefaultBranch string     `bson:"default_branch" json:"default_branch"`
	HTMLURL       string     `bson:"html_url" json:"html_url"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
	PushedAt      *time.Time `bson:"pushed_at,omitempty" json:"pushed_at,omitempty"`
	CollectedAt   time.Time  `bson:"collected_at" json:"collected_at"`
}

// Commit is a single commit in a repository. Keyed by (sha, repository_id)
// so the same SHA reachable from a fork does not collide.
type Commit struct {
	SHA          string    `bson:"sha" json:"sha"`
	RepositoryID int64     `bson:"repository_id" json:"repository_id"`
	Message      string    `bson:"message" json:"message"`
	AuthorName   string    `bson:"author_name" json:"author_name"`
	AuthorEmail  string    `bson:"author_email" json:"author_email"`
	AuthorLogin  string    `bson:"author_login" json:"author_login"`
	AuthorDate   time.Time `bson:"author_date" json:"author_date"`
	HTMLURL      string    `bson:"html_url" json:"html_url"`
	CollectedAt  time.Time `bson:"collected_at" json:"collected_at"`
}

// Contributor is an account that authored activity in a repository,
// keyed by (login, repository_id).
type Contributor struct {
	ID            int64     `bson:"id" json:"id"`
	Login         string    `bson:"login" json:"login"`
	RepositoryID  int64     `bson:"repository_id" json:"repository_id"`
	Contributions int       `bson:"contributions" json:"contributions"`
	Type          string    `bson:"type" json:"type"`
	AvatarURL     string    `bson:"avatar_url" json:"avatar_url"`
	HTMLURL       string    `bson:"html_url" json:"html_url"`
	CollectedAt   time.Time `bson:"collected_at" json:"collected_at"`
}

// PullRequest is a proposed code change. Merged state is derived from
// merged_at rather than the two-valued GitHub state field.
type PullRequest struct {
	ID           int64      `bson:"id" json:"id"`
	RepositoryID int64      `bson:"repository_id" json:"repository_id"`
	Number       int        `bson:"number" json:"number"`
	Title        string     `bson:"title" json:"title"`
	State        string     `bson:"state" json:"state"`
	AuthorLogin  string     `bson:"author_login" json:"author_login"`
	HTMLURL      string     `bson:"html_url" json:"html_url"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
	ClosedAt     *time.Time `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
	MergedAt     *time.Time `bson:"merged_at,omitempty" json:"merged_at,omitempty"`
	CollectedAt  time.Time  `bson:"collected_at" json:"collected_at"`
}

// Issue is a tracked defect or request. Pull requests returned by the
// GitHub issues endpoint are filtered out before storage.
type Issue struct {
	ID           int64      `bson:"id" json:"id"`
	RepositoryID int64      `bson:"repository_id" json:"repository_id"`
	Number       int        `bson:"number" json:"number"`
	Title        string     `bson:"title" json:"title"`
	State        string     `bson:"state" json:"state"`
	Body         string     `bson:"body" json:"body"`
	AuthorLogin  string     `bson:"author_login" json:"author_login"`
	Comments     int        `bson:"comments" json:"comments"`
	HTMLURL      string     `bson:"html_url" json:"html_url"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
	ClosedAt     *time.Time `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
	CollectedAt  time.Time  `bson:"collected_at" json:"collected_at"`
}

// Comment is a textual reply on an issue or a pull request. Exactly one
// of IssueNumber / PullNumber is non-zero.
type Comment struct {
	ID           int64     `bson:"id" json:"id"`
	RepositoryID int64     `bson:"repository_id" json:"repository_id"`
	IssueNumber  int       `bson:"issue_number,omitempty" json:"issue_number,omitempty"`
	PullNumber   int       `bson:"pull_number,omitempty" json:"pull_number,omitempty"`
	AuthorLogin  string    `bson:"author_login" json:"author_login"`
	Body         string    `bson:"body" json:"body"`
	HTMLURL      string    `bson:"html_url" json:"html_url"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
	CollectedAt  time.Time `bson:"collected_at" json:"collected_at"`
}

// CollectionSummary reports how many documents of each kind a collection
// run upserted.
type CollectionSummary struct {
	Owner        string `json:"owner"`
	Repositories int    `json:"repositories"`
	Commits      int    `json:"commits"`
	Contributors int    `json:"contributors"`
	PullRequests int    `json:"pull_requests"`
	Issues       int    `json:"issues"`
	Comments     int    `json:"comments"`
}
