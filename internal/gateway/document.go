package gateway

import (
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/octosync/octosync/internal/domain"
)

// Conversions from go-github types to the documents we persist. The
// repository_id back-reference and collected_at stamp are filled in by
// the store, not here.

func repositoryDoc(r *github.Repository) domain.Repository {
	return domain.Repository{
		ID:            r.GetID(),
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		Language:      r.GetLanguage(),
		Fork:          r.GetFork(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		Watchers:      r.GetWatchersCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		DefaultBranch: r.GetDefaultBranch(),
		HTMLURL:       r.GetHTMLURL(),
		CreatedAt:     r.GetCreatedAt().Time.UTC(),
		UpdatedAt:     r.GetUpdatedAt().Time.UTC(),
		PushedAt:      timePtr(r.PushedAt),
	}
}

func commitDoc(c *github.RepositoryCommit) domain.Commit {
	return domain.Commit{
		SHA:         c.GetSHA(),
		Message:     c.GetCommit().GetMessage(),
		AuthorName:  c.GetCommit().GetAuthor().GetName(),
		AuthorEmail: c.GetCommit().GetAuthor().GetEmail(),
		AuthorLogin: c.GetAuthor().GetLogin(),
		AuthorDate:  c.GetCommit().GetAuthor().GetDate().Time.UTC(),
		HTMLURL:     c.GetHTMLURL(),
	}
}

func contributorDoc(c *github.Contributor) domain.Contributor {
	return domain.Contributor{
		ID:            c.GetID(),
		Login:         c.GetLogin(),
		Contributions: c.GetContributions(),
		Type:          c.GetType(),
		AvatarURL:     c.GetAvatarURL(),
		HTMLURL:       c.GetHTMLURL(),
	}
}

func pullDoc(pr *github.PullRequest) domain.PullRequest {
	return domain.PullRequest{
		ID:          pr.GetID(),
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		State:       pr.GetState(),
		AuthorLogin: pr.GetUser().GetLogin(),
		HTMLURL:     pr.GetHTMLURL(),
		CreatedAt:   pr.GetCreatedAt().Time.UTC(),
		UpdatedAt:   pr.GetUpdatedAt().Time.UTC(),
		ClosedAt:    timePtr(pr.ClosedAt),
		MergedAt:    timePtr(pr.MergedAt),
	}
}

func issueDoc(issue *github.Issue) domain.Issue {
	return domain.Issue{
		ID:          issue.GetID(),
		Number:      issue.GetNumber(),
		Title:       issue.GetTitle(),
		State:       issue.GetState(),
		Body:        issue.GetBody(),
		AuthorLogin: issue.GetUser().GetLogin(),
		Comments:    issue.GetComments(),
		HTMLURL:     issue.GetHTMLURL(),
		CreatedAt:   issue.GetCreatedAt().Time.UTC(),
		UpdatedAt:   issue.GetUpdatedAt().Time.UTC(),
		ClosedAt:    timePtr(issue.ClosedAt),
	}
}

func issueCommentDoc(c *github.IssueComment, number int) domain.Comment {
	return domain.Comment{
		ID:          c.GetID(),
		IssueNumber: number,
		AuthorLogin: c.GetUser().GetLogin(),
		Body:        c.GetBody(),
		HTMLURL:     c.GetHTMLURL(),
		CreatedAt:   c.GetCreatedAt().Time.UTC(),
		UpdatedAt:   c.GetUpdatedAt().Time.UTC(),
	}
}

func pullCommentDoc(c *github.PullRequestComment, number int) domain.Comment {
	return domain.Comment{
		ID:          c.GetID(),
		PullNumber:  number,
		AuthorLogin: c.GetUser().GetLogin(),
		Body:        c.GetBody(),
		HTMLURL:     c.GetHTMLURL(),
		CreatedAt:   c.GetCreatedAt().Time.UTC(),
		UpdatedAt:   c.GetUpdatedAt().Time.UTC(),
	}
}

func timePtr(ts *github.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}
