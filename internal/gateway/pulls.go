package gateway

import (
	"context"

	"github.com/google/go-github/v84/github"
	"github.com/naka-gawa/github-activity/internal/domain"
)

// PullRequestQuery bounds a pull request listing.
type PullRequestQuery struct {
	// MaxItems caps the number of pull requests kept; 0 means no cap.
	MaxItems int
	// Details fetches each kept pull request individually for merge and size data.
	Details bool
}

// ListPullRequests returns the pull requests created, merged or closed in the window.
// The listing is sorted by most recent update, so paging stops once a page
// ends with a pull request last updated before the window starts.
func (g *GitHubGateway) ListPullRequests(ctx context.Context, owner, repo string, window domain.ActivityWindow, q PullRequestQuery, rl *domain.RateLimitInfo) ([]domain.PullRequestSummary, error) {
	opts := &github.PullRequestListOptions{State: "all", Sort: "updated", Direction: "desc"}
	fetch := func(ctx context.Context, lo github.ListOptions) ([]*github.PullRequest, *github.Response, error) {
		opts.ListOptions = lo
		return g.restClient.PullRequests.List(ctx, owner, repo, opts)
	}

	var items []domain.PullRequestSummary
	for page, err := range Pages(ctx, rl, g.perPage, g.maxPages, fetch) {
		if err != nil {
			return nil, newFetchError("list pull requests", repo, err)
		}
		for _, pr := range page {
			if pr.UpdatedAt != nil && pr.UpdatedAt.Before(window.Start) {
				break
			}
			if !pullRequestInWindow(pr, window) {
				continue
			}
			summary := toPullRequestSummary(pr)
			if q.Details {
				detail, resp, err := g.restClient.PullRequests.Get(ctx, owner, repo, pr.GetNumber())
				observe(rl, resp)
				if err != nil {
					return nil, newFetchError("get pull request", repo, err)
				}
				summary.MergedBy = detail.GetMergedBy().GetLogin()
				summary.ReviewsCount = detail.GetReviewComments()
				summary.FilesChanged = detail.GetChangedFiles()
				summary.Additions = detail.GetAdditions()
				summary.Deletions = detail.GetDeletions()
			}
			items = append(items, summary)
			if capReached(len(items), q.MaxItems) {
				break
			}
		}
		if capReached(len(items), q.MaxItems) {
			break
		}
		if len(page) > 0 {
			last := page[len(page)-1]
			if last.UpdatedAt != nil && last.UpdatedAt.Before(window.Start) {
				break
			}
		}
	}
	return items, nil
}

// ListIssues returns the issues (not pull requests) created or closed in the window.
func (g *GitHubGateway) ListIssues(ctx context.Context, owner, repo string, window domain.ActivityWindow, maxItems int, rl *domain.RateLimitInfo) ([]domain.IssueSummary, error) {
	opts := &github.IssueListByRepoOptions{State: "all", Since: window.Start}
	fetch := func(ctx context.Context, lo github.ListOptions) ([]*github.Issue, *github.Response, error) {
		opts.ListOptions = lo
		return g.restClient.Issues.ListByRepo(ctx, owner, repo, opts)
	}

	var items []domain.IssueSummary
	for page, err := range Pages(ctx, rl, g.perPage, g.maxPages, fetch) {
		if err != nil {
			return nil, newFetchError("list issues", repo, err)
		}
		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			created := issue.GetCreatedAt().Time
			if !window.Contains(created) && !window.ContainsPtr(timePtr(issue.ClosedAt)) {
				continue
			}
			items = append(items, domain.IssueSummary{
				Number:    issue.GetNumber(),
				Title:     issue.GetTitle(),
				URL:       issue.GetHTMLURL(),
				State:     issue.GetState(),
				Author:    issue.GetUser().GetLogin(),
				CreatedAt: created,
				ClosedAt:  timePtr(issue.ClosedAt),
			})
			if capReached(len(items), maxItems) {
				break
			}
		}
		if capReached(len(items), maxItems) {
			break
		}
	}
	return items, nil
}

func pullRequestInWindow(pr *github.PullRequest, window domain.ActivityWindow) bool {
	return window.Contains(pr.GetCreatedAt().Time) ||
		window.ContainsPtr(timePtr(pr.MergedAt)) ||
		window.ContainsPtr(timePtr(pr.ClosedAt))
}

func toPullRequestSummary(pr *github.PullRequest) domain.PullRequestSummary {
	reviewers := make([]string, 0, len(pr.RequestedReviewers))
	for _, r := range pr.RequestedReviewers {
		reviewers = append(reviewers, r.GetLogin())
	}
	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}
	return domain.PullRequestSummary{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		URL:       pr.GetHTMLURL(),
		State:     pr.GetState(),
		Author:    pr.GetUser().GetLogin(),
		Reviewers: reviewers,
		Labels:    labels,
		CreatedAt: pr.GetCreatedAt().Time,
		MergedAt:  timePtr(pr.MergedAt),
		ClosedAt:  timePtr(pr.ClosedAt),
	}
}

func capReached(n, max int) bool {
	return max > 0 && n >= max
}
