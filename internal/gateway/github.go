// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/github-activity/internal/domain"
)

const (
	defaultPerPage = 100
	unknownAuthor  = "unknown"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
// Every call records the rate-limit headers it sees on rl.
type Fetcher interface {
	ListRepos(ctx context.Context, owner string, ownerType domain.OwnerType, preferActive bool, rl *domain.RateLimitInfo) ([]domain.RepoRef, error)
	ListCommits(ctx context.Context, owner, repo string, window domain.ActivityWindow, rl *domain.RateLimitInfo) ([]domain.CommitRecord, error)
	GetRepoOverview(ctx context.Context, owner, repo string, rl *domain.RateLimitInfo) (*domain.RepoOverview, error)
	GetReadme(ctx context.Context, owner, repo string, rl *domain.RateLimitInfo) (string, error)
	GetFileContent(ctx context.Context, owner, repo, path string, rl *domain.RateLimitInfo) (string, error)
	GetCommitDiff(ctx context.Context, owner, repo, sha string, rl *domain.RateLimitInfo) (*CommitDiff, error)
	ListPullRequests(ctx context.Context, owner, repo string, window domain.ActivityWindow, q PullRequestQuery, rl *domain.RateLimitInfo) ([]domain.PullRequestSummary, error)
	ListIssues(ctx context.Context, owner, repo string, window domain.ActivityWindow, maxItems int, rl *domain.RateLimitInfo) ([]domain.IssueSummary, error)
}

// Options configures the HTTP stack and the paging behavior of the gateway.
type Options struct {
	Token             string
	BaseURL           string
	GraphQLURL        string
	PerPage           int
	MaxPages          int
	RequestsPerSecond float64
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
	perPage       int
	maxPages      int
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *log.Logger) (*GitHubGateway, error) {
	var base http.RoundTripper = http.DefaultTransport
	if opts.RequestsPerSecond > 0 {
		base = newPacedTransport(base, opts.RequestsPerSecond)
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(base, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	httpClient := &http.Client{Transport: transport}

	restClient := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URL: %w", err)
		}
	}
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}

	return newGateway(restClient, graphqlClient, logger, opts.PerPage, opts.MaxPages), nil
}

func newGateway(rest *github.Client, gql *githubv4.Client, logger *log.Logger, perPage, maxPages int) *GitHubGateway {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &GitHubGateway{
		restClient:    rest,
		graphqlClient: gql,
		logger:        logger,
		perPage:       perPage,
		maxPages:      maxPages,
	}
}

// ListRepos lists the owner's repositories through the org or user endpoint.
// With preferActive the listing is sorted by most recent push.
func (g *GitHubGateway) ListRepos(ctx context.Context, owner string, ownerType domain.OwnerType, preferActive bool, rl *domain.RateLimitInfo) ([]domain.RepoRef, error) {
	var sort, direction string
	if preferActive {
		sort, direction = "pushed", "desc"
	}

	var fetch PageFunc[*github.Repository]
	if ownerType == domain.OwnerOrg {
		fetch = func(ctx context.Context, lo github.ListOptions) ([]*github.Repository, *github.Response, error) {
			return g.restClient.Repositories.ListByOrg(ctx, owner, &github.RepositoryListByOrgOptions{
				Type: "all", Sort: sort, Direction: direction, ListOptions: lo,
			})
		}
	} else {
		fetch = func(ctx context.Context, lo github.ListOptions) ([]*github.Repository, *github.Response, error) {
			return g.restClient.Repositories.ListByUser(ctx, owner, &github.RepositoryListByUserOptions{
				Sort: sort, Direction: direction, ListOptions: lo,
			})
		}
	}

	g.logger.Printf("Listing repositories for %s %s...", ownerType, owner)
	repos, err := Paginate(ctx, rl, g.perPage, g.maxPages, fetch)
	if err != nil {
		return nil, newFetchError("list repositories", owner, err)
	}
	refs := make([]domain.RepoRef, 0, len(repos))
	for _, r := range repos {
		refs = append(refs, domain.RepoRef{
			Name:    r.GetName(),
			Private: r.GetPrivate(),
			HTMLURL: r.GetHTMLURL(),
		})
	}
	g.logger.Printf("Listed %d repositories.", len(refs))
	return refs, nil
}

// ListCommits lists the commits of a repository within the window.
func (g *GitHubGateway) ListCommits(ctx context.Context, owner, repo string, window domain.ActivityWindow, rl *domain.RateLimitInfo) ([]domain.CommitRecord, error) {
	commits, err := Paginate(ctx, rl, g.perPage, g.maxPages,
		func(ctx context.Context, lo github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
			return g.restClient.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
				Since: window.Start, Until: window.End, ListOptions: lo,
			})
		})
	if err != nil {
		return nil, newFetchError("list commits", repo, err)
	}
	records := make([]domain.CommitRecord, 0, len(commits))
	for _, c := range commits {
		records = append(records, toCommitRecord(c, window))
	}
	return records, nil
}

func toCommitRecord(c *github.RepositoryCommit, window domain.ActivityWindow) domain.CommitRecord {
	author := c.GetAuthor().GetLogin()
	commitAuthor := c.GetCommit().GetAuthor()
	if author == "" {
		author = commitAuthor.GetName()
	}
	if author == "" {
		author = unknownAuthor
	}
	date := window.End
	if commitAuthor != nil && commitAuthor.Date != nil {
		date = commitAuthor.Date.Time
	}
	return domain.CommitRecord{
		SHA:     c.GetSHA(),
		Message: c.GetCommit().GetMessage(),
		Author:  author,
		Date:    date,
		URL:     c.GetHTMLURL(),
	}
}

func timePtr(ts *github.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}
