package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-activity/internal/domain"
)

// healthQuery checks the token against the GraphQL API.
type healthQuery struct {
	Viewer struct {
		Login githubv4.String
	}
	RateLimit struct {
		Limit     githubv4.Int
		Remaining githubv4.Int
		ResetAt   githubv4.DateTime
	}
}

// CheckHealth probes the REST core rate limit and the GraphQL viewer concurrently.
func (g *GitHubGateway) CheckHealth(ctx context.Context) (*domain.HealthStatus, error) {
	g.logger.Println("Checking GitHub API health...")
	status := &domain.HealthStatus{CheckedAt: time.Now().UTC()}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		limits, _, err := g.restClient.RateLimit.Get(egCtx)
		if err != nil {
			return newFetchError("get REST rate limit", "", err)
		}
		status.Core = fromRate(limits.GetCore())
		return nil
	})
	eg.Go(func() error {
		var q healthQuery
		if err := g.graphqlClient.Query(egCtx, &q, nil); err != nil {
			return fmt.Errorf("failed to execute GraphQL health query: %w", err)
		}
		limit, remaining := int(q.RateLimit.Limit), int(q.RateLimit.Remaining)
		reset := q.RateLimit.ResetAt.Time
		status.Login = string(q.Viewer.Login)
		status.GraphQL = domain.RateLimitInfo{Limit: &limit, Remaining: &remaining, ResetAt: &reset}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	g.logger.Println("GitHub API is healthy.")
	return status, nil
}

func fromRate(r *github.Rate) domain.RateLimitInfo {
	if r == nil {
		return domain.RateLimitInfo{}
	}
	limit, remaining := r.Limit, r.Remaining
	reset := r.Reset.Time
	return domain.RateLimitInfo{Limit: &limit, Remaining: &remaining, ResetAt: &reset}
}
