package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/github-activity/internal/domain"
	"github.com/naka-gawa/github-activity/internal/gateway"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListRepos(ctx context.Context, owner string, ownerType domain.OwnerType, preferActive bool, rl *domain.RateLimitInfo) ([]domain.RepoRef, error) {
	args := m.Called(ctx, owner, ownerType, preferActive, rl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepoRef), args.Error(1)
}

func (m *mockFetcher) ListCommits(ctx context.Context, owner, repo string, window domain.ActivityWindow, rl *domain.RateLimitInfo) ([]domain.CommitRecord, error) {
	args := m.Called(ctx, owner, repo, window, rl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommitRecord), args.Error(1)
}

func (m *mockFetcher) GetRepoOverview(ctx context.Context, owner, repo string, rl *domain.RateLimitInfo) (*domain.RepoOverview, error) {
	args := m.Called(ctx, owner, repo, rl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepoOverview), args.Error(1)
}

func (m *mockFetcher) GetReadme(ctx context.Context, owner, repo string, rl *domain.RateLimitInfo) (string, error) {
	args := m.Called(ctx, owner, repo, rl)
	return args.String(0), args.Error(1)
}

func (m *mockFetcher) GetFileContent(ctx context.Context, owner, repo, path string, rl *domain.RateLimitInfo) (string, error) {
	args := m.Called(ctx, owner, repo, path, rl)
	return args.String(0), args.Error(1)
}

func (m *mockFetcher) GetCommitDiff(ctx context.Context, owner, repo, sha string, rl *domain.RateLimitInfo) (*gateway.CommitDiff, error) {
	args := m.Called(ctx, owner, repo, sha, rl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.CommitDiff), args.Error(1)
}

func (m *mockFetcher) ListPullRequests(ctx context.Context, owner, repo string, window domain.ActivityWindow, q gateway.PullRequestQuery, rl *domain.RateLimitInfo) ([]domain.PullRequestSummary, error) {
	args := m.Called(ctx, owner, repo, window, q, rl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequestSummary), args.Error(1)
}

func (m *mockFetcher) ListIssues(ctx context.Context, owner, repo string, window domain.ActivityWindow, maxItems int, rl *domain.RateLimitInfo) ([]domain.IssueSummary, error) {
	args := m.Called(ctx, owner, repo, window, maxItems, rl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IssueSummary), args.Error(1)
}
