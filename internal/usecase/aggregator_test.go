package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-activity/internal/config"
	"github.com/naka-gawa/github-activity/internal/domain"
	"github.com/naka-gawa/github-activity/internal/gateway"
)

// TestAggregator_Aggregate uses a table-driven approach to test the aggregator.
func TestAggregator_Aggregate(t *testing.T) {
	window := day(t, 2025, time.March, 3)
	apiErr := errors.New("github api error")
	prs := []domain.PullRequestSummary{
		{Number: 7, Author: "bob", CreatedAt: at(2025, 3, 2, 10), MergedAt: ptr(at(2025, 3, 3, 10)), ClosedAt: ptr(at(2025, 3, 3, 10))},
	}

	testCases := []struct {
		name           string
		listReposErr   error
		pullsErr       error
		includeRepos   bool
		wantErr        bool
		wantProviderOK bool
		wantPRsMerged  int
	}{
		{
			name:           "happy path - fetches, enriches and computes metrics",
			includeRepos:   true,
			wantProviderOK: true,
			wantPRsMerged:  1,
		},
		{
			name:           "provider failure still yields a report",
			pullsErr:       apiErr,
			wantProviderOK: false,
		},
		{
			name:         "error case - listing repositories fails",
			listReposErr: apiErr,
			wantErr:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange: Set up the test for this specific case ---
			ctx := context.Background()
			fetcher := new(mockFetcher)
			if tc.listReposErr != nil {
				fetcher.On("ListRepos", mock.Anything, "acme", domain.OwnerOrg, false, mock.Anything).Return(nil, tc.listReposErr)
			} else {
				fetcher.On("ListRepos", mock.Anything, "acme", domain.OwnerOrg, false, mock.Anything).
					Return([]domain.RepoRef{{Name: "api"}, {Name: "docs"}}, nil)
				fetcher.On("ListCommits", mock.Anything, "acme", "api", window, mock.Anything).
					Return([]domain.CommitRecord{{SHA: "c1", Author: "alice", Date: at(2025, 3, 3, 9)}}, nil)
				fetcher.On("ListCommits", mock.Anything, "acme", "docs", window, mock.Anything).
					Return([]domain.CommitRecord{}, nil)
				q := gateway.PullRequestQuery{MaxItems: 50}
				if tc.pullsErr != nil {
					fetcher.On("ListPullRequests", mock.Anything, "acme", mock.Anything, window, q, mock.Anything).Return(nil, tc.pullsErr)
				} else {
					fetcher.On("ListPullRequests", mock.Anything, "acme", "api", window, q, mock.Anything).Return(prs, nil)
					fetcher.On("ListPullRequests", mock.Anything, "acme", "docs", window, q, mock.Anything).Return([]domain.PullRequestSummary{}, nil)
				}
			}

			cfg := config.Default()
			cfg.GitHub.Owner = "acme"
			cfg.GitHub.OwnerType = domain.OwnerOrg
			cfg.Network = config.NetworkConfig{}
			aggregator := NewAggregator(
				NewActivityFetcher(fetcher, nil, discardLogger),
				NewEnrichmentPipeline(fetcher, discardLogger),
				discardLogger,
			)

			// --- Act: Execute the method we want to test ---
			report, err := aggregator.Aggregate(ctx, AggregateRequest{
				RunID:             "run-1",
				Config:            cfg,
				Window:            window,
				ProviderAllowlist: []string{ProviderPullRequests},
				IncludeRepos:      tc.includeRepos,
			})

			// --- Assert: Check the results ---
			if tc.wantErr {
				assert.ErrorIs(t, err, tc.listReposErr)
				assert.Nil(t, report)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "run-1", report.RunID)
			assert.Equal(t, "acme", report.Owner)
			assert.Equal(t, domain.ProfileStandard, report.DataProfile)
			require.Len(t, report.Providers, 1)
			assert.Equal(t, ProviderPullRequests, report.Providers[0].Name)
			assert.Equal(t, tc.wantProviderOK, report.Providers[0].OK)

			assert.Equal(t, 2, report.Metrics.Totals.Repos)
			assert.Equal(t, 1, report.Metrics.Totals.Commits)
			assert.Equal(t, tc.wantPRsMerged, report.Metrics.Totals.PRsMerged)
			assert.Equal(t, tc.wantProviderOK, report.Metrics.Coverage.PullRequests)
			assert.Equal(t, 2, report.Meta.ScannedRepos)
			if tc.includeRepos {
				assert.Len(t, report.Repos, 2)
			} else {
				assert.Nil(t, report.Repos)
			}

			// Verify that the mock methods were called as expected
			fetcher.AssertExpectations(t)
		})
	}
}
