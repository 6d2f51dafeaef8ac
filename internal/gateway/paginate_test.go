package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-github/v84/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-activity/internal/domain"
)

func TestPaginate(t *testing.T) {
	testCases := []struct {
		name      string
		maxPages  int
		wantNames []string
		wantCalls int
	}{
		{name: "follows next links until the last page", wantNames: []string{"p1", "p2", "p3"}, wantCalls: 3},
		{name: "stops at maxPages", maxPages: 2, wantNames: []string{"p1", "p2"}, wantCalls: 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			handler := func(w http.ResponseWriter, r *http.Request) {
				calls++
				assert.Equal(t, "2", r.URL.Query().Get("per_page"))
				page := r.URL.Query().Get("page")
				if page == "" {
					page = "1"
				}
				w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", 100-calls))
				if page != "3" {
					var next int
					fmt.Sscanf(page, "%d", &next)
					w.Header().Set("Link", nextLink(r, next+1))
				}
				fmt.Fprintf(w, `[{"name":"p%s"}]`, page)
			}
			gw := setupTestGateway(t, http.HandlerFunc(handler), 2, tc.maxPages)
			rl := &domain.RateLimitInfo{}

			repos, err := Paginate(context.Background(), rl, gw.perPage, gw.maxPages,
				func(ctx context.Context, lo github.ListOptions) ([]*github.Repository, *github.Response, error) {
					return gw.restClient.Repositories.ListByOrg(ctx, "acme", &github.RepositoryListByOrgOptions{ListOptions: lo})
				})

			require.NoError(t, err)
			names := make([]string, 0, len(repos))
			for _, r := range repos {
				names = append(names, r.GetName())
			}
			assert.Equal(t, tc.wantNames, names)
			assert.Equal(t, tc.wantCalls, calls)
			require.NotNil(t, rl.Remaining)
			assert.Equal(t, 100-tc.wantCalls, *rl.Remaining)
		})
	}
}

func TestPages_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	fetch := func(ctx context.Context, lo github.ListOptions) ([]int, *github.Response, error) {
		calls++
		if calls == 2 {
			return nil, nil, boom
		}
		return []int{calls}, &github.Response{NextPage: calls + 1}, nil
	}

	got, err := Paginate(context.Background(), &domain.RateLimitInfo{}, 10, 0, fetch)

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.Equal(t, 2, calls)
}

func TestPages_EarlyBreak(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, lo github.ListOptions) ([]int, *github.Response, error) {
		calls++
		return []int{calls}, &github.Response{NextPage: calls + 1}, nil
	}

	for items, err := range Pages(context.Background(), nil, 10, 0, fetch) {
		require.NoError(t, err)
		if items[0] == 2 {
			break
		}
	}
	assert.Equal(t, 2, calls)
}
