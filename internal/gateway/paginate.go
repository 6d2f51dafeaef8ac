package gateway

import (
	"context"
	"iter"

	"github.com/google/go-github/v84/github"
	"github.com/naka-gawa/github-activity/internal/domain"
)

// PageFunc fetches a single page of a list endpoint.
type PageFunc[T any] func(ctx context.Context, opts github.ListOptions) ([]T, *github.Response, error)

// Pages follows the API's next-page cursor and yields one page at a time.
// Rate-limit headers are recorded after every page. Iteration stops after
// maxPages pages when maxPages > 0, when the API reports no next page, or on
// the first error, which is yielded as is. No retries happen here.
func Pages[T any](ctx context.Context, info *domain.RateLimitInfo, perPage, maxPages int, fetch PageFunc[T]) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		opts := github.ListOptions{PerPage: perPage}
		for page := 1; ; page++ {
			items, resp, err := fetch(ctx, opts)
			observe(info, resp)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(items, nil) {
				return
			}
			if maxPages > 0 && page >= maxPages {
				return
			}
			if resp == nil || resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}

// Paginate collects every page yielded by Pages into one slice.
func Paginate[T any](ctx context.Context, info *domain.RateLimitInfo, perPage, maxPages int, fetch PageFunc[T]) ([]T, error) {
	var all []T
	for items, err := range Pages(ctx, info, perPage, maxPages, fetch) {
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	return all, nil
}

func observe(info *domain.RateLimitInfo, resp *github.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	UpdateRateLimit(info, resp.Header)
}
