package usecase

import (
	"context"
	"errors"
	"log"
	"slices"
	"strconv"
	"time"

	"github.com/naka-gawa/github-activity/internal/cache"
	"github.com/naka-gawa/github-activity/internal/config"
	"github.com/naka-gawa/github-activity/internal/domain"
	"github.com/naka-gawa/github-activity/internal/gateway"
)

// FetchOptions bounds how many repositories a fetch scans.
type FetchOptions struct {
	// MaxActiveRepos stops the scan once this many repositories had commits.
	MaxActiveRepos int
	// MaxRepos stops the scan once this many repositories were collected.
	MaxRepos int
	// PreferActive lists repositories by most recent push; defaults to MaxActiveRepos > 0.
	PreferActive *bool
}

func (o FetchOptions) preferActive() bool {
	if o.PreferActive != nil {
		return *o.PreferActive
	}
	return o.MaxActiveRepos > 0
}

// ActivityFetcher lists an owner's repositories and their commits in a window.
type ActivityFetcher struct {
	fetcher gateway.Fetcher
	cache   cache.Cache
	keys    *cache.KeyBuilder
	logger  *log.Logger
}

// NewActivityFetcher creates an ActivityFetcher. A nil cache falls back to an
// unbounded in-memory cache.
func NewActivityFetcher(fetcher gateway.Fetcher, c cache.Cache, logger *log.Logger) *ActivityFetcher {
	if c == nil {
		c = cache.NewMemory(0, 0)
	}
	return &ActivityFetcher{
		fetcher: fetcher,
		cache:   c,
		keys:    cache.NewKeyBuilder("activity"),
		logger:  logger,
	}
}

// FetchActivity returns the owner's repositories with their commits in window.
// Results are cached by owner, window, profile and limits without any
// freshness check; callers that need fresh data must change the window.
// Any API failure is returned as is and aborts the fetch.
func (a *ActivityFetcher) FetchActivity(ctx context.Context, cfg config.GitHubConfig, window domain.ActivityWindow, profile domain.DataProfile, opts FetchOptions) (*domain.ActivityResult, error) {
	key := a.cacheKey(cfg, window, profile, opts)
	var cached domain.ActivityResult
	err := a.cache.Get(ctx, key, &cached)
	if err == nil {
		a.logger.Printf("Using cached activity for %s.", cfg.Owner)
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		a.logger.Printf("Cache error for activity: %v", err)
	}

	rateLimit := &domain.RateLimitInfo{}
	repos, err := a.fetcher.ListRepos(ctx, cfg.Owner, cfg.OwnerType, opts.preferActive(), rateLimit)
	if err != nil {
		return nil, err
	}

	meta := domain.FetchMeta{TotalRepos: len(repos)}
	filtered := make([]domain.RepoRef, 0, len(repos))
	for _, repo := range repos {
		switch {
		case len(cfg.Allowlist) > 0 && !slices.Contains(cfg.Allowlist, repo.Name):
			meta.ExcludedAllowlist++
		case slices.Contains(cfg.Blocklist, repo.Name):
			meta.ExcludedBlocklist++
		case repo.Private && !cfg.IncludePrivate:
			meta.ExcludedPrivate++
		default:
			filtered = append(filtered, repo)
		}
	}
	meta.FilteredRepos = len(filtered)

	results := make([]*domain.RepoActivity, 0, len(filtered))
	activeRepos := 0
	for _, repo := range filtered {
		if opts.MaxRepos > 0 && len(results) >= opts.MaxRepos {
			meta.StoppedEarly = true
			break
		}
		commits := []domain.CommitRecord{}
		if profile != domain.ProfileMinimal {
			commits, err = a.fetcher.ListCommits(ctx, cfg.Owner, repo.Name, window, rateLimit)
			if err != nil {
				return nil, err
			}
		}
		results = append(results, &domain.RepoActivity{Repo: repo, Commits: commits})
		meta.ScannedRepos++
		if len(commits) > 0 {
			activeRepos++
		}
		if profile != domain.ProfileMinimal && opts.MaxActiveRepos > 0 && activeRepos >= opts.MaxActiveRepos {
			meta.StoppedEarly = true
			break
		}
	}
	a.logger.Printf("Scanned %d of %d repositories (%d active, stopped early: %t).",
		meta.ScannedRepos, meta.TotalRepos, activeRepos, meta.StoppedEarly)

	result := &domain.ActivityResult{Repos: results, RateLimit: rateLimit, Meta: meta}
	if err := a.cache.Set(ctx, key, result); err != nil {
		a.logger.Printf("Failed to cache activity: %v", err)
	}
	return result, nil
}

func (a *ActivityFetcher) cacheKey(cfg config.GitHubConfig, window domain.ActivityWindow, profile domain.DataProfile, opts FetchOptions) string {
	sort := "default"
	if opts.preferActive() {
		sort = "active"
	}
	return a.keys.Build(
		cfg.Owner,
		cfg.OwnerType,
		window.Start.UTC().Format(time.RFC3339Nano),
		window.End.UTC().Format(time.RFC3339Nano),
		profile,
		"active:"+limitString(opts.MaxActiveRepos),
		"repos:"+limitString(opts.MaxRepos),
		"sort:"+sort,
	)
}

func limitString(n int) string {
	if n <= 0 {
		return "all"
	}
	return strconv.Itoa(n)
}
