// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"

	"github.com/naka-gawa/github-activity/internal/config"
	"github.com/naka-gawa/github-activity/internal/domain"
)

// Aggregator is the use case for building an activity report.
// It orchestrates fetching, enrichment and metrics, strictly in sequence.
type Aggregator struct {
	fetcher  *ActivityFetcher
	pipeline *EnrichmentPipeline
	logger   *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher *ActivityFetcher, pipeline *EnrichmentPipeline, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher:  fetcher,
		pipeline: pipeline,
		logger:   logger,
	}
}

// AggregateRequest describes one report run.
type AggregateRequest struct {
	RunID             string
	Config            config.Config
	Window            domain.ActivityWindow
	ProviderAllowlist []string
	IncludeRepos      bool
}

// Aggregate fetches the owner's activity, enriches it and computes metrics.
// Fetch failures abort the run; provider failures are reported in
// Report.Providers and the report is built from whatever context succeeded.
func (a *Aggregator) Aggregate(ctx context.Context, req AggregateRequest) (*domain.Report, error) {
	a.logger.Println("Usecase: Starting activity aggregation...")
	cfg := req.Config
	profile := cfg.Fetch.DataProfile

	activity, err := a.fetcher.FetchActivity(ctx, cfg.GitHub, req.Window, profile, FetchOptions{
		MaxActiveRepos: cfg.Fetch.MaxActiveRepos,
		MaxRepos:       cfg.Fetch.MaxRepos,
		PreferActive:   cfg.Fetch.PreferActive,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Println("Usecase: Activity fetched successfully.")

	providers := a.pipeline.Enrich(ctx, EnrichRequest{
		Repos:             activity.Repos,
		Window:            req.Window,
		Config:            cfg,
		RateLimit:         activity.RateLimit,
		ProviderAllowlist: req.ProviderAllowlist,
		DataProfile:       profile,
	})

	metrics := ComputeReportMetrics(activity.Repos, req.Window, MetricsOptions{
		TopContributors: cfg.Metrics.TopContributors,
		TopRepos:        cfg.Metrics.TopRepos,
		AuthorAliases:   cfg.Metrics.AuthorAliases,
	})

	report := &domain.Report{
		RunID:       req.RunID,
		Owner:       cfg.GitHub.Owner,
		OwnerType:   cfg.GitHub.OwnerType,
		Window:      req.Window,
		DataProfile: profile,
		Meta:        activity.Meta,
		RateLimit:   activity.RateLimit,
		Providers:   providers,
		Metrics:     metrics,
	}
	if req.IncludeRepos {
		report.Repos = activity.Repos
	}
	a.logger.Println("Usecase: Aggregation complete.")
	return report, nil
}
