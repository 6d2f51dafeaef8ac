package usecase

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/naka-gawa/github-activity/internal/config"
	"github.com/naka-gawa/github-activity/internal/domain"
	"github.com/naka-gawa/github-activity/internal/gateway"
)

// EnrichRequest is the input of one enrichment run.
type EnrichRequest struct {
	Repos     []*domain.RepoActivity
	Window    domain.ActivityWindow
	Config    config.Config
	RateLimit *domain.RateLimitInfo
	// ProviderAllowlist further restricts the profile's providers when non-empty.
	ProviderAllowlist []string
	DataProfile       domain.DataProfile
}

// EnrichmentPipeline runs context providers one after another over the fetched repositories.
type EnrichmentPipeline struct {
	fetcher   gateway.Fetcher
	providers []Provider
	logger    *log.Logger
}

// NewEnrichmentPipeline creates a pipeline over the registered providers.
func NewEnrichmentPipeline(fetcher gateway.Fetcher, logger *log.Logger) *EnrichmentPipeline {
	return &EnrichmentPipeline{fetcher: fetcher, providers: registeredProviders, logger: logger}
}

// Enrich runs the providers selected by the profile and allowlist, in
// declaration order, each under the configured retry policy. A provider that
// still fails after its retries is recorded as failed and the run moves on;
// Enrich itself never fails.
func (p *EnrichmentPipeline) Enrich(ctx context.Context, req EnrichRequest) []domain.ProviderRunResult {
	results := []domain.ProviderRunResult{}
	if req.DataProfile == domain.ProfileMinimal {
		return results
	}

	env := &ProviderEnv{
		Fetcher:   p.fetcher,
		Owner:     req.Config.GitHub.Owner,
		Repos:     req.Repos,
		Window:    req.Window,
		Context:   req.Config.Context,
		RateLimit: req.RateLimit,
		Logger:    p.logger,
	}
	backoff := time.Duration(req.Config.Network.RetryBackoffMs) * time.Millisecond

	for _, provider := range p.selectProviders(req.DataProfile, req.ProviderAllowlist) {
		p.logger.Printf("Running context provider %s...", provider.Name())
		start := time.Now()
		err := withRetry(ctx, req.Config.Network.RetryCount, backoff, func() error {
			return provider.Run(ctx, env)
		})
		result := domain.ProviderRunResult{Name: provider.Name(), OK: err == nil}
		if req.Config.Logging.IncludeTimings {
			ms := time.Since(start).Milliseconds()
			result.DurationMs = &ms
		}
		if err != nil {
			result.Error = err.Error()
			p.logger.Printf("Context provider %s failed: %v", provider.Name(), err)
		}
		results = append(results, result)
	}
	return results
}

// selectProviders intersects the profile's providers with the allowlist,
// keeping declaration order.
func (p *EnrichmentPipeline) selectProviders(profile domain.DataProfile, allowlist []string) []Provider {
	allowedByProfile, ok := profileProviders[profile]
	if !ok {
		allowedByProfile = profileProviders[domain.ProfileStandard]
	}
	var selected []Provider
	for _, provider := range p.providers {
		name := provider.Name()
		if allowedByProfile != nil && !slices.Contains(allowedByProfile, name) {
			continue
		}
		if len(allowlist) > 0 && !slices.Contains(allowlist, name) {
			continue
		}
		selected = append(selected, provider)
	}
	return selected
}
