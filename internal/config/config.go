// Package config loads the settings of a reporting run.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/github-activity/internal/domain"
)

// Config is the full configuration of a run.
type Config struct {
	GitHub  GitHubConfig  `yaml:"github"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Context ContextConfig `yaml:"context"`
	Network NetworkConfig `yaml:"network"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Cache   CacheConfig   `yaml:"cache"`
}

// GitHubConfig selects the owner and how its repositories are listed.
type GitHubConfig struct {
	Token             string           `yaml:"-"`
	Owner             string           `yaml:"owner"`
	OwnerType         domain.OwnerType `yaml:"ownerType"`
	Allowlist         []string         `yaml:"allowlist"`
	Blocklist         []string         `yaml:"blocklist"`
	IncludePrivate    bool             `yaml:"includePrivate"`
	PerPage           int              `yaml:"perPage"`
	MaxPages          int              `yaml:"maxPages"`
	BaseURL           string           `yaml:"baseURL"`
	GraphQLURL        string           `yaml:"graphqlURL"`
	RequestsPerSecond float64          `yaml:"requestsPerSecond"`
}

// FetchConfig bounds the repository traversal.
type FetchConfig struct {
	DataProfile    domain.DataProfile `yaml:"dataProfile"`
	MaxRepos       int                `yaml:"maxRepos"`
	MaxActiveRepos int                `yaml:"maxActiveRepos"`
	// PreferActive defaults to true when MaxActiveRepos is set.
	PreferActive *bool `yaml:"preferActive"`
}

// ContextConfig switches and sizes the enrichment providers.
type ContextConfig struct {
	IncludeRepoOverview       bool     `yaml:"includeRepoOverview"`
	IncludeReadme             bool     `yaml:"includeReadme"`
	IncludeLLMTxt             bool     `yaml:"includeLlmTxt"`
	IncludeDiffSummary        bool     `yaml:"includeDiffSummary"`
	IncludeDiffSnippets       bool     `yaml:"includeDiffSnippets"`
	IncludePullRequests       bool     `yaml:"includePullRequests"`
	IncludePullRequestDetails bool     `yaml:"includePullRequestDetails"`
	IncludeIssues             bool     `yaml:"includeIssues"`
	LLMFiles                  []string `yaml:"llmFiles"`
	MaxLLMTxtBytes            int      `yaml:"maxLlmTxtBytes"`
	MaxReadmeBytes            int      `yaml:"maxReadmeBytes"`
	MaxPullRequestsPerRepo    int      `yaml:"maxPullRequestsPerRepo"`
	MaxIssuesPerRepo          int      `yaml:"maxIssuesPerRepo"`
	MaxDiffCommitsPerRepo     int      `yaml:"maxDiffCommitsPerRepo"`
	MaxSnippetFiles           int      `yaml:"maxSnippetFiles"`
	MaxSnippetBytes           int      `yaml:"maxSnippetBytes"`
}

// NetworkConfig is the retry policy applied to each enrichment provider.
type NetworkConfig struct {
	RetryCount     int `yaml:"retryCount"`
	RetryBackoffMs int `yaml:"retryBackoffMs"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	IncludeTimings bool `yaml:"includeTimings"`
}

// MetricsConfig sizes the rankings and maps author aliases.
type MetricsConfig struct {
	TopContributors int               `yaml:"topContributors"`
	TopRepos        int               `yaml:"topRepos"`
	AuthorAliases   map[string]string `yaml:"authorAliases"`
}

// CacheConfig selects the activity cache backend.
type CacheConfig struct {
	RedisAddr string        `yaml:"redisAddr"`
	TTL       time.Duration `yaml:"ttl"`
	Capacity  int           `yaml:"capacity"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		GitHub: GitHubConfig{
			OwnerType: domain.OwnerUser,
			PerPage:   100,
			MaxPages:  10,
		},
		Fetch: FetchConfig{DataProfile: domain.ProfileStandard},
		Context: ContextConfig{
			IncludeRepoOverview:    true,
			IncludeReadme:          true,
			IncludeLLMTxt:          true,
			IncludeDiffSummary:     true,
			IncludeDiffSnippets:    true,
			IncludePullRequests:    true,
			IncludeIssues:          true,
			LLMFiles:               []string{"llms.txt", "llm.txt"},
			MaxLLMTxtBytes:         8000,
			MaxReadmeBytes:         8000,
			MaxPullRequestsPerRepo: 50,
			MaxIssuesPerRepo:       50,
			MaxDiffCommitsPerRepo:  20,
			MaxSnippetFiles:        5,
			MaxSnippetBytes:        2000,
		},
		Network: NetworkConfig{RetryCount: 2, RetryBackoffMs: 500},
		Metrics: MetricsConfig{TopContributors: 10, TopRepos: 10},
	}
}

// Load reads path over the defaults, then takes the token from GITHUB_TOKEN.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with. An empty data
// profile is replaced with the standard one.
func (c *Config) Validate() error {
	var errs []error
	if c.GitHub.Owner == "" {
		errs = append(errs, errors.New("github.owner is required"))
	}
	switch c.GitHub.OwnerType {
	case domain.OwnerUser, domain.OwnerOrg:
	default:
		errs = append(errs, fmt.Errorf("github.ownerType must be %q or %q, got %q", domain.OwnerUser, domain.OwnerOrg, c.GitHub.OwnerType))
	}
	if c.GitHub.PerPage <= 0 || c.GitHub.PerPage > 100 {
		errs = append(errs, fmt.Errorf("github.perPage must be between 1 and 100, got %d", c.GitHub.PerPage))
	}
	if c.GitHub.MaxPages < 0 {
		errs = append(errs, fmt.Errorf("github.maxPages must not be negative, got %d", c.GitHub.MaxPages))
	}
	if profile, err := domain.ParseDataProfile(string(c.Fetch.DataProfile)); err != nil {
		errs = append(errs, err)
	} else {
		c.Fetch.DataProfile = profile
	}
	if c.Network.RetryCount < 0 || c.Network.RetryBackoffMs < 0 {
		errs = append(errs, errors.New("network.retryCount and network.retryBackoffMs must not be negative"))
	}
	return errors.Join(errs...)
}
