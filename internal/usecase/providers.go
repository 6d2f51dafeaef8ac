package usecase

import (
	"context"
	"errors"
	"log"
	"slices"
	"unicode/utf8"

	"github.com/naka-gawa/github-activity/internal/config"
	"github.com/naka-gawa/github-activity/internal/domain"
	"github.com/naka-gawa/github-activity/internal/gateway"
)

// Provider names, in the order the pipeline runs them.
const (
	ProviderRepoOverview = "repo-overview"
	ProviderReadme       = "readme"
	ProviderLLMTxt       = "llm-txt"
	ProviderDiffSummary  = "diff-summary"
	ProviderDiffSnippets = "diff-snippets"
	ProviderPullRequests = "pull-requests"
	ProviderIssues       = "issues"
)

const topFilesPerCommit = 5

// ProviderEnv is what every provider receives. Providers write only their
// own section of each repository's context.
type ProviderEnv struct {
	Fetcher   gateway.Fetcher
	Owner     string
	Repos     []*domain.RepoActivity
	Window    domain.ActivityWindow
	Context   config.ContextConfig
	RateLimit *domain.RateLimitInfo
	Logger    *log.Logger
}

// Provider enriches repositories with one category of context.
type Provider interface {
	Name() string
	Run(ctx context.Context, env *ProviderEnv) error
}

// registeredProviders is the declaration order the pipeline runs in.
var registeredProviders = []Provider{
	repoOverviewProvider{},
	readmeProvider{},
	llmTxtProvider{},
	diffSummaryProvider{},
	diffSnippetsProvider{},
	pullRequestsProvider{},
	issuesProvider{},
}

// profileProviders lists the providers each profile may run; nil means all.
var profileProviders = map[domain.DataProfile][]string{
	domain.ProfileMinimal:  {},
	domain.ProfileStandard: {ProviderRepoOverview, ProviderReadme, ProviderDiffSummary, ProviderPullRequests, ProviderIssues},
	domain.ProfileFull:     nil,
}

type repoOverviewProvider struct{}

func (repoOverviewProvider) Name() string { return ProviderRepoOverview }

func (repoOverviewProvider) Run(ctx context.Context, env *ProviderEnv) error {
	if !env.Context.IncludeRepoOverview {
		return nil
	}
	for _, repo := range env.Repos {
		meta, err := env.Fetcher.GetRepoOverview(ctx, env.Owner, repo.Repo.Name, env.RateLimit)
		if err != nil {
			return err
		}
		ov := repo.EnsureContext().EnsureOverview()
		ov.Description = meta.Description
		ov.Language = meta.Language
		ov.Topics = meta.Topics
		ov.Stars = meta.Stars
		ov.Forks = meta.Forks
		ov.OpenIssues = meta.OpenIssues
		ov.DefaultBranch = meta.DefaultBranch
		ov.Archived = meta.Archived
		ov.PushedAt = meta.PushedAt
	}
	return nil
}

type readmeProvider struct{}

func (readmeProvider) Name() string { return ProviderReadme }

func (readmeProvider) Run(ctx context.Context, env *ProviderEnv) error {
	if !env.Context.IncludeReadme {
		return nil
	}
	for _, repo := range env.Repos {
		text, err := env.Fetcher.GetReadme(ctx, env.Owner, repo.Repo.Name, env.RateLimit)
		if errors.Is(err, gateway.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if text = truncateText(text, env.Context.MaxReadmeBytes); text != "" {
			repo.EnsureContext().EnsureOverview().Readme = text
		}
	}
	return nil
}

var defaultLLMFiles = []string{"llms.txt", "llm.txt"}

type llmTxtProvider struct{}

func (llmTxtProvider) Name() string { return ProviderLLMTxt }

// Run takes the first candidate file that exists. A missing file moves on to
// the next candidate; any other failure aborts the provider.
func (llmTxtProvider) Run(ctx context.Context, env *ProviderEnv) error {
	if !env.Context.IncludeLLMTxt {
		return nil
	}
	candidates := env.Context.LLMFiles
	if len(candidates) == 0 {
		candidates = defaultLLMFiles
	}
	for _, repo := range env.Repos {
		for _, name := range candidates {
			text, err := env.Fetcher.GetFileContent(ctx, env.Owner, repo.Repo.Name, name, env.RateLimit)
			if errors.Is(err, gateway.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			repo.EnsureContext().EnsureOverview().LLMTxt = truncateText(text, env.Context.MaxLLMTxtBytes)
			break
		}
	}
	return nil
}

type diffSummaryProvider struct{}

func (diffSummaryProvider) Name() string { return ProviderDiffSummary }

func (diffSummaryProvider) Run(ctx context.Context, env *ProviderEnv) error {
	if !env.Context.IncludeDiffSummary {
		return nil
	}
	for _, repo := range env.Repos {
		var entries []domain.DiffSummary
		for _, commit := range capSlice(repo.Commits, env.Context.MaxDiffCommitsPerRepo) {
			diff, err := env.Fetcher.GetCommitDiff(ctx, env.Owner, repo.Repo.Name, commit.SHA, env.RateLimit)
			if err != nil {
				return err
			}
			entries = append(entries, domain.DiffSummary{
				SHA:            diff.SHA,
				TotalAdditions: diff.Additions,
				TotalDeletions: diff.Deletions,
				FilesChanged:   len(diff.Files),
				TopFiles:       topFiles(diff.Files, topFilesPerCommit),
			})
		}
		if len(entries) > 0 {
			repo.EnsureContext().DiffSummary = entries
		}
	}
	return nil
}

type diffSnippetsProvider struct{}

func (diffSnippetsProvider) Name() string { return ProviderDiffSnippets }

func (diffSnippetsProvider) Run(ctx context.Context, env *ProviderEnv) error {
	if !env.Context.IncludeDiffSnippets {
		return nil
	}
	for _, repo := range env.Repos {
		var snippets []domain.DiffSnippet
		for _, commit := range capSlice(repo.Commits, env.Context.MaxDiffCommitsPerRepo) {
			diff, err := env.Fetcher.GetCommitDiff(ctx, env.Owner, repo.Repo.Name, commit.SHA, env.RateLimit)
			if err != nil {
				return err
			}
			files := 0
			for _, f := range diff.Files {
				if f.Patch == "" {
					continue
				}
				if env.Context.MaxSnippetFiles > 0 && files >= env.Context.MaxSnippetFiles {
					break
				}
				snippets = append(snippets, domain.DiffSnippet{
					SHA:      diff.SHA,
					Filename: f.Filename,
					Patch:    truncateText(f.Patch, env.Context.MaxSnippetBytes),
				})
				files++
			}
		}
		if len(snippets) > 0 {
			repo.EnsureContext().DiffSnippets = snippets
		}
	}
	return nil
}

type pullRequestsProvider struct{}

func (pullRequestsProvider) Name() string { return ProviderPullRequests }

func (pullRequestsProvider) Run(ctx context.Context, env *ProviderEnv) error {
	if !env.Context.IncludePullRequests {
		return nil
	}
	q := gateway.PullRequestQuery{
		MaxItems: env.Context.MaxPullRequestsPerRepo,
		Details:  env.Context.IncludePullRequestDetails,
	}
	for _, repo := range env.Repos {
		items, err := env.Fetcher.ListPullRequests(ctx, env.Owner, repo.Repo.Name, env.Window, q, env.RateLimit)
		if err != nil {
			return err
		}
		if len(items) > 0 {
			repo.EnsureContext().PullRequests = items
		}
	}
	return nil
}

type issuesProvider struct{}

func (issuesProvider) Name() string { return ProviderIssues }

func (issuesProvider) Run(ctx context.Context, env *ProviderEnv) error {
	if !env.Context.IncludeIssues {
		return nil
	}
	for _, repo := range env.Repos {
		items, err := env.Fetcher.ListIssues(ctx, env.Owner, repo.Repo.Name, env.Window, env.Context.MaxIssuesPerRepo, env.RateLimit)
		if err != nil {
			return err
		}
		if len(items) > 0 {
			repo.EnsureContext().Issues = items
		}
	}
	return nil
}

// truncateText cuts s to at most maxBytes without splitting a UTF-8 sequence
// at the cut. Invalid bytes earlier in s are kept as they are.
func truncateText(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}
	cut := s[:maxBytes]
	for i := len(cut) - 1; i >= 0 && i >= len(cut)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(cut[i]) {
			continue
		}
		if !utf8.FullRuneInString(cut[i:]) {
			cut = cut[:i]
		}
		break
	}
	return cut
}

func capSlice[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// topFiles returns up to n file names ordered by churn, largest first.
func topFiles(files []gateway.FileDiff, n int) []string {
	sorted := slices.Clone(files)
	slices.SortStableFunc(sorted, func(a, b gateway.FileDiff) int {
		return (b.Additions + b.Deletions) - (a.Additions + a.Deletions)
	})
	names := make([]string, 0, n)
	for _, f := range capSlice(sorted, n) {
		names = append(names, f.Filename)
	}
	return names
}
