package domain

import "time"

// RepoContext holds the sections filled in by enrichment providers.
// Each section belongs to exactly one provider; a nil section means the
// provider did not run or found nothing.
type RepoContext struct {
	Overview     *RepoOverview        `json:"overview,omitempty"`
	DiffSummary  []DiffSummary        `json:"diffSummary,omitempty"`
	DiffSnippets []DiffSnippet        `json:"diffSnippets,omitempty"`
	PullRequests []PullRequestSummary `json:"pullRequests,omitempty"`
	Issues       []IssueSummary       `json:"issues,omitempty"`
}

// EnsureOverview returns the overview section, allocating it on first use.
func (c *RepoContext) EnsureOverview() *RepoOverview {
	if c.Overview == nil {
		c.Overview = &RepoOverview{}
	}
	return c.Overview
}

// RepoOverview mixes repository metadata (repo-overview provider) with the
// readme and llm.txt text owned by their own providers.
type RepoOverview struct {
	Description   string     `json:"description,omitempty"`
	Language      string     `json:"language,omitempty"`
	Topics        []string   `json:"topics,omitempty"`
	Stars         int        `json:"stars,omitempty"`
	Forks         int        `json:"forks,omitempty"`
	OpenIssues    int        `json:"openIssues,omitempty"`
	DefaultBranch string     `json:"defaultBranch,omitempty"`
	Archived      bool       `json:"archived,omitempty"`
	PushedAt      *time.Time `json:"pushedAt,omitempty"`

	Readme string `json:"readme,omitempty"`
	LLMTxt string `json:"llmTxt,omitempty"`
}

// DiffSummary is the line-count footprint of one commit.
type DiffSummary struct {
	SHA            string   `json:"sha"`
	TotalAdditions int      `json:"totalAdditions"`
	TotalDeletions int      `json:"totalDeletions"`
	FilesChanged   int      `json:"filesChanged"`
	TopFiles       []string `json:"topFiles,omitempty"`
}

// DiffSnippet is a truncated patch of one file in one commit.
type DiffSnippet struct {
	SHA      string `json:"sha"`
	Filename string `json:"filename"`
	Patch    string `json:"patch"`
}

// PullRequestSummary is a normalized pull request snapshot.
type PullRequestSummary struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	State        string     `json:"state"`
	Author       string     `json:"author,omitempty"`
	Reviewers    []string   `json:"reviewers"`
	Labels       []string   `json:"labels"`
	MergedBy     string     `json:"mergedBy,omitempty"`
	ReviewsCount int        `json:"reviewsCount"`
	FilesChanged int        `json:"filesChanged"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	CreatedAt    time.Time  `json:"createdAt"`
	MergedAt     *time.Time `json:"mergedAt,omitempty"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
}

// IssueSummary is a normalized issue snapshot.
type IssueSummary struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	State     string     `json:"state"`
	Author    string     `json:"author,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
}

// ProviderRunResult records how one enrichment provider fared.
type ProviderRunResult struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	DurationMs *int64 `json:"durationMs,omitempty"`
	Error      string `json:"error,omitempty"`
}
