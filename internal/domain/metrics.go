package domain

// ContributorMetrics is one contributor's rollup. Score is derived and
// recomputed whenever the counters change.
type ContributorMetrics struct {
	Handle       string `json:"handle"`
	Commits      int    `json:"commits"`
	PRsOpened    int    `json:"prsOpened"`
	PRsMerged    int    `json:"prsMerged"`
	PRsClosed    int    `json:"prsClosed"`
	IssuesOpened int    `json:"issuesOpened"`
	IssuesClosed int    `json:"issuesClosed"`
	Score        int    `json:"score"`
}

// RecomputeScore sets Score from the counters. Closed PRs do not count.
func (c *ContributorMetrics) RecomputeScore() {
	c.Score = c.Commits + c.PRsOpened + c.PRsMerged + c.IssuesOpened + c.IssuesClosed
}

// RepoMetrics is one repository's rollup.
type RepoMetrics struct {
	Name          string `json:"name"`
	Commits       int    `json:"commits"`
	Additions     int    `json:"additions"`
	Deletions     int    `json:"deletions"`
	PRsOpened     int    `json:"prsOpened"`
	PRsMerged     int    `json:"prsMerged"`
	PRsClosed     int    `json:"prsClosed"`
	IssuesOpened  int    `json:"issuesOpened"`
	IssuesClosed  int    `json:"issuesClosed"`
	ActivityScore int    `json:"activityScore"`
}

// MetricsTotals are computed over every repository and contributor.
type MetricsTotals struct {
	Repos        int `json:"repos"`
	Commits      int `json:"commits"`
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	PRsOpened    int `json:"prsOpened"`
	PRsMerged    int `json:"prsMerged"`
	PRsClosed    int `json:"prsClosed"`
	IssuesOpened int `json:"issuesOpened"`
	IssuesClosed int `json:"issuesClosed"`
	Contributors int `json:"contributors"`
}

// Coverage flags which optional context sections exist in any repository.
type Coverage struct {
	DiffSummary  bool `json:"diffSummary"`
	PullRequests bool `json:"pullRequests"`
	Issues       bool `json:"issues"`
}

// LatencySummary describes created-to-merged durations in hours.
type LatencySummary struct {
	Count       int     `json:"count"`
	MeanHours   float64 `json:"meanHours"`
	MedianHours float64 `json:"medianHours"`
	P90Hours    float64 `json:"p90Hours"`
}

// ReportMetrics is the metrics contract consumed by report rendering.
type ReportMetrics struct {
	Totals          MetricsTotals        `json:"totals"`
	TopContributors []ContributorMetrics `json:"topContributors"`
	TopRepos        []RepoMetrics        `json:"topRepos"`
	Coverage        Coverage             `json:"coverage"`
	MergeLatency    *LatencySummary      `json:"mergeLatency,omitempty"`
}
