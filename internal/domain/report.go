package domain

// Report is everything one run produces for the rendering collaborators.
type Report struct {
	RunID       string              `json:"runId"`
	Owner       string              `json:"owner"`
	OwnerType   OwnerType           `json:"ownerType"`
	Window      ActivityWindow      `json:"window"`
	DataProfile DataProfile         `json:"dataProfile"`
	Meta        FetchMeta           `json:"meta"`
	RateLimit   *RateLimitInfo      `json:"rateLimit"`
	Providers   []ProviderRunResult `json:"providers"`
	Metrics     ReportMetrics       `json:"metrics"`
	Repos       []*RepoActivity     `json:"repos,omitempty"`
}
