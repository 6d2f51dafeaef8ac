package domain

import "time"

// RateLimitInfo is the last rate-limit state reported by the API.
// A single instance is shared by the fetch and enrichment stages of a run.
type RateLimitInfo struct {
	Remaining *int       `json:"remaining,omitempty"`
	Limit     *int       `json:"limit,omitempty"`
	ResetAt   *time.Time `json:"resetAt,omitempty"`
}

// HealthStatus is the outcome of probing the REST and GraphQL endpoints.
type HealthStatus struct {
	Login     string        `json:"login"`
	Core      RateLimitInfo `json:"core"`
	GraphQL   RateLimitInfo `json:"graphql"`
	CheckedAt time.Time     `json:"checkedAt"`
}
