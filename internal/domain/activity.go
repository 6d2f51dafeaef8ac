// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"time"
)

// DataProfile controls how much data a run collects.
type DataProfile string

const (
	// ProfileMinimal lists repositories only and skips enrichment.
	ProfileMinimal DataProfile = "minimal"
	// ProfileStandard runs the core enrichment subset.
	ProfileStandard DataProfile = "standard"
	// ProfileFull runs every enrichment provider.
	ProfileFull DataProfile = "full"
)

// ParseDataProfile validates a profile name.
func ParseDataProfile(s string) (DataProfile, error) {
	switch p := DataProfile(s); p {
	case ProfileMinimal, ProfileStandard, ProfileFull:
		return p, nil
	case "":
		return ProfileStandard, nil
	default:
		return "", fmt.Errorf("unknown data profile %q", s)
	}
}

// OwnerType selects the organization or user repository listing.
type OwnerType string

const (
	OwnerUser OwnerType = "user"
	OwnerOrg  OwnerType = "org"
)

// ActivityWindow is the time range a run reports on. Both ends are inclusive.
type ActivityWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewActivityWindow returns a window, rejecting start > end.
func NewActivityWindow(start, end time.Time) (ActivityWindow, error) {
	if start.After(end) {
		return ActivityWindow{}, fmt.Errorf("window start %s is after end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return ActivityWindow{Start: start, End: end}, nil
}

// DayWindow covers one calendar day in the location of day.
func DayWindow(day time.Time) ActivityWindow {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return ActivityWindow{Start: start, End: start.AddDate(0, 0, 1).Add(-time.Millisecond)}
}

// Contains reports whether start <= t <= end.
func (w ActivityWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ContainsPtr is Contains for optional timestamps; nil is never contained.
func (w ActivityWindow) ContainsPtr(t *time.Time) bool {
	return t != nil && w.Contains(*t)
}

// RepoRef identifies a repository within an owner.
type RepoRef struct {
	Name    string `json:"name"`
	Private bool   `json:"private"`
	HTMLURL string `json:"htmlUrl"`
}

// CommitRecord is a single commit in the window.
type CommitRecord struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	URL     string    `json:"url"`
}

// RepoActivity is one repository's activity plus the context providers attached to it.
type RepoActivity struct {
	Repo    RepoRef        `json:"repo"`
	Commits []CommitRecord `json:"commits"`
	Context *RepoContext   `json:"context,omitempty"`
}

// EnsureContext returns the context record, allocating it on first use.
func (r *RepoActivity) EnsureContext() *RepoContext {
	if r.Context == nil {
		r.Context = &RepoContext{}
	}
	return r.Context
}

// FetchMeta describes how the repository listing was traversed.
type FetchMeta struct {
	TotalRepos        int  `json:"totalRepos"`
	FilteredRepos     int  `json:"filteredRepos"`
	ExcludedAllowlist int  `json:"excludedAllowlist"`
	ExcludedBlocklist int  `json:"excludedBlocklist"`
	ExcludedPrivate   int  `json:"excludedPrivate"`
	ScannedRepos      int  `json:"scannedRepos"`
	StoppedEarly      bool `json:"stoppedEarly"`
}

// ActivityResult is what the fetcher hands to enrichment and metrics.
type ActivityResult struct {
	Repos     []*RepoActivity `json:"repos"`
	RateLimit *RateLimitInfo  `json:"rateLimit"`
	Meta      FetchMeta       `json:"meta"`
}
