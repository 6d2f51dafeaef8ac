package usecase

import (
	"regexp"
	"slices"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-activity/internal/domain"
)

// MetricsOptions sizes the rankings and maps author aliases.
type MetricsOptions struct {
	TopContributors int
	TopRepos        int
	// AuthorAliases maps an author (matched after normalization) to a handle.
	AuthorAliases map[string]string
}

var handlePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ComputeReportMetrics reduces enriched activity for one window into totals,
// rankings and coverage. Identical inputs produce identical output.
func ComputeReportMetrics(repos []*domain.RepoActivity, window domain.ActivityWindow, opts MetricsOptions) domain.ReportMetrics {
	resolve := newHandleResolver(opts.AuthorAliases)
	contributors := newContributorSet()
	repoMetrics := make([]domain.RepoMetrics, 0, len(repos))
	var totals domain.MetricsTotals
	var coverage domain.Coverage
	var mergeHours []float64

	for _, repo := range repos {
		var diffs []domain.DiffSummary
		var prs []domain.PullRequestSummary
		var issues []domain.IssueSummary
		if c := repo.Context; c != nil {
			coverage.DiffSummary = coverage.DiffSummary || c.DiffSummary != nil
			coverage.PullRequests = coverage.PullRequests || c.PullRequests != nil
			coverage.Issues = coverage.Issues || c.Issues != nil
			diffs, prs, issues = c.DiffSummary, c.PullRequests, c.Issues
		}

		rm := domain.RepoMetrics{Name: repo.Repo.Name, Commits: len(repo.Commits)}
		for _, d := range diffs {
			rm.Additions += d.TotalAdditions
			rm.Deletions += d.TotalDeletions
		}
		for _, pr := range prs {
			opened := window.Contains(pr.CreatedAt)
			merged := window.ContainsPtr(pr.MergedAt)
			closed := window.ContainsPtr(pr.ClosedAt)
			rm.PRsOpened += boolInt(opened)
			rm.PRsMerged += boolInt(merged)
			rm.PRsClosed += boolInt(closed)
			if merged {
				mergeHours = append(mergeHours, pr.MergedAt.Sub(pr.CreatedAt).Hours())
			}
			if c := contributors.get(resolve(pr.Author)); c != nil {
				c.PRsOpened += boolInt(opened)
				c.PRsMerged += boolInt(merged)
				c.PRsClosed += boolInt(closed)
			}
		}
		for _, issue := range issues {
			opened := window.Contains(issue.CreatedAt)
			closed := window.ContainsPtr(issue.ClosedAt)
			rm.IssuesOpened += boolInt(opened)
			rm.IssuesClosed += boolInt(closed)
			if c := contributors.get(resolve(issue.Author)); c != nil {
				c.IssuesOpened += boolInt(opened)
				c.IssuesClosed += boolInt(closed)
			}
		}
		for _, commit := range repo.Commits {
			if c := contributors.get(resolve(commit.Author)); c != nil {
				c.Commits++
			}
		}
		rm.ActivityScore = rm.Commits + rm.PRsOpened + rm.PRsMerged + rm.IssuesOpened + rm.IssuesClosed
		repoMetrics = append(repoMetrics, rm)
		totals.Repos++
		addCounts(&totals, rm)
	}

	contributorList := contributors.finalize()
	totals.Contributors = len(contributorList)

	return domain.ReportMetrics{
		Totals:          totals,
		TopContributors: rankContributors(contributorList, opts.TopContributors),
		TopRepos:        rankRepos(repoMetrics, opts.TopRepos),
		Coverage:        coverage,
		MergeLatency:    summarizeLatency(mergeHours),
	}
}

// AggregateReportMetrics merges metrics computed for several sub-windows,
// for example seven daily metrics into one weekly metric. It returns nil for
// an empty list.
//
// Totals and coverage merge exactly. Contributor and repository rankings are
// merged only from each input's already truncated top lists, so anything that
// missed a sub-window's top N is invisible here even if its combined activity
// would rank. This keeps aggregation bounded and is intentional. The merged
// lists are then re-ranked and truncated to opts. Totals.Contributors counts
// the distinct handles visible after the merge.
func AggregateReportMetrics(metricsList []domain.ReportMetrics, opts MetricsOptions) *domain.ReportMetrics {
	if len(metricsList) == 0 {
		return nil
	}

	contributors := newContributorSet()
	repoIndex := map[string]int{}
	var repos []domain.RepoMetrics
	var totals domain.MetricsTotals
	var coverage domain.Coverage
	var latencies []domain.LatencySummary

	for _, m := range metricsList {
		totals.Repos += m.Totals.Repos
		totals.Commits += m.Totals.Commits
		totals.Additions += m.Totals.Additions
		totals.Deletions += m.Totals.Deletions
		totals.PRsOpened += m.Totals.PRsOpened
		totals.PRsMerged += m.Totals.PRsMerged
		totals.PRsClosed += m.Totals.PRsClosed
		totals.IssuesOpened += m.Totals.IssuesOpened
		totals.IssuesClosed += m.Totals.IssuesClosed

		coverage.DiffSummary = coverage.DiffSummary || m.Coverage.DiffSummary
		coverage.PullRequests = coverage.PullRequests || m.Coverage.PullRequests
		coverage.Issues = coverage.Issues || m.Coverage.Issues

		for _, in := range m.TopContributors {
			c := contributors.get(in.Handle)
			if c == nil {
				continue
			}
			c.Commits += in.Commits
			c.PRsOpened += in.PRsOpened
			c.PRsMerged += in.PRsMerged
			c.PRsClosed += in.PRsClosed
			c.IssuesOpened += in.IssuesOpened
			c.IssuesClosed += in.IssuesClosed
		}

		for _, in := range m.TopRepos {
			i, ok := repoIndex[in.Name]
			if !ok {
				repoIndex[in.Name] = len(repos)
				repos = append(repos, in)
				continue
			}
			r := &repos[i]
			r.Commits += in.Commits
			r.Additions += in.Additions
			r.Deletions += in.Deletions
			r.PRsOpened += in.PRsOpened
			r.PRsMerged += in.PRsMerged
			r.PRsClosed += in.PRsClosed
			r.IssuesOpened += in.IssuesOpened
			r.IssuesClosed += in.IssuesClosed
			r.ActivityScore += in.ActivityScore
		}

		if m.MergeLatency != nil {
			latencies = append(latencies, *m.MergeLatency)
		}
	}

	contributorList := contributors.finalize()
	totals.Contributors = len(contributorList)

	return &domain.ReportMetrics{
		Totals:          totals,
		TopContributors: rankContributors(contributorList, opts.TopContributors),
		TopRepos:        rankRepos(repos, opts.TopRepos),
		Coverage:        coverage,
		MergeLatency:    mergeLatencies(latencies),
	}
}

func addCounts(t *domain.MetricsTotals, rm domain.RepoMetrics) {
	t.Commits += rm.Commits
	t.Additions += rm.Additions
	t.Deletions += rm.Deletions
	t.PRsOpened += rm.PRsOpened
	t.PRsMerged += rm.PRsMerged
	t.PRsClosed += rm.PRsClosed
	t.IssuesOpened += rm.IssuesOpened
	t.IssuesClosed += rm.IssuesClosed
}

// contributorSet keeps contributors in first-seen order so rankings are stable.
type contributorSet struct {
	index map[string]int
	list  []domain.ContributorMetrics
}

func newContributorSet() *contributorSet {
	return &contributorSet{index: map[string]int{}}
}

// get returns the entry for handle, creating it; an empty handle yields nil.
func (s *contributorSet) get(handle string) *domain.ContributorMetrics {
	if handle == "" {
		return nil
	}
	i, ok := s.index[handle]
	if !ok {
		i = len(s.list)
		s.index[handle] = i
		s.list = append(s.list, domain.ContributorMetrics{Handle: handle})
	}
	return &s.list[i]
}

func (s *contributorSet) finalize() []domain.ContributorMetrics {
	out := make([]domain.ContributorMetrics, len(s.list))
	for i, c := range s.list {
		c.RecomputeScore()
		out[i] = c
	}
	return out
}

// newHandleResolver maps raw author strings to contributor handles. It
// returns "" for authors that cannot be attributed.
func newHandleResolver(aliases map[string]string) func(string) string {
	normalized := make(map[string]string, len(aliases))
	for from, to := range aliases {
		normalized[normalizeAuthor(from)] = normalizeAuthor(to)
	}
	return func(author string) string {
		handle := normalizeAuthor(author)
		if alias, ok := normalized[handle]; ok {
			handle = alias
		}
		if handle == "" || handle == "unknown" || !handlePattern.MatchString(handle) {
			return ""
		}
		return handle
	}
}

func normalizeAuthor(author string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(author), "@"))
}

func rankContributors(list []domain.ContributorMetrics, n int) []domain.ContributorMetrics {
	ranked := slices.Clone(list)
	slices.SortStableFunc(ranked, func(a, b domain.ContributorMetrics) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return b.Commits - a.Commits
	})
	return topN(ranked, n)
}

func rankRepos(list []domain.RepoMetrics, n int) []domain.RepoMetrics {
	ranked := slices.Clone(list)
	slices.SortStableFunc(ranked, func(a, b domain.RepoMetrics) int {
		if a.ActivityScore != b.ActivityScore {
			return b.ActivityScore - a.ActivityScore
		}
		return b.Commits - a.Commits
	})
	return topN(ranked, n)
}

func topN[T any](s []T, n int) []T {
	n = max(n, 0)
	if len(s) > n {
		s = s[:n]
	}
	if s == nil {
		return []T{}
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func summarizeLatency(hours []float64) *domain.LatencySummary {
	if len(hours) == 0 {
		return nil
	}
	data := stats.Float64Data(hours)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	p90, _ := stats.Percentile(data, 90)
	return &domain.LatencySummary{Count: len(hours), MeanHours: mean, MedianHours: median, P90Hours: p90}
}

// mergeLatencies combines per-window summaries. Count and mean are exact;
// the median is the median of the inputs' medians and p90 the largest input
// p90, both approximations.
func mergeLatencies(in []domain.LatencySummary) *domain.LatencySummary {
	if len(in) == 0 {
		return nil
	}
	var out domain.LatencySummary
	var weighted float64
	medians := make(stats.Float64Data, 0, len(in))
	for _, l := range in {
		out.Count += l.Count
		weighted += l.MeanHours * float64(l.Count)
		medians = append(medians, l.MedianHours)
		out.P90Hours = max(out.P90Hours, l.P90Hours)
	}
	if out.Count > 0 {
		out.MeanHours = weighted / float64(out.Count)
	}
	out.MedianHours, _ = stats.Median(medians)
	return &out
}
