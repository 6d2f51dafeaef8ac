package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-activity/internal/cache"
	"github.com/naka-gawa/github-activity/internal/config"
	"github.com/naka-gawa/github-activity/internal/domain"
	"github.com/naka-gawa/github-activity/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Collects activity for an owner and outputs report metrics",
	Long: `Lists the owner's repositories and commits in the window, enriches them with
context (overview, readme, pull requests, issues, diffs) according to the data
profile, and outputs the resulting metrics as JSON or as tables.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(context.Background(), cmd); err != nil {
			exitWithError("Failed to build report", err)
		}
	},
}

// runReport returns every failure instead of exiting so the activity cache
// is always closed.
func runReport(ctx context.Context, cmd *cobra.Command) error {
	runID := uuid.NewString()
	logger := newLogger(cmd, runID)
	cfg := loadConfig(cmd)
	applyReportFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "table" {
		return fmt.Errorf("unknown format %q, use json or table", format)
	}

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	window, err := parseWindow(fromStr, toStr, startStr, endStr, time.Now())
	if err != nil {
		return err
	}

	// Inject dependencies and run the main business logic.
	githubGateway := newGateway(cfg, logger)
	activityCache, closeCache, err := newActivityCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	aggregator := usecase.NewAggregator(
		usecase.NewActivityFetcher(githubGateway, activityCache, logger),
		usecase.NewEnrichmentPipeline(githubGateway, logger),
		logger,
	)
	providers, _ := cmd.Flags().GetStringSlice("providers")
	includeRepos, _ := cmd.Flags().GetBool("include-repos")
	report, err := aggregator.Aggregate(ctx, usecase.AggregateRequest{
		RunID:             runID,
		Config:            cfg,
		Window:            window,
		ProviderAllowlist: providers,
		IncludeRepos:      includeRepos,
	})
	if err != nil {
		return fmt.Errorf("failed to aggregate activity: %w", err)
	}

	for _, p := range report.Providers {
		if !p.OK {
			fmt.Fprintln(os.Stderr, pterm.Warning.Sprintf("context provider %s failed: %s", p.Name, p.Error))
		}
	}

	if format == "table" {
		if err := renderTables(report.Metrics); err != nil {
			return fmt.Errorf("failed to render tables: %w", err)
		}
		return nil
	}
	return writeJSON(report)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addReportFlags(reportCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("owner", "o", "", "GitHub organization or user name")
	cmd.Flags().String("owner-type", "", "Owner type: user or org")
	cmd.Flags().String("profile", "", "Data profile: minimal, standard or full")
	cmd.Flags().String("from", "", "First day of the window (YYYY/MM/DD)")
	cmd.Flags().String("to", "", "Last day of the window (YYYY/MM/DD)")
	cmd.Flags().String("start", "", "Window start instant (RFC3339), overrides --from")
	cmd.Flags().String("end", "", "Window end instant (RFC3339), overrides --to")
	cmd.Flags().Int("max-repos", 0, "Stop after collecting this many repositories")
	cmd.Flags().Int("max-active-repos", 0, "Stop after this many repositories with commits")
	cmd.Flags().StringSlice("providers", nil, "Only run these context providers")
	cmd.Flags().Bool("include-repos", false, "Include the raw repository activity in the output")
	cmd.Flags().String("format", "json", "Output format: json or table")
	cmd.Flags().String("redis-addr", "", "Cache fetched activity in this Redis instance")
}

// applyReportFlags overrides configuration values with the flags the user set.
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("owner") {
		cfg.GitHub.Owner, _ = flags.GetString("owner")
	}
	if flags.Changed("owner-type") {
		v, _ := flags.GetString("owner-type")
		cfg.GitHub.OwnerType = domain.OwnerType(v)
	}
	if flags.Changed("profile") {
		v, _ := flags.GetString("profile")
		cfg.Fetch.DataProfile = domain.DataProfile(v)
	}
	if flags.Changed("max-repos") {
		cfg.Fetch.MaxRepos, _ = flags.GetInt("max-repos")
	}
	if flags.Changed("max-active-repos") {
		cfg.Fetch.MaxActiveRepos, _ = flags.GetInt("max-active-repos")
	}
	if flags.Changed("redis-addr") {
		cfg.Cache.RedisAddr, _ = flags.GetString("redis-addr")
	}
}

// newActivityCache returns the configured cache and the function that releases it.
func newActivityCache(ctx context.Context, cfg config.CacheConfig, logger *log.Logger) (cache.Cache, func(), error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(cfg.Capacity, cfg.TTL), func() {}, nil
	}
	r, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create activity cache: %w", err)
	}
	logger.Printf("Caching activity in redis at %s.", cfg.RedisAddr)
	return r, func() {
		if err := r.Close(); err != nil {
			logger.Printf("Failed to close activity cache: %v", err)
		}
	}, nil
}

func renderTables(m domain.ReportMetrics) error {
	t := m.Totals
	pterm.DefaultSection.Println("Totals")
	if err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Repos", "Commits", "+", "-", "PRs opened", "PRs merged", "Issues opened", "Issues closed", "Contributors"},
		{itoa(t.Repos), itoa(t.Commits), itoa(t.Additions), itoa(t.Deletions), itoa(t.PRsOpened), itoa(t.PRsMerged), itoa(t.IssuesOpened), itoa(t.IssuesClosed), itoa(t.Contributors)},
	}).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("Top repositories")
	repos := pterm.TableData{{"Repository", "Score", "Commits", "PRs merged", "Issues closed"}}
	for _, r := range m.TopRepos {
		repos = append(repos, []string{r.Name, itoa(r.ActivityScore), itoa(r.Commits), itoa(r.PRsMerged), itoa(r.IssuesClosed)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(repos).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("Top contributors")
	people := pterm.TableData{{"Handle", "Score", "Commits", "PRs opened", "PRs merged"}}
	for _, c := range m.TopContributors {
		people = append(people, []string{c.Handle, itoa(c.Score), itoa(c.Commits), itoa(c.PRsOpened), itoa(c.PRsMerged)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(people).Render()
}

func itoa(n int) string { return strconv.Itoa(n) }

func printJSON(v any) {
	if err := writeJSON(v); err != nil {
		exitWithError("Failed to write results", err)
	}
}

func writeJSON(v any) error {
	// Marshal the results into a pretty-printed JSON string.
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}
