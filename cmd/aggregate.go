package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-activity/internal/domain"
	"github.com/naka-gawa/github-activity/internal/usecase"
)

// maxConcurrentLoads limits how many metrics files are read at once.
const maxConcurrentLoads = 8

var aggregateCmd = &cobra.Command{
	Use:   "aggregate FILE...",
	Short: "Merges report metrics from several runs into one",
	Long: `Reads the JSON output of earlier report runs (or bare metrics documents)
and merges them, for example seven daily reports into a weekly one.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd, "")
		cfg := loadConfig(cmd)
		opts := usecase.MetricsOptions{
			TopContributors: cfg.Metrics.TopContributors,
			TopRepos:        cfg.Metrics.TopRepos,
			AuthorAliases:   cfg.Metrics.AuthorAliases,
		}
		if cmd.Flags().Changed("top-contributors") {
			opts.TopContributors, _ = cmd.Flags().GetInt("top-contributors")
		}
		if cmd.Flags().Changed("top-repos") {
			opts.TopRepos, _ = cmd.Flags().GetInt("top-repos")
		}

		metricsList, err := loadMetricsFiles(context.Background(), args)
		if err != nil {
			exitWithError("Failed to load metrics", err)
		}
		logger.Printf("Merging metrics from %d files.", len(metricsList))
		printJSON(usecase.AggregateReportMetrics(metricsList, opts))
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	aggregateCmd.Flags().Int("top-contributors", 0, "Number of contributors to keep in the ranking")
	aggregateCmd.Flags().Int("top-repos", 0, "Number of repositories to keep in the ranking")
}

// metricsDocument accepts either a full report or a bare metrics object.
type metricsDocument struct {
	Metrics *domain.ReportMetrics `json:"metrics"`
	domain.ReportMetrics
}

// loadMetricsFiles reads every file concurrently, keeping argument order.
func loadMetricsFiles(ctx context.Context, paths []string) ([]domain.ReportMetrics, error) {
	out := make([]domain.ReportMetrics, len(paths))
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		eg.Go(func() error {
			m, err := readMetricsFile(path)
			if err != nil {
				return err
			}
			out[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func readMetricsFile(path string) (domain.ReportMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ReportMetrics{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc metricsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.ReportMetrics{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc.Metrics != nil {
		return *doc.Metrics, nil
	}
	return doc.ReportMetrics, nil
}
