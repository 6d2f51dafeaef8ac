// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-activity/internal/config"
	"github.com/naka-gawa/github-activity/internal/gateway"
)

var rootCmd = &cobra.Command{
	Use:   "github-activity",
	Short: "Collects GitHub activity for an owner and reduces it to report metrics.",
	Long: `github-activity collects the repositories, commits, pull requests and issues
of a GitHub organization or user over a time window, enriches them with
repository context, and outputs aggregate metrics for report generation.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
}

// newLogger discards everything unless --verbose is set.
func newLogger(cmd *cobra.Command, runID string) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	prefix := ""
	if runID != "" {
		prefix = "[" + runID + "] "
	}
	logger := log.New(io.Discard, prefix, log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadConfig(cmd *cobra.Command) config.Config {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		exitWithError("Failed to load configuration", err)
	}
	return cfg
}

func newGateway(cfg config.Config, logger *log.Logger) *gateway.GitHubGateway {
	gw, err := gateway.NewGitHubGateway(gateway.Options{
		Token:             cfg.GitHub.Token,
		BaseURL:           cfg.GitHub.BaseURL,
		GraphQLURL:        cfg.GitHub.GraphQLURL,
		PerPage:           cfg.GitHub.PerPage,
		MaxPages:          cfg.GitHub.MaxPages,
		RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
	}, logger)
	if err != nil {
		exitWithError("Failed to create GitHub gateway", err)
	}
	return gw
}

func exitWithError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
