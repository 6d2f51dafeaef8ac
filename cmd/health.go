package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Checks the token against the REST and GraphQL APIs",
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd, "")
		cfg := loadConfig(cmd)
		status, err := newGateway(cfg, logger).CheckHealth(context.Background())
		if err != nil {
			exitWithError("GitHub API health check failed", err)
		}
		printJSON(status)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
