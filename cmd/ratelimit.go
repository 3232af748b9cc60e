package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long:  `Display current GitHub API rate limit status including remaining quota and reset time.`,
	}
	cmd.AddCommand(NewCmdRateLimitStatus())
	return cmd
}

// NewCmdRateLimitStatus creates the ratelimit status subcommand.
func NewCmdRateLimitStatus() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current rate limit status",
		Long:  `Display the current GitHub API rate limit status for the core, search and GraphQL APIs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRateLimitStatus(cmd, configPath, os.Getenv)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/ghinventory/config.yaml)")
	return cmd
}

func runRateLimitStatus(cmd *cobra.Command, configPath string, getenv func(string) string) error {
	file, err := loadConfigFile(configPath, getenv)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := resolveClientConfig(file, getenv)
	if err != nil {
		return err
	}
	client, err := settings.newClient()
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(cmd.Context())
	if err != nil {
		return err
	}

	printRateLimits(cmd.OutOrStdout(), limits, time.Now())
	return nil
}

func printRateLimits(out io.Writer, limits *gh.RateLimits, now time.Time) {
	fmt.Fprintln(out, "GitHub API Rate Limits:")
	fmt.Fprintln(out)

	rows := []struct {
		label string
		rate  *gh.Rate
	}{
		{"Core API:  ", limits.Core},
		{"Search API:", limits.Search},
		{"GraphQL:   ", limits.GraphQL},
	}
	for _, r := range rows {
		if r.rate == nil {
			continue
		}
		resetIn := r.rate.Reset.Time.Sub(now).Round(time.Second)
		if resetIn < 0 {
			resetIn = 0
		}
		fmt.Fprintf(out, "%s %d/%d remaining (resets in %s)\n", r.label, r.rate.Remaining, r.rate.Limit, resetIn)
	}
}
