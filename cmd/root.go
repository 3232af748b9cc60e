package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "ghinventory",
		Short: "GitHub organization and repository inventory",
		Long: `Enumerates organizations and their repositories from the GitHub REST API
(github.com or GitHub Enterprise Server) and reports, per repository, its
visibility, teams and direct collaborators, languages, last commit and open
pull request activity.

Reports are split by last commit into five buckets (30, 60, 120, 240 days
and older). With --output base.csv each bucket is written to
results/base-30d.csv, results/base-60d.csv and so on; otherwise every
bucket goes to stdout.

The token is read from GITHUB_TOKEN. Set GITHUB_SERVER_BASE for GitHub
Enterprise Server and GITHUB_SSL_CERT for a private CA bundle.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInventory(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	addInventoryFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}

// addInventoryFlags adds the inventory flags to a command.
func addInventoryFlags(cmd *cobra.Command, opts *Options) {
	flags := cmd.Flags()
	flags.StringVar(&opts.Format, "format", "", "Output format (table, json, csv) (default from config, else table)")
	flags.BoolVar(&opts.FetchAll, "fetch-all", false, "Fetch every organization instead of the first 100")
	flags.BoolVar(&opts.AllOrgs, "all-orgs", false, "Enumerate all organizations on the server, not just your own")
	flags.BoolVar(&opts.SearchRepos, "search-repos", false, "Accepted for compatibility; has no effect")
	flags.StringVarP(&opts.Output, "output", "o", "", "Base path for bucketed report files (default stdout)")
	flags.IntVar(&opts.Count, "count", 0, "Stop after this many repositories across all organizations")
	flags.StringArrayVar(&opts.ExcludeUsers, "exclude-user", nil, "Leave this collaborator login out of reports (repeatable)")
	flags.IntVar(&opts.Workers, "workers", 0, "Organizations processed at once (default all)")
	flags.BoolVar(&opts.NoStream, "no-stream", false, "Write each report in one pass after all repositories are processed")
	flags.StringVar(&opts.ConfigPath, "config", "", "Config file (default $XDG_CONFIG_HOME/ghinventory/config.yaml)")
	flags.CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	// tri-state: nil = auto, true = force, false = disable
	flags.VarPF(newAutoFlag(&opts.TUI), "tui", "", "Enable/disable TUI progress when writing files (default: auto-detect)").NoOptDefVal = "true"
	flags.VarPF(newAutoFlag(&opts.Color), "color", "", "Bold table headers on stdout (default: when stdout is a terminal)").NoOptDefVal = "true"

	// Profiling flags
	flags.StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	flags.StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")
	flags.StringVar(&opts.Trace, "trace", "", "Write execution trace to file")

	_ = flags.MarkHidden("search-repos")
}

// validateOptions rejects flag values that can't be acted on.
func validateOptions(cmd *cobra.Command, opts *Options) error {
	if cmd.Flags().Changed("count") && opts.Count <= 0 {
		return fmt.Errorf("invalid --count %d: must be a positive integer", opts.Count)
	}
	if opts.Workers < 0 {
		return fmt.Errorf("invalid --workers %d: must not be negative", opts.Workers)
	}
	return nil
}
