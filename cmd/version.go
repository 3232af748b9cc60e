package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information, set from main via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo overrides the build information. Empty values are ignored.
func SetVersionInfo(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentVersion() versionInfo {
	return versionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// NewCmdVersion creates the version command.
func NewCmdVersion() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := currentVersion()
			out := cmd.OutOrStdout()
			switch outputFormat {
			case "text":
				fmt.Fprintf(out, "ghinventory %s\n", info.Version)
				fmt.Fprintf(out, "  commit:   %s\n", info.Commit)
				fmt.Fprintf(out, "  built:    %s\n", info.BuildDate)
				fmt.Fprintf(out, "  go:       %s (%s)\n", info.GoVersion, info.Platform)
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			default:
				return fmt.Errorf("invalid format: %s (must be text or json)", outputFormat)
			}
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json)")
	return cmd
}
