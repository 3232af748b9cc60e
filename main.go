package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spiffcs/ghinventory/cmd"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
var (
	version string
	commit  string
	date    string
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		// interrupted runs exit like a shell would on SIGINT
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
