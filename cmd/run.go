package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spiffcs/ghinventory/config"
	"github.com/spiffcs/ghinventory/internal/constants"
	"github.com/spiffcs/ghinventory/internal/ghclient"
	"github.com/spiffcs/ghinventory/internal/inventory"
	"github.com/spiffcs/ghinventory/internal/log"
	"github.com/spiffcs/ghinventory/internal/model"
	"github.com/spiffcs/ghinventory/internal/report"
	"github.com/spiffcs/ghinventory/internal/tui"
)

// runConfig is the resolved configuration of one inventory run: flags over
// environment over config file over defaults. It is not modified once built.
type runConfig struct {
	clientConfig

	Format       report.Format
	Output       string
	FetchAll     bool
	AllOrgs      bool
	Count        int
	ExcludeUsers []string
	StaleAfter   time.Duration
	OldAfter     time.Duration
	Stream       bool
	Color        *bool
	Workers      int
}

// runTUI drives the progress display until events is closed.
var runTUI = tui.Run

// runRuntime bundles TUI-related state that's threaded through the run.
type runRuntime struct {
	useTUI    bool
	events    chan tui.Event
	tuiDone   chan error
	verbosity int
	stderr    io.Writer
	held      *log.Deferred
}

// startTUI initializes and starts the TUI goroutine if TUI mode is enabled.
// Quitting the TUI cancels the run.
func (rt *runRuntime) startTUI(cancel context.CancelFunc) {
	if !rt.useTUI {
		return
	}
	rt.events = make(chan tui.Event, 100)
	rt.tuiDone = make(chan error, 1)
	go func() {
		err := runTUI(rt.events)
		cancel()
		rt.tuiDone <- err
	}()
}

// close closes the event channel, waits for the TUI to finish and then
// replays the log lines held while it was running.
func (rt *runRuntime) close() {
	if rt.events == nil {
		return
	}
	tui.SendEvent(rt.events, tui.DoneEvent{})
	close(rt.events)
	err := <-rt.tuiDone
	rt.events = nil

	log.Initialize(rt.verbosity, rt.stderr)
	if rt.held != nil {
		_ = rt.held.Flush(rt.stderr)
		rt.held = nil
	}
	if err != nil {
		log.Warn("progress display failed", "error", err)
	}
}

// sendEvent sends a task event to the TUI channel if it exists.
func (rt *runRuntime) sendEvent(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	tui.SendTaskEvent(rt.events, task, status, opts...)
}

func runInventory(cmd *cobra.Command, opts *Options) error {
	if err := validateOptions(cmd, opts); err != nil {
		return err
	}

	cfg, err := loadRunConfig(opts, os.Getenv)
	if err != nil {
		return err
	}

	profiler := NewProfiler(opts)
	if err := profiler.Start(); err != nil {
		return err
	}
	defer func() { _ = profiler.Stop() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt := &runRuntime{
		useTUI:    shouldUseTUI(opts),
		verbosity: opts.Verbosity,
		stderr:    cmd.ErrOrStderr(),
	}
	// Hold logs during TUI to avoid interleaving with the display
	if rt.useTUI {
		rt.held = &log.Deferred{}
		log.Initialize(opts.Verbosity, rt.held)
	} else {
		log.Initialize(opts.Verbosity, rt.stderr)
	}
	rt.startTUI(cancel)
	defer rt.close()

	if opts.SearchRepos {
		log.Debug("--search-repos has no effect")
	}

	client, err := cfg.newClient()
	if err != nil {
		return err
	}

	if rt.useTUI {
		rt.sendEvent(tui.TaskAuth, tui.StatusRunning)
		// The login is only shown on the display; tokens without user
		// scope can still list organizations.
		if user, err := client.AuthenticatedUser(ctx); err != nil {
			log.Warn("could not identify token owner", "error", err)
			rt.sendEvent(tui.TaskAuth, tui.StatusSkipped, tui.WithMessage("token owner unavailable"))
		} else {
			rt.sendEvent(tui.TaskAuth, tui.StatusComplete, tui.WithMessage(user))
		}
	}

	orgs, err := listOrganizations(ctx, client, cfg, rt)
	if err != nil {
		return err
	}

	stats, counts, err := processOrganizations(ctx, client, cfg, orgs, cmd.OutOrStdout(), rt)
	notifyRateLimit(client, rt)
	rt.close()

	printSummary(cmd.ErrOrStderr(), stats, counts, cfg.Output)
	if err != nil {
		return fmt.Errorf("inventory incomplete: %w", err)
	}
	return nil
}

// clientConfig is how to reach the API: shared by inventory runs and the
// ratelimit command.
type clientConfig struct {
	Token              string
	BaseURL            string
	CACertFile         string
	InsecureSkipVerify bool
}

func (c clientConfig) newClient() (*ghclient.Client, error) {
	return ghclient.NewClient(ghclient.Options{
		BaseURL:            c.BaseURL,
		Token:              c.Token,
		CACertFile:         c.CACertFile,
		InsecureSkipVerify: c.InsecureSkipVerify,
	})
}

// loadConfigFile reads the --config file, or the merged global and local
// files when none is given, and overlays the environment.
func loadConfigFile(path string, getenv func(string) string) (*config.Config, error) {
	var (
		file *config.Config
		err  error
	)
	if path != "" {
		file, err = config.LoadFile(path)
	} else {
		file, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	file.ApplyEnv(getenv)
	return file, nil
}

// resolveClientConfig takes the token from the environment and the
// server settings from file.
func resolveClientConfig(file *config.Config, getenv func(string) string) (clientConfig, error) {
	token := getenv(config.EnvToken)
	if token == "" {
		return clientConfig{}, fmt.Errorf("GitHub token not configured. Set the %s environment variable", config.EnvToken)
	}
	return clientConfig{
		Token:              token,
		BaseURL:            file.APIBaseURL(),
		CACertFile:         file.CACertFile(),
		InsecureSkipVerify: file.InsecureSkipVerify,
	}, nil
}

// loadRunConfig layers flags over the environment over the config file.
func loadRunConfig(opts *Options, getenv func(string) string) (*runConfig, error) {
	file, err := loadConfigFile(opts.ConfigPath, getenv)
	if err != nil {
		return nil, err
	}
	client, err := resolveClientConfig(file, getenv)
	if err != nil {
		return nil, err
	}

	formatName := opts.Format
	if formatName == "" {
		formatName = file.DefaultFormat
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	staleAfter, oldAfter, err := file.PRThresholds()
	if err != nil {
		return nil, err
	}

	return &runConfig{
		clientConfig: client,
		Format:       format,
		Output:       opts.Output,
		FetchAll:     opts.FetchAll,
		AllOrgs:      opts.AllOrgs,
		Count:        opts.Count,
		ExcludeUsers: mergeUsers(file.ExcludeUsers, opts.ExcludeUsers),
		StaleAfter:   staleAfter,
		OldAfter:     oldAfter,
		Stream:       !opts.NoStream,
		Color:        tableColor(opts, getenv),
		Workers:      opts.Workers,
	}, nil
}

// mergeUsers unions config and flag exclusions, case-insensitively.
func mergeUsers(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, u := range list {
			key := strings.ToLower(strings.TrimSpace(u))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, u)
		}
	}
	return out
}

// listOrganizations fetches the organizations to inventory. A failure part
// way through is logged and the partial list used.
func listOrganizations(ctx context.Context, client *ghclient.Client, cfg *runConfig, rt *runRuntime) ([]model.Organization, error) {
	rt.sendEvent(tui.TaskOrgs, tui.StatusRunning)
	log.Info("listing organizations", "all_orgs", cfg.AllOrgs, "fetch_all", cfg.FetchAll, "base_url", client.BaseURL())

	orgs, err := client.ListOrganizations(ctx, cfg.AllOrgs, cfg.FetchAll)
	if err != nil && len(orgs) == 0 {
		rt.sendEvent(tui.TaskOrgs, tui.StatusError, tui.WithError(err))
		return nil, err
	}
	rt.sendEvent(tui.TaskOrgs, tui.StatusComplete, tui.WithCount(len(orgs)))
	return orgs, nil
}

// processOrganizations runs the processor into a reporter and closes the
// reporter, whatever the outcome.
func processOrganizations(ctx context.Context, client *ghclient.Client, cfg *runConfig, orgs []model.Organization, stdout io.Writer, rt *runRuntime) (inventory.Stats, map[report.Bucket]int, error) {
	reporter, err := report.New(report.Options{
		Format: cfg.Format,
		Output: cfg.Output,
		Stdout: stdout,
		Stream: cfg.Stream,
		Color:  cfg.Color,
	})
	if err != nil {
		return inventory.Stats{}, nil, err
	}

	var onProgress inventory.ProgressFunc
	if rt.useTUI {
		onProgress = tui.ProgressReporter(rt.events, constants.TUIUpdateInterval)
	} else {
		onProgress = func(p inventory.Progress) {
			if p.Org != "" {
				log.Progress("Organizations: %d/%d, repositories: %d...", p.OrgsDone, p.OrgsTotal, p.Records)
			}
		}
	}

	proc := inventory.NewProcessor(client, reporter, inventory.Options{
		Limit:        cfg.Count,
		Workers:      cfg.Workers,
		ExcludeUsers: cfg.ExcludeUsers,
		StaleAfter:   cfg.StaleAfter,
		OldAfter:     cfg.OldAfter,
	}, onProgress)

	rt.sendEvent(tui.TaskRepos, tui.StatusRunning)
	stats, runErr := proc.Run(ctx, orgs)
	log.ProgressDone()
	if runErr != nil {
		rt.sendEvent(tui.TaskRepos, tui.StatusError, tui.WithError(runErr))
	} else {
		rt.sendEvent(tui.TaskRepos, tui.StatusComplete,
			tui.WithMessage(fmt.Sprintf("%d repos from %d orgs", stats.Records, stats.Organizations)))
	}

	rt.sendEvent(tui.TaskReport, tui.StatusRunning)
	closeErr := reporter.Close()
	if closeErr != nil {
		rt.sendEvent(tui.TaskReport, tui.StatusError, tui.WithError(closeErr))
	} else {
		rt.sendEvent(tui.TaskReport, tui.StatusComplete, tui.WithCount(len(reporter.Paths())))
		tui.SendEvent(rt.events, tui.ReportEvent{Buckets: bucketCounts(reporter.Counts(), cfg.Output)})
	}

	if runErr != nil {
		return stats, reporter.Counts(), runErr
	}
	return stats, reporter.Counts(), closeErr
}

// bucketCounts lists the non-empty buckets in report order.
func bucketCounts(counts map[report.Bucket]int, output string) []tui.BucketCount {
	var out []tui.BucketCount
	for _, b := range report.Buckets {
		if counts[b] == 0 {
			continue
		}
		bc := tui.BucketCount{Label: b.String(), Count: counts[b]}
		if output != "" {
			bc.Path = report.BucketPath(output, b)
		}
		out = append(out, bc)
	}
	return out
}

func notifyRateLimit(client *ghclient.Client, rt *runRuntime) {
	remaining, limit, resetAt, limited := client.RateLimitStatus()
	if limited {
		log.Warn("rate limit exhausted, some repositories were skipped", "resets_at", resetAt.Format(time.RFC3339))
		tui.SendEvent(rt.events, tui.RateLimitEvent{Limited: true, ResetAt: resetAt})
		return
	}
	if limit > 0 {
		log.Debug("rate limit", "remaining", remaining, "limit", limit)
	}
}

// printSummary reports totals per bucket on w.
func printSummary(w io.Writer, stats inventory.Stats, counts map[report.Bucket]int, output string) {
	fmt.Fprintf(w, "\nInventoried %d repositories from %d organizations", stats.Records, stats.Organizations)
	if stats.Failed > 0 {
		fmt.Fprintf(w, " (%d skipped after errors)", stats.Failed)
	}
	fmt.Fprintln(w)

	for _, bc := range bucketCounts(counts, output) {
		if bc.Path != "" {
			fmt.Fprintf(w, "  %-11s %5d  %s\n", bc.Label, bc.Count, bc.Path)
		} else {
			fmt.Fprintf(w, "  %-11s %5d\n", bc.Label, bc.Count)
		}
	}
}
