// Package inventory turns organizations into RepositoryData records: it fans
// out the per-repository fetches, merges their results and streams batches of
// records to a Sink.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spiffcs/ghinventory/internal/constants"
	"github.com/spiffcs/ghinventory/internal/format"
	"github.com/spiffcs/ghinventory/internal/ghclient"
	"github.com/spiffcs/ghinventory/internal/log"
	"github.com/spiffcs/ghinventory/internal/model"
	"golang.org/x/sync/errgroup"
)

// Sink receives completed records. Implementations must be safe for
// concurrent use; every organization task reports on its own goroutine.
type Sink interface {
	ReportBatch(org string, records []model.RepositoryData) error
}

// Options configures a Processor.
type Options struct {
	// Limit caps the repositories processed across all organizations; 0 means no cap.
	Limit int
	// Workers bounds the organizations processed at once; 0 starts them all.
	Workers int
	// ExcludeUsers are collaborator logins left out of the Collaborators column.
	ExcludeUsers []string
	// StaleAfter and OldAfter are the PR age thresholds (2 weeks and 30 days by default).
	StaleAfter time.Duration
	OldAfter   time.Duration
	// BatchSize is the number of records handed to the sink at once.
	BatchSize int
	// Now is the clock PR ages are measured against.
	Now func() time.Time
}

// Progress is a snapshot of a running inventory.
type Progress struct {
	OrgsDone  int
	OrgsTotal int
	Records   int
	Failed    int
	Org       string // organization that just finished, if any
}

// ProgressFunc is called as organizations and repositories complete.
type ProgressFunc func(Progress)

// Stats summarizes a finished run.
type Stats struct {
	Organizations int
	Records       int
	Failed        int
}

// Processor builds RepositoryData records for organizations.
type Processor struct {
	fetcher    ghclient.GitHubFetcher
	sink       Sink
	limiter    *Limiter
	opts       Options
	excluded   map[string]bool
	onProgress ProgressFunc

	orgsTotal int64
	orgsDone  int64
	records   int64
	failed    int64
}

// NewProcessor creates a Processor. onProgress may be nil (no-op).
func NewProcessor(fetcher ghclient.GitHubFetcher, sink Sink, opts Options, onProgress ProgressFunc) *Processor {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = model.DefaultStaleAfter
	}
	if opts.OldAfter <= 0 {
		opts.OldAfter = model.DefaultOldAfter
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = constants.BatchSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	excluded := make(map[string]bool, len(opts.ExcludeUsers))
	for _, u := range opts.ExcludeUsers {
		excluded[strings.ToLower(u)] = true
	}

	return &Processor{
		fetcher:    fetcher,
		sink:       sink,
		limiter:    NewLimiter(opts.Limit),
		opts:       opts,
		excluded:   excluded,
		onProgress: onProgress,
	}
}

func (p *Processor) reportProgress(org string) {
	if p.onProgress == nil {
		return
	}
	p.onProgress(Progress{
		OrgsDone:  int(atomic.LoadInt64(&p.orgsDone)),
		OrgsTotal: int(atomic.LoadInt64(&p.orgsTotal)),
		Records:   int(atomic.LoadInt64(&p.records)),
		Failed:    int(atomic.LoadInt64(&p.failed)),
		Org:       org,
	})
}

// Run processes every organization on its own goroutine and waits for all
// of them. Only sink failures and cancellation abort the run; per-repository
// failures are logged and counted.
func (p *Processor) Run(ctx context.Context, orgs []model.Organization) (Stats, error) {
	atomic.AddInt64(&p.orgsTotal, int64(len(orgs)))
	p.reportProgress("")

	g, gctx := errgroup.WithContext(ctx)
	if p.opts.Workers > 0 {
		g.SetLimit(p.opts.Workers)
	}

	for _, org := range orgs {
		g.Go(func() error {
			n, err := p.ProcessOrganization(gctx, org.Login)
			atomic.AddInt64(&p.orgsDone, 1)
			p.reportProgress(org.Login)
			if err != nil {
				return fmt.Errorf("organization %s: %w", org.Login, err)
			}
			log.Info("organization complete", "org", org.Login, "records", n)
			return nil
		})
	}

	err := g.Wait()
	return Stats{
		Organizations: int(atomic.LoadInt64(&p.orgsDone)),
		Records:       int(atomic.LoadInt64(&p.records)),
		Failed:        int(atomic.LoadInt64(&p.failed)),
	}, err
}

// ProcessOrganization processes the repositories of org in list order,
// one at a time, until the list or the shared limit is exhausted. Records
// reach the sink in batches; the returned count is the records emitted.
func (p *Processor) ProcessOrganization(ctx context.Context, org string) (int, error) {
	repos, err := p.fetcher.ListRepositories(ctx, org)
	if err != nil {
		log.Debug("repository listing incomplete", "org", org, "fetched", len(repos), "error", err)
	}

	emitted := 0
	batch := make([]model.RepositoryData, 0, p.opts.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.sink.ReportBatch(org, batch); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		emitted += len(batch)
		batch = make([]model.RepositoryData, 0, p.opts.BatchSize)
		return nil
	}

	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return emitted, err
		}
		if !p.limiter.Acquire() {
			log.Debug("repository limit reached", "org", org, "limit", p.opts.Limit)
			break
		}

		data, err := p.ProcessRepository(ctx, org, repo)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return emitted, ctxErr
			}
			atomic.AddInt64(&p.failed, 1)
			if ghclient.IsNotFound(err) {
				// deleted or renamed since it was listed
				log.Warn("repository no longer available", "org", org, "repo", repo.Name)
			} else {
				log.Error("skipping repository", "org", org, "repo", repo.Name, "error", err)
			}
			continue
		}

		batch = append(batch, data)
		atomic.AddInt64(&p.records, 1)
		p.reportProgress("")
		if len(batch) >= p.opts.BatchSize {
			if err := flush(); err != nil {
				return emitted, err
			}
		}
	}

	return emitted, flush()
}

// ProcessRepository builds the record for one repository. Languages,
// collaborators and the last commit are fetched concurrently, then the open
// pull requests. Only a collaborator failure fails the record; the other
// fetches fall back to N/A or zero counts.
func (p *Processor) ProcessRepository(ctx context.Context, org string, repo model.Repository) (model.RepositoryData, error) {
	var languages, collaborators, lastAccessed string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		languages = p.languages(gctx, org, repo.Name)
		return nil
	})
	g.Go(func() error {
		var err error
		collaborators, err = p.Collaborators(gctx, org, repo.Name)
		return err
	})
	g.Go(func() error {
		lastAccessed = p.lastAccessed(gctx, org, repo.Name)
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.RepositoryData{}, err
	}

	counts := p.pullRequestCounts(ctx, org, repo.Name)

	data := model.RepositoryData{
		Organization:  org,
		Repository:    repo.Name,
		Visibility:    repo.VisibilityLabel(),
		Collaborators: collaborators,
		Languages:     languages,
		LastAccessed:  lastAccessed,
		ActivePRs:     counts.Active,
		PRs2W:         counts.Stale,
		PRs1M:         counts.Old,
	}
	log.Debug("repository processed", "org", org, "repo", repo.Name, "activePRs", counts.Active)
	return data, nil
}

func (p *Processor) languages(ctx context.Context, org, repo string) string {
	langs, err := p.fetcher.Languages(ctx, org, repo)
	if err != nil {
		log.Debug("languages unavailable", "org", org, "repo", repo, "error", err)
		return model.NotAvailable
	}
	if len(langs) == 0 {
		return model.NotAvailable
	}
	return strings.Join(langs, ", ")
}

// Collaborators fetches teams and direct collaborators concurrently and
// renders them as "team[permission]" and "First Last[role]" entries.
func (p *Processor) Collaborators(ctx context.Context, org, repo string) (string, error) {
	var (
		teams   []model.Team
		collabs []model.Collaborator
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = p.fetcher.Teams(gctx, org, repo)
		if err != nil {
			return fmt.Errorf("failed to fetch teams: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		collabs, err = p.fetcher.DirectCollaborators(gctx, org, repo)
		if err != nil {
			return fmt.Errorf("failed to fetch collaborators: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	entries := make([]string, 0, len(teams)+len(collabs))
	for _, t := range teams {
		entries = append(entries, format.TeamLabel(t.Name, t.Permission))
	}
	for _, c := range collabs {
		if p.excluded[strings.ToLower(c.Login)] {
			continue
		}
		entries = append(entries, format.CollaboratorLabel(c.Login, c.LDAPDN, c.Role()))
	}

	if len(entries) == 0 {
		return model.NotAvailable, nil
	}
	return strings.Join(entries, ", "), nil
}

func (p *Processor) lastAccessed(ctx context.Context, org, repo string) string {
	date, ok, err := p.fetcher.LastCommitDate(ctx, org, repo)
	if err != nil {
		log.Debug("last commit unavailable", "org", org, "repo", repo, "error", err)
		return model.NotAvailable
	}
	if !ok {
		return model.NotAvailable
	}
	return format.Timestamp(date)
}

func (p *Processor) pullRequestCounts(ctx context.Context, org, repo string) model.PRCounts {
	prs, err := p.fetcher.ListOpenPullRequests(ctx, org, repo)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Debug("pull request listing incomplete", "org", org, "repo", repo, "fetched", len(prs), "error", err)
	}
	return model.CountPullRequests(prs, p.opts.Now(), p.opts.StaleAfter, p.opts.OldAfter)
}
