package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spiffcs/ghinventory/internal/model"
)

var errFake = errors.New("fake failure")

// fakeFetcher serves canned data. Repositories named in the fail* sets make
// the corresponding call fail.
type fakeFetcher struct {
	repos    map[string][]model.Repository
	langs    []string
	teams    []model.Team
	collabs  []model.Collaborator
	commit   time.Time
	prs      []model.PullRequest
	failLang map[string]bool
	failTeam map[string]bool
	failColl map[string]bool
	failCmt  map[string]bool

	// arrive, when set, is called by the four detail fetches before returning.
	arrive func(ctx context.Context) error

	mu    sync.Mutex
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		repos:    map[string][]model.Repository{},
		failLang: map[string]bool{},
		failTeam: map[string]bool{},
		failColl: map[string]bool{},
		failCmt:  map[string]bool{},
		calls:    map[string]int{},
	}
}

func (f *fakeFetcher) addOrg(org string, n int) {
	for i := 1; i <= n; i++ {
		f.repos[org] = append(f.repos[org], model.Repository{Name: fmt.Sprintf("%s-repo-%d", org, i), Visibility: "private", Private: true})
	}
}

func (f *fakeFetcher) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeFetcher) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeFetcher) wait(ctx context.Context) error {
	if f.arrive == nil {
		return nil
	}
	return f.arrive(ctx)
}

func (f *fakeFetcher) ListOrganizations(context.Context, bool, bool) ([]model.Organization, error) {
	var orgs []model.Organization
	for login := range f.repos {
		orgs = append(orgs, model.Organization{Login: login})
	}
	return orgs, nil
}

func (f *fakeFetcher) ListRepositories(_ context.Context, org string) ([]model.Repository, error) {
	f.record("repos")
	return f.repos[org], nil
}

func (f *fakeFetcher) Languages(ctx context.Context, _, repo string) ([]string, error) {
	f.record("languages")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.failLang[repo] {
		return nil, errFake
	}
	return f.langs, nil
}

func (f *fakeFetcher) Teams(ctx context.Context, _, repo string) ([]model.Team, error) {
	f.record("teams")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.failTeam[repo] {
		return nil, errFake
	}
	return f.teams, nil
}

func (f *fakeFetcher) DirectCollaborators(ctx context.Context, _, repo string) ([]model.Collaborator, error) {
	f.record("collaborators")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.failColl[repo] {
		return nil, errFake
	}
	return f.collabs, nil
}

func (f *fakeFetcher) LastCommitDate(ctx context.Context, _, repo string) (time.Time, bool, error) {
	f.record("commits")
	if err := f.wait(ctx); err != nil {
		return time.Time{}, false, err
	}
	if f.failCmt[repo] {
		return time.Time{}, false, errFake
	}
	if f.commit.IsZero() {
		return time.Time{}, false, nil
	}
	return f.commit, true, nil
}

func (f *fakeFetcher) ListOpenPullRequests(_ context.Context, _, _ string) ([]model.PullRequest, error) {
	f.record("pulls")
	return f.prs, nil
}

// memorySink collects batches.
type memorySink struct {
	mu      sync.Mutex
	batches map[string][][]model.RepositoryData
	err     error
}

func newMemorySink() *memorySink {
	return &memorySink{batches: map[string][][]model.RepositoryData{}}
}

func (s *memorySink) ReportBatch(org string, records []model.RepositoryData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := append([]model.RepositoryData(nil), records...)
	s.batches[org] = append(s.batches[org], cp)
	return nil
}

func (s *memorySink) all() []model.RepositoryData {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.RepositoryData
	for _, batches := range s.batches {
		for _, b := range batches {
			out = append(out, b...)
		}
	}
	return out
}
