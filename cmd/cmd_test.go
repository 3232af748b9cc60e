package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/ghinventory/internal/report"
	"github.com/spiffcs/ghinventory/internal/tui"
)

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "ghinventory" {
		t.Errorf("expected Use to be 'ghinventory', got %q", cmd.Use)
	}

	for _, name := range []string{"format", "fetch-all", "all-orgs", "search-repos", "output", "count", "exclude-user", "workers", "no-stream", "tui", "color", "verbose", "config"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
	for _, sub := range []string{"config", "version", "ratelimit"} {
		if c, _, err := cmd.Find([]string{sub}); err != nil || c.Name() != sub {
			t.Errorf("missing subcommand %q", sub)
		}
	}
}

func TestNewCmdVersion(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")

	var out bytes.Buffer
	cmd := NewCmdVersion()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "ghinventory 1.0.0") || !strings.Contains(out.String(), "abc123") {
		t.Errorf("unexpected version output %q", out.String())
	}

	out.Reset()
	cmd = NewCmdVersion()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-o", "json"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	var info map[string]string
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("version JSON invalid: %v\n%s", err, out.String())
	}
	if info["version"] != "1.0.0" || info["build_date"] != "2024-01-01" || info["go_version"] == "" {
		t.Errorf("unexpected version info %v", info)
	}

	cmd = NewCmdVersion()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", "xml"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNewOptions(t *testing.T) {
	tuiOff := false
	opts := NewOptions(
		WithFormat("csv"),
		WithOutput("inv.csv"),
		WithCount(5),
		WithExcludeUsers("svc-a"),
		WithWorkers(4),
		WithVerbosity(2),
		WithTUI(&tuiOff),
	)
	if opts.Format != "csv" || opts.Output != "inv.csv" || opts.Count != 5 || opts.Workers != 4 || opts.Verbosity != 2 {
		t.Errorf("options not applied: %+v", opts)
	}
	if len(opts.ExcludeUsers) != 1 || opts.TUI == nil || *opts.TUI {
		t.Errorf("options not applied: %+v", opts)
	}
}

func TestShouldUseTUI(t *testing.T) {
	on, off := true, false
	tests := []struct {
		name string
		opts Options
		want bool
	}{
		{"stdout reports never", Options{TUI: &on}, false},
		{"forced with output", Options{Output: "x.csv", TUI: &on}, true},
		{"disabled", Options{Output: "x.csv", TUI: &off}, false},
		{"verbose", Options{Output: "x.csv", TUI: &on, Verbosity: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldUseTUI(&tt.opts); got != tt.want {
				t.Errorf("shouldUseTUI() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAutoFlag(t *testing.T) {
	opts := &Options{}
	f := newAutoFlag(&opts.TUI)
	if f.String() != "auto" {
		t.Errorf("default = %q", f.String())
	}
	for _, v := range []string{"true", "false", "auto"} {
		if err := f.Set(v); err != nil {
			t.Errorf("Set(%q) error = %v", v, err)
		}
		if f.String() != v {
			t.Errorf("after Set(%q) String() = %q", v, f.String())
		}
	}
	if err := f.Set("never"); err != nil || opts.TUI == nil || *opts.TUI {
		t.Errorf("Set(never) should disable, got %v %v", err, opts.TUI)
	}
	if err := f.Set("maybe"); err == nil {
		t.Error("expected error for invalid value")
	}
}

func TestColorFlag(t *testing.T) {
	root := New()
	if err := root.ParseFlags([]string{"--color"}); err != nil {
		t.Fatal(err)
	}
	if got := root.Flags().Lookup("color").Value.String(); got != "true" {
		t.Errorf("bare --color = %q, want true", got)
	}
}

func TestTableColor(t *testing.T) {
	on := true
	noColor := func(k string) string {
		if k == "NO_COLOR" {
			return "1"
		}
		return ""
	}
	none := func(string) string { return "" }

	if got := tableColor(&Options{}, none); got != nil {
		t.Errorf("auto without NO_COLOR should stay nil, got %v", *got)
	}
	if got := tableColor(&Options{}, noColor); got == nil || *got {
		t.Error("NO_COLOR should disable color")
	}
	if got := tableColor(&Options{Color: &on}, noColor); got == nil || !*got {
		t.Error("--color should win over NO_COLOR")
	}
}

func TestMergeUsers(t *testing.T) {
	got := mergeUsers([]string{"svc-a", "Bot"}, []string{"bot", "svc-b", " "})
	want := []string{"svc-a", "Bot", "svc-b"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("mergeUsers() = %v, want %v", got, want)
	}
}

// isolate points config discovery at empty temp dirs and returns the work dir.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GITHUB_SERVER_BASE", "")
	t.Setenv("GITHUB_SSL_CERT", "")
	t.Setenv("GITHUB_SSL_NO_VERIFY", "")
	work := t.TempDir()
	t.Chdir(work)
	return work
}

func TestLoadRunConfig(t *testing.T) {
	work := isolate(t)

	cfgPath := filepath.Join(work, "cfg.yaml")
	cfgYAML := `base_url: https://ghe.example.com
default_format: json
exclude_users: [svc-a]
pull_requests:
  stale_after: 1w
`
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{"GITHUB_TOKEN": "tok"}
	getenv := func(k string) string { return env[k] }

	cfg, err := loadRunConfig(&Options{ConfigPath: cfgPath, ExcludeUsers: []string{"svc-b"}, Count: 3}, getenv)
	if err != nil {
		t.Fatalf("loadRunConfig() error = %v", err)
	}
	if cfg.BaseURL != "https://ghe.example.com/api/v3" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Format != report.FormatJSON {
		t.Errorf("Format = %q, want config default json", cfg.Format)
	}
	if cfg.StaleAfter != 7*24*time.Hour || cfg.OldAfter != 30*24*time.Hour {
		t.Errorf("thresholds = %v, %v", cfg.StaleAfter, cfg.OldAfter)
	}
	if len(cfg.ExcludeUsers) != 2 || cfg.Count != 3 || !cfg.Stream {
		t.Errorf("unexpected config %+v", cfg)
	}

	// flag beats config file, environment beats config file
	env["GITHUB_SERVER_BASE"] = "https://other.example.com/api/v3"
	cfg, err = loadRunConfig(&Options{ConfigPath: cfgPath, Format: "csv", NoStream: true}, getenv)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != report.FormatCSV || cfg.Stream {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.BaseURL != "https://other.example.com/api/v3" {
		t.Errorf("BaseURL = %q, environment should win", cfg.BaseURL)
	}

	delete(env, "GITHUB_TOKEN")
	if _, err := loadRunConfig(&Options{ConfigPath: cfgPath}, getenv); err == nil || !strings.Contains(err.Error(), "GITHUB_TOKEN") {
		t.Errorf("expected missing token error, got %v", err)
	}

	env["GITHUB_TOKEN"] = "tok"
	if _, err := loadRunConfig(&Options{ConfigPath: cfgPath, Format: "xml"}, getenv); err == nil {
		t.Error("expected invalid format error")
	}
}

func TestRootRejectsBadArguments(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_TOKEN", "tok")

	tests := []struct {
		name string
		args []string
	}{
		{"zero count", []string{"--count", "0"}},
		{"negative count", []string{"--count", "-2"}},
		{"non-numeric count", []string{"--count", "many"}},
		{"unknown flag", []string{"--bogus"}},
		{"negative workers", []string{"--workers", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New()
			root.SetArgs(tt.args)
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			if err := root.Execute(); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

// stubAPI serves a GitHub Enterprise style API under /api/v3 with one
// organization owning two repositories. routes can add endpoints.
func stubAPI(t *testing.T, routes ...func(*http.ServeMux)) *httptest.Server {
	t.Helper()

	recent := time.Now().Add(-5 * 24 * time.Hour).UTC().Format(time.RFC3339)
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			t.Errorf("encode: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/user/orgs", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		writeJSON(w, []map[string]any{{"login": "acme", "id": 1}})
	})
	mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{"name": "widgets", "private": true, "visibility": "internal"},
			{"name": "gadgets", "private": false},
		})
	})
	mux.HandleFunc("/repos/acme/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/repos/acme/"), "/")
		if len(parts) != 2 {
			http.NotFound(w, r)
			return
		}
		repo, resource := parts[0], parts[1]
		switch resource {
		case "languages":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Go": 9000, "Shell": 120}`))
		case "teams":
			writeJSON(w, []map[string]any{{"name": "platform", "id": 7, "slug": "platform", "permission": "push"}})
		case "collaborators":
			if got := r.URL.Query().Get("affiliation"); got != "direct" {
				t.Errorf("affiliation = %q, want direct", got)
			}
			writeJSON(w, []map[string]any{{
				"login":       "jsmith",
				"ldap_dn":     `CN=Smith\, Jane,OU=Users,DC=example,DC=com`,
				"permissions": map[string]bool{"push": true, "pull": true},
			}})
		case "commits":
			if repo == "gadgets" {
				writeJSON(w, []any{})
				return
			}
			writeJSON(w, []*gh.RepositoryCommit{{
				Commit: &gh.Commit{Author: &gh.CommitAuthor{Date: &gh.Timestamp{Time: mustParse(t, recent)}}},
			}})
		case "pulls":
			writeJSON(w, []map[string]any{
				{"number": 1, "state": "open", "created_at": time.Now().Add(-40 * 24 * time.Hour).UTC().Format(time.RFC3339)},
				{"number": 2, "state": "open", "created_at": time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)},
			})
		default:
			http.NotFound(w, r)
		}
	})

	for _, route := range routes {
		route(mux)
	}

	server := httptest.NewServer(http.StripPrefix("/api/v3", mux))
	t.Cleanup(server.Close)
	return server
}

// captureDisplay stands in for the progress display and records the task
// events it receives.
func captureDisplay(t *testing.T) *[]tui.TaskEvent {
	t.Helper()
	var got []tui.TaskEvent
	orig := runTUI
	runTUI = func(events <-chan tui.Event) error {
		for e := range events {
			if te, ok := e.(tui.TaskEvent); ok {
				got = append(got, te)
			}
		}
		return nil
	}
	t.Cleanup(func() { runTUI = orig })
	return &got
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestInventoryEndToEndCSVFiles(t *testing.T) {
	work := isolate(t)
	server := stubAPI(t)
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_SERVER_BASE", server.URL)

	var stdout, stderr bytes.Buffer
	root := New()
	root.SetArgs([]string{"--format", "csv", "--count", "2", "--output", "inventory.csv", "--tui=false"})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v\nstderr: %s", err, stderr.String())
	}

	var dataRows []string
	nonEmpty := 0
	for _, b := range report.Buckets {
		path := filepath.Join(work, report.BucketPath("inventory.csv", b))
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("bucket file %s missing: %v", path, err)
		}
		if len(data) == 0 {
			continue
		}
		nonEmpty++
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if lines[0] != "organization,repository,visibility,collaborators,languages,last_accessed,active_prs,prs_2w,prs_1m" {
			t.Errorf("%s: first line %q is not the header", path, lines[0])
		}
		dataRows = append(dataRows, lines[1:]...)
	}

	if nonEmpty != 2 {
		t.Errorf("expected 2 non-empty bucket files, got %d", nonEmpty)
	}
	if len(dataRows) != 2 {
		t.Fatalf("expected 2 data rows, got %d: %v", len(dataRows), dataRows)
	}

	joined := strings.Join(dataRows, "\n")
	if !strings.Contains(joined, `acme,widgets,internal,"platform[push], Jane Smith[push]","Go, Shell",`) {
		t.Errorf("widgets row not as expected:\n%s", joined)
	}
	if !strings.Contains(joined, "acme,gadgets,public,") || !strings.Contains(joined, ",N/A,2,1,1") {
		t.Errorf("gadgets row not as expected:\n%s", joined)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should reach stdout when writing files, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Inventoried 2 repositories from 1 organizations") {
		t.Errorf("missing summary in stderr: %q", stderr.String())
	}
}

func TestInventoryEndToEndStdoutJSON(t *testing.T) {
	isolate(t)
	server := stubAPI(t)
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_SERVER_BASE", server.URL)

	var stdout, stderr bytes.Buffer
	root := New()
	root.SetArgs([]string{"--format", "json", "--count", "1", "--exclude-user", "JSMITH"})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v\nstderr: %s", err, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 JSON line, got %d:\n%s", len(lines), stdout.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["repository"] != "widgets" {
		t.Errorf("repository = %v, want the first listed", rec["repository"])
	}
	if rec["collaborators"] != "platform[push]" {
		t.Errorf("collaborators = %v, excluded user should be dropped", rec["collaborators"])
	}
}

func TestInventoryContinuesWithoutTokenOwner(t *testing.T) {
	isolate(t)
	server := stubAPI(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message": "Resource not accessible by integration"}`))
		})
	})
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_SERVER_BASE", server.URL)
	events := captureDisplay(t)

	var stdout, stderr bytes.Buffer
	root := New()
	root.SetArgs([]string{"--format", "csv", "--output", "inventory.csv", "--tui=true"})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v\nstderr: %s", err, stderr.String())
	}

	var auth *tui.TaskEvent
	for i, e := range *events {
		if e.Task == tui.TaskAuth && e.Status != tui.StatusRunning {
			auth = &(*events)[i]
		}
	}
	if auth == nil || auth.Status != tui.StatusSkipped {
		t.Errorf("expected auth task to be skipped, got %+v", auth)
	}
	if !strings.Contains(stderr.String(), "could not identify token owner") {
		t.Errorf("expected a warning about the token owner, got %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "Inventoried 2 repositories from 1 organizations") {
		t.Errorf("missing summary in stderr: %q", stderr.String())
	}
}

func TestWarningsReachStderrAfterDisplay(t *testing.T) {
	isolate(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login": "octocat"}`))
	})
	mux.HandleFunc("/user/orgs", func(w http.ResponseWriter, r *http.Request) {
		// a full first page and one more: past the default cap of 100
		first, n := 0, 1
		if r.URL.Query().Get("page") == "1" {
			n = 100
		} else {
			first = 100
		}
		orgs := make([]map[string]any, n)
		for i := range orgs {
			orgs[i] = map[string]any{"login": fmt.Sprintf("org%d", first+i), "id": first + i + 1}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(orgs)
	})
	mux.HandleFunc("/orgs/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	server := httptest.NewServer(http.StripPrefix("/api/v3", mux))
	t.Cleanup(server.Close)

	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_SERVER_BASE", server.URL)
	events := captureDisplay(t)

	var stdout, stderr bytes.Buffer
	root := New()
	root.SetArgs([]string{"--format", "csv", "--output", "inventory.csv", "--tui=true"})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v\nstderr: %s", err, stderr.String())
	}

	out := stderr.String()
	warning := strings.Index(out, "organization list truncated")
	summary := strings.Index(out, "Inventoried 0 repositories from 100 organizations")
	if warning < 0 {
		t.Fatalf("truncation warning lost while the display ran: %q", out)
	}
	if summary < 0 || warning > summary {
		t.Errorf("expected the warning before the summary: %q", out)
	}

	listed := false
	for _, e := range *events {
		if e.Task == tui.TaskOrgs && e.Status == tui.StatusComplete && e.Count == 100 {
			listed = true
		}
	}
	if !listed {
		t.Errorf("expected the display to see 100 organizations, got %+v", *events)
	}
}

func TestRateLimitStatusReadsConfigFile(t *testing.T) {
	work := isolate(t)

	reset := time.Now().Add(10 * time.Minute).Unix()
	server := stubAPI(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Authorization = %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"resources": {"core": {"limit": 5000, "remaining": 42, "reset": %d}}}`, reset)
		})
	})

	cfgPath := filepath.Join(work, "ghe.yaml")
	if err := os.WriteFile(cfgPath, []byte("base_url: "+server.URL+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GITHUB_TOKEN", "test-token")
	var out bytes.Buffer
	root := New()
	root.SetArgs([]string{"ratelimit", "status", "--config", cfgPath})
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "42/5000 remaining") {
		t.Errorf("unexpected rate limit output %q", out.String())
	}

	t.Setenv("GITHUB_TOKEN", "")
	root = New()
	root.SetArgs([]string{"ratelimit", "status", "--config", cfgPath})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "GITHUB_TOKEN") {
		t.Errorf("expected missing token error, got %v", err)
	}
}

func TestPrintRateLimits(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limits := &gh.RateLimits{
		Core:   &gh.Rate{Limit: 5000, Remaining: 4999, Reset: gh.Timestamp{Time: now.Add(30 * time.Minute)}},
		Search: &gh.Rate{Limit: 30, Remaining: 30, Reset: gh.Timestamp{Time: now.Add(-time.Minute)}},
	}

	var out bytes.Buffer
	printRateLimits(&out, limits, now)

	got := out.String()
	if !strings.Contains(got, "Core API:   4999/5000 remaining (resets in 30m0s)") {
		t.Errorf("core line missing:\n%s", got)
	}
	if !strings.Contains(got, "Search API: 30/30 remaining (resets in 0s)") {
		t.Errorf("search line missing:\n%s", got)
	}
	if strings.Contains(got, "GraphQL") {
		t.Errorf("nil GraphQL rate should be skipped:\n%s", got)
	}
}

func TestConfigPathAndDefaults(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	root := New()
	root.SetArgs([]string{"config", "path"})
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), filepath.Join("ghinventory", "config.yaml")) {
		t.Errorf("config path output missing global path:\n%s", out.String())
	}

	out.Reset()
	root = New()
	root.SetArgs([]string{"config", "defaults", "-o", "json"})
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("defaults JSON invalid: %v\n%s", err, out.String())
	}
	if parsed["default_format"] != "table" {
		t.Errorf("default_format = %v", parsed["default_format"])
	}
}

func TestConfigInitLocal(t *testing.T) {
	work := isolate(t)

	root := New()
	root.SetArgs([]string{"config", "init", "--local"})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(work, ".ghinventory.yaml")); err != nil {
		t.Errorf("local config not created: %v", err)
	}

	root = New()
	root.SetArgs([]string{"config", "init", "--local"})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestProfiler(t *testing.T) {
	dir := t.TempDir()
	p := NewProfiler(&Options{
		CPUProfile: filepath.Join(dir, "cpu.out"),
		MemProfile: filepath.Join(dir, "mem.out"),
		Trace:      filepath.Join(dir, "trace.out"),
	})
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}

	for _, name := range []string{"cpu.out", "mem.out", "trace.out"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestProfilerBadPath(t *testing.T) {
	p := NewProfiler(&Options{CPUProfile: filepath.Join(t.TempDir(), "missing", "cpu.out")})
	if err := p.Start(); err == nil {
		t.Error("expected error for unwritable profile path")
	}
}

func TestBucketCounts(t *testing.T) {
	counts := map[report.Bucket]int{report.Bucket60d: 4, report.BucketOlder: 1}

	got := bucketCounts(counts, "out/inventory.csv")
	if len(got) != 2 {
		t.Fatalf("expected 2 non-empty buckets, got %+v", got)
	}
	if got[0].Label != "<= 60 days" || got[0].Count != 4 || got[0].Path != filepath.Join("out", "results", "inventory-60d.csv") {
		t.Errorf("unexpected first bucket %+v", got[0])
	}
	if got[1].Label != "> 240 days" || got[1].Path != filepath.Join("out", "results", "inventory-gt-240d.csv") {
		t.Errorf("unexpected second bucket %+v", got[1])
	}

	if stdout := bucketCounts(counts, ""); stdout[0].Path != "" {
		t.Errorf("stdout buckets should carry no path, got %q", stdout[0].Path)
	}
}
