// Package report writes inventory records, split into last-accessed buckets,
// as a table, CSV or JSON.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spiffcs/ghinventory/internal/log"
	"github.com/spiffcs/ghinventory/internal/model"
)

// Options configures a Reporter.
type Options struct {
	Format Format
	// Output is the base path for bucket files; empty writes every bucket
	// to Stdout.
	Output string
	Stdout io.Writer
	// Stream writes each batch as it arrives. Otherwise records are held
	// until Close and each destination is written in one pass.
	Stream bool
	// Color styles the stdout table header: nil decides by whether Stdout
	// is a terminal. Files are never styled.
	Color  *bool
	Now    func() time.Time
}

// sink is one output destination. Without an output file all buckets share
// the same sink.
type sink struct {
	name      string
	w         io.Writer
	closer    io.Closer
	formatter Formatter
	started   bool
	pending   []model.RepositoryData
}

// Reporter receives record batches from concurrent organization tasks and
// routes them to bucket sinks. All methods are serialized on one mutex.
type Reporter struct {
	mu      sync.Mutex
	opts    Options
	buckets [5]*sink
	sinks   []*sink // distinct sinks, in bucket order
	counts  [5]int
	closed  bool
}

// New opens the report destinations. With an output base every bucket
// file is created up front under the results directory.
func New(opts Options) (*Reporter, error) {
	if opts.Format == "" {
		opts.Format = FormatTable
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &Reporter{opts: opts}

	if opts.Output == "" {
		useColor := IsTerminal(opts.Stdout)
		if opts.Color != nil {
			useColor = *opts.Color
		}
		s := &sink{
			name:      "stdout",
			w:         opts.Stdout,
			formatter: NewFormatter(opts.Format, useColor),
		}
		for _, b := range Buckets {
			r.buckets[b] = s
		}
		r.sinks = []*sink{s}
		return r, nil
	}

	if err := os.MkdirAll(filepath.Dir(BucketPath(opts.Output, Bucket30d)), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	for _, b := range Buckets {
		path := BucketPath(opts.Output, b)
		f, err := os.Create(path)
		if err != nil {
			r.closeFiles()
			return nil, fmt.Errorf("failed to create %s: %w", path, err)
		}
		s := &sink{name: path, w: f, closer: f, formatter: NewFormatter(opts.Format, false)}
		r.buckets[b] = s
		r.sinks = append(r.sinks, s)
	}
	return r, nil
}

// Paths returns the files written, or nil when writing to stdout.
func (r *Reporter) Paths() []string {
	if r.opts.Output == "" {
		return nil
	}
	paths := make([]string, 0, len(r.sinks))
	for _, s := range r.sinks {
		paths = append(paths, s.name)
	}
	return paths
}

// ReportBatch partitions records by bucket and writes each non-empty
// partition, preceded by the header the first time its sink is used.
func (r *Reporter) ReportBatch(org string, records []model.RepositoryData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.New("reporter is closed")
	}

	now := r.opts.Now()
	parts := make([][]model.RepositoryData, len(Buckets))
	for _, rec := range records {
		b := BucketFor(rec.LastAccessed, now)
		parts[b] = append(parts[b], rec)
	}

	for _, b := range Buckets {
		part := parts[b]
		if len(part) == 0 {
			continue
		}
		r.counts[b] += len(part)
		s := r.buckets[b]
		if !r.opts.Stream {
			s.pending = append(s.pending, part...)
			continue
		}
		if !s.started {
			if err := s.formatter.Header(s.w); err != nil {
				return fmt.Errorf("failed to write header to %s: %w", s.name, err)
			}
			s.started = true
		}
		if err := s.formatter.Rows(part, s.w); err != nil {
			return fmt.Errorf("failed to write to %s: %w", s.name, err)
		}
	}

	log.Info("batch reported", "org", org, "records", len(records))
	return nil
}

func (r *Reporter) flushPending() error {
	for _, s := range r.sinks {
		if s.started || (len(s.pending) == 0 && r.opts.Output != "") {
			continue
		}
		if err := s.formatter.Format(s.pending, s.w); err != nil {
			return fmt.Errorf("failed to write to %s: %w", s.name, err)
		}
		s.pending = nil
		s.started = true
	}
	return nil
}

// Counts returns the number of records reported per bucket.
func (r *Reporter) Counts() map[Bucket]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[Bucket]int, len(Buckets))
	for _, b := range Buckets {
		counts[b] = r.counts[b]
	}
	return counts
}

// Close writes anything held back, finishes started tables and closes the
// bucket files. It is safe to call more than once.
func (r *Reporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	if r.opts.Stream {
		for _, s := range r.sinks {
			if !s.started {
				continue
			}
			if err := s.formatter.Footer(s.w); err != nil {
				errs = append(errs, fmt.Errorf("failed to finish %s: %w", s.name, err))
			}
		}
	} else if err := r.flushPending(); err != nil {
		errs = append(errs, err)
	}

	errs = append(errs, r.closeFiles()...)
	return errors.Join(errs...)
}

func (r *Reporter) closeFiles() []error {
	var errs []error
	for _, s := range r.sinks {
		if s.closer == nil {
			continue
		}
		if err := s.closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
