package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/spiffcs/ghinventory/internal/log"
)

// Profiler captures CPU, heap and execution-trace profiles of a run.
// Empty paths disable the corresponding profile.
type Profiler struct {
	CPU   string
	Heap  string
	Trace string

	// stops run in reverse order of start
	stops []func() error
}

// NewProfiler creates a profiler from the profiling flags.
func NewProfiler(opts *Options) *Profiler {
	return &Profiler{
		CPU:   opts.CPUProfile,
		Heap:  opts.MemProfile,
		Trace: opts.Trace,
	}
}

// Start begins CPU profiling and tracing. On failure anything already
// started is stopped again.
func (p *Profiler) Start() error {
	if p.CPU != "" {
		if err := p.begin(p.CPU, "CPU profile", pprof.StartCPUProfile, pprof.StopCPUProfile); err != nil {
			return err
		}
	}
	if p.Trace != "" {
		if err := p.begin(p.Trace, "trace", trace.Start, trace.Stop); err != nil {
			_ = p.Stop()
			return err
		}
	}
	return nil
}

func (p *Profiler) begin(path, what string, start func(io.Writer) error, stop func()) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", what, err)
	}
	if err := start(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not start %s: %w", what, err)
	}
	log.Debug("profiling started", "kind", what, "path", path)
	p.stops = append(p.stops, func() error {
		stop()
		if err := f.Close(); err != nil {
			return fmt.Errorf("could not close %s: %w", what, err)
		}
		return nil
	})
	return nil
}

// Stop ends profiling and writes the heap profile. It is safe to call more
// than once.
func (p *Profiler) Stop() error {
	var errs []error
	for i := len(p.stops) - 1; i >= 0; i-- {
		errs = append(errs, p.stops[i]())
	}
	p.stops = nil

	if p.Heap != "" {
		errs = append(errs, writeHeapProfile(p.Heap))
		p.Heap = ""
	}

	err := errors.Join(errs...)
	if err != nil {
		log.Warn("profiling incomplete", "error", err)
	}
	return err
}

func writeHeapProfile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("could not close memory profile: %w", cerr)
		}
	}()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	return nil
}
