package cmd

import (
	"fmt"

	"github.com/spiffcs/ghinventory/internal/tui"
)

// autoFlag is a pflag.Value for settings that are detected from the
// environment unless forced on or off: nil means auto.
type autoFlag struct {
	target **bool
}

func newAutoFlag(target **bool) *autoFlag {
	return &autoFlag{target: target}
}

func (f *autoFlag) String() string {
	switch {
	case *f.target == nil:
		return "auto"
	case **f.target:
		return "true"
	default:
		return "false"
	}
}

func (f *autoFlag) Set(s string) error {
	var v bool
	switch s {
	case "true", "1", "yes", "always":
		v = true
	case "false", "0", "no", "never":
		v = false
	case "auto":
		*f.target = nil
		return nil
	default:
		return fmt.Errorf("invalid value %q: use true, false, or auto", s)
	}
	*f.target = &v
	return nil
}

func (f *autoFlag) Type() string {
	return "bool"
}

// IsBoolFlag lets a bare --flag mean true.
func (f *autoFlag) IsBoolFlag() bool {
	return true
}

// shouldUseTUI reports whether the progress display runs. It never runs
// when reports go to stdout or verbose logs were asked for.
func shouldUseTUI(opts *Options) bool {
	if opts.Output == "" || opts.Verbosity > 0 {
		return false
	}
	if opts.TUI != nil {
		return *opts.TUI
	}
	return tui.ShouldUseTUI()
}

// tableColor resolves --color for the stdout table. NO_COLOR turns auto
// detection off.
func tableColor(opts *Options, getenv func(string) string) *bool {
	if opts.Color != nil {
		return opts.Color
	}
	if getenv("NO_COLOR") != "" {
		off := false
		return &off
	}
	return nil
}
