package cmd

// Options holds the command-line options for the ghinventory CLI.
type Options struct {
	Format       string
	FetchAll     bool     // Lift the 100-organization cap
	AllOrgs      bool     // Enumerate every organization on the server
	SearchRepos  bool     // Accepted for compatibility; has no effect
	Output       string   // Base path for bucket files; stdout when empty
	Count        int      // Global repository cap; 0 means no cap
	ExcludeUsers []string // Collaborator logins left out of reports
	Workers      int      // Organizations processed at once; 0 means all
	NoStream     bool     // Write each bucket in one pass at the end
	Verbosity    int
	ConfigPath   string
	TUI          *bool // nil = auto-detect, true = force TUI, false = disable TUI
	Color        *bool // Table header styling; nil = when stdout is a terminal

	// Profiling options
	CPUProfile string // Write CPU profile to file
	MemProfile string // Write memory profile to file
	Trace      string // Write execution trace to file
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, csv).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithOutput sets the base path for bucket files.
func WithOutput(path string) Option {
	return func(o *Options) {
		o.Output = path
	}
}

// WithCount sets the global repository cap.
func WithCount(count int) Option {
	return func(o *Options) {
		o.Count = count
	}
}

// WithExcludeUsers sets the collaborator logins to leave out.
func WithExcludeUsers(users ...string) Option {
	return func(o *Options) {
		o.ExcludeUsers = users
	}
}

// WithWorkers sets the number of organizations processed at once.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}

// WithColor sets the table color option.
func WithColor(color *bool) Option {
	return func(o *Options) {
		o.Color = color
	}
}
