package profile

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unsupported Mode disables
	// profiling.
	Mode string
	// Path is the output directory. Empty selects a temporary directory.
	Path string
	// Quiet suppresses the messages pkg/profile prints on start and stop.
	Quiet bool
}

// Option configures a Profiler.
type Option func(Profiler) Profiler

// New returns a Profiler with opts applied in order.
func New(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// Enabled reports whether Start would begin a real profiling session.
func (p Profiler) Enabled() bool {
	if p.Mode == "" {
		return false
	}

	for _, m := range Modes() {
		if m == p.Mode {
			return true
		}
	}

	return false
}

// Start begins profiling. The result is never nil and Stop is always safe to
// call, even when profiling is disabled.
func (p Profiler) Start() Stopper {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

// WithMode sets the profiling mode.
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath sets the output directory.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet suppresses pkg/profile's own logging.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

type ignore struct{}

func (ignore) Stop() {}
