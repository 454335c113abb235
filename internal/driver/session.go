package driver

import (
	"runtime"

	"metair/internal/observ"
	"metair/internal/target"
	"metair/internal/trace"
)

// DefaultMaxDiagnostics bounds the diagnostics kept per fragment.
const DefaultMaxDiagnostics = 100

// Session carries the settings of one CLI command. It holds no global state
// and may be used by one command at a time.
type Session struct {
	Target         target.Config
	Tracer         trace.Tracer
	Jobs           int        // <= 0 means GOMAXPROCS
	Cache          *DiskCache // nil disables caching
	MaxDiagnostics int
	Timer          *observ.Timer // nil disables phase timing
	Timings        bool          // attach per-fragment timing diagnostics
}

// NewSession returns a session for cfg with defaults for everything else.
func NewSession(cfg target.Config) *Session {
	return &Session{
		Target:         cfg,
		Tracer:         trace.Nop,
		MaxDiagnostics: DefaultMaxDiagnostics,
	}
}

func (s *Session) jobs(n int) int {
	jobs := s.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

func (s *Session) tracer() trace.Tracer {
	if s.Tracer == nil {
		return trace.Nop
	}
	return s.Tracer
}

func (s *Session) maxDiagnostics() int {
	if s.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return s.MaxDiagnostics
}

func (s *Session) begin(name string) int {
	if s.Timer == nil {
		return -1
	}
	return s.Timer.Begin(name)
}

func (s *Session) end(idx, items int, note string) {
	if s.Timer == nil {
		return
	}
	s.Timer.EndItems(idx, items, note)
}
