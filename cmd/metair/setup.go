package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"metair/internal/driver"
	"metair/internal/observ"
	"metair/internal/prof"
	"metair/internal/target"
	"metair/internal/trace"
)

// setupColor applies --color. auto enables color only when stdout is a
// terminal.
func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(mode) {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid color mode %q (expected auto|on|off)", mode)
	}
	return nil
}

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context. The returned cleanup flushes it; when the tracer keeps a
// ring buffer and the command failed, the ring is dumped to stderr.
func setupTracing(cmd *cobra.Command) (func(failed bool), error) {
	pf := cmd.Root().PersistentFlags()
	traceOutput, err := pf.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := pf.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := pf.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := pf.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	formatStr, err := pf.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" && !pf.Changed("trace-level") {
		level = trace.LevelPhase
	}
	ctx := cmd.Context()
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(ctx, trace.Nop))
		return func(bool) {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	}
	if traceOutput == "" || traceOutput == "-" {
		cfg.Output = writerOnly{cmd.ErrOrStderr()}
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(ctx, tracer))

	cleanup := func(failed bool) {
		errOut := cmd.ErrOrStderr()
		if failed {
			dumpRing(errOut, tracer)
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(errOut, "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

func dumpRing(w io.Writer, tracer trace.Tracer) {
	var ring *trace.RingTracer
	switch t := tracer.(type) {
	case *trace.RingTracer:
		ring = t
	case *trace.MultiTracer:
		ring, _ = t.Ring()
	}
	if ring == nil {
		return
	}
	fmt.Fprintln(w, "trace: last events before failure:")
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}

// writerOnly hides Close so the tracer never closes stderr.
type writerOnly struct{ io.Writer }

// newSession builds a driver session from persistent flags and metair.toml.
// Flags win over the config file.
func newSession(cmd *cobra.Command) (*driver.Session, *fileConfig, error) {
	pf := cmd.Root().PersistentFlags()
	configPath, err := pf.GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	fileCfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	request, err := pf.GetString("target")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get target flag: %w", err)
	}
	if !pf.Changed("target") && fileCfg.isSet("target", "name") {
		request = fileCfg.Target.Name
	}
	tcfg, err := target.Resolve(request, target.CurrentHost())
	if err != nil {
		return nil, nil, err
	}

	maxDiagnostics, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := pf.GetBool("timings")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	s := driver.NewSession(tcfg)
	s.Tracer = trace.FromContext(cmd.Context())
	s.MaxDiagnostics = maxDiagnostics
	s.Jobs = fileCfg.Dump.Jobs
	if timings {
		s.Timer = observ.NewTimer()
		s.Timings = true
	}
	return s, fileCfg, nil
}

// startProfiling starts the profiles requested by --cpu-profile,
// --mem-profile and --runtime-trace.
func startProfiling(cmd *cobra.Command) (func() error, error) {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = pf.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	p, err := prof.Start(opts)
	if err != nil {
		return nil, fmt.Errorf("start profiling: %w", err)
	}
	return p.Stop, nil
}
