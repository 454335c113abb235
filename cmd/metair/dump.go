package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"metair/internal/diag"
	"metair/internal/driver"
	"metair/internal/source"
	"metair/internal/trace"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [flags] <file.kmeta|directory>...",
		Short: "Print the declarations of metadata fragments",
		Long: `Decode each fragment and print its classes, functions and properties.
Directories are searched for *.kmeta files. A broken fragment is reported
and skipped; the others are still printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDump,
	}
	cmd.Flags().Bool("cache", false, "reuse dumps from the disk cache")
	cmd.Flags().Bool("clear-cache", false, "drop the disk cache before dumping")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().String("format", "short", "diagnostic format (short|json)")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) (err error) {
	stopProfiling, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := stopProfiling(); err == nil {
			err = stopErr
		}
	}()
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	session, fileCfg, err := newSession(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		if session.Jobs, err = flags.GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	useCache := fileCfg.Dump.Cache
	if flags.Changed("cache") {
		if useCache, err = flags.GetBool("cache"); err != nil {
			return fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	clearCache, err := flags.GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	withNotes, err := flags.GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "short" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be short or json)", format)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	if useCache || clearCache {
		cache, cacheErr := driver.OpenDiskCache("metair")
		if cacheErr != nil {
			return fmt.Errorf("open cache: %w", cacheErr)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
		}
		if useCache {
			session.Cache = cache
		}
	}

	span := trace.Begin(session.Tracer, trace.ScopeDriver, "dump", 0)
	ctx := trace.WithSpan(cmd.Context(), span)
	fileSet, results, err := session.DumpFiles(ctx, args)
	span.End("")
	if err != nil {
		return err
	}

	failed := writeDumps(cmd.OutOrStdout(), results)
	if format == "json" {
		if err := diag.WriteJSON(cmd.ErrOrStderr(), collectDiagnostics(results, quiet), fileSet, withNotes); err != nil {
			return err
		}
	} else {
		writeDiagnostics(cmd.ErrOrStderr(), collectDiagnostics(results, quiet), fileSet, withNotes)
	}
	if session.Timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), session.Timer.Summary())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d fragments failed", failed, len(results))
	}
	return nil
}

// writeDumps prints every successful dump in input order. With more than
// one fragment each dump is preceded by a path comment.
func writeDumps(out io.Writer, results []driver.DumpResult) (failed int) {
	header := color.New(color.FgCyan)
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		if len(results) > 1 {
			header.Fprintf(out, "// %s\n", r.Path)
		}
		_, _ = out.Write(r.Output)
	}
	return failed
}

// collectDiagnostics merges the per-fragment bags. quiet keeps errors only.
func collectDiagnostics(results []driver.DumpResult, quiet bool) []diag.Diagnostic {
	all := diag.NewBag(0)
	for _, r := range results {
		if r.Bag != nil {
			all.Merge(r.Bag)
		}
	}
	all.Dedup()
	items := all.Items()
	if !quiet {
		return items
	}
	kept := items[:0:0]
	for _, d := range items {
		if d.Severity >= diag.SevError {
			kept = append(kept, d)
		}
	}
	return kept
}

func writeDiagnostics(out io.Writer, items []diag.Diagnostic, fs *source.FileSet, withNotes bool) {
	if len(items) == 0 {
		return
	}
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow)
	for line := range strings.SplitSeq(diag.FormatShort(items, fs, withNotes), "\n") {
		switch {
		case strings.HasPrefix(line, diag.SevError.Label()):
			line = errColor.Sprint(line)
		case strings.HasPrefix(line, diag.SevWarning.Label()):
			line = warnColor.Sprint(line)
		}
		fmt.Fprintln(out, line)
	}
}
