package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"metair/internal/version"
)

// newRootCmd builds the command tree. Tests call it to get a fresh tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "metair",
		Short:         "Compiled-metadata inspection tools",
		Long:          `metair decodes serialized declaration metadata and prints it in a readable form`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupColor(cmd)
		},
	}

	// Добавляем команды
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newLinesCmd())
	rootCmd.AddCommand(newTargetsCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics kept per fragment")
	pf.String("target", "", "target platform or alias (default: host)")
	pf.String("config", "", "path to metair.toml (default: ./metair.toml when present)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "auto", "trace event format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for ring/both trace modes")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
