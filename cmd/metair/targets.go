package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"metair/internal/target"
)

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the targets available on this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := newSession(cmd)
			if err != nil {
				return err
			}
			return printTargets(cmd, session.Target)
		},
	}
}

func printTargets(cmd *cobra.Command, cfg target.Config) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Possible values for targets:")
	for _, e := range cfg.List() {
		mark := ""
		if e.Default {
			mark = "(default)"
		}
		if _, err := fmt.Fprintf(out, "%-30s%-10s\n", e.Alias, mark); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nhost suffix: %s\n", cfg.HostTargetSuffix())
	return nil
}
