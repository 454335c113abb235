package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"metair/internal/trace"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <in.kmeta> <out.kmeta>",
		Short: "Rewrite a fragment in the indexed generation",
		Long: `Read a fragment of any known schema generation, check that it decodes,
and write it back in the indexed (type table) form.`,
		Args: cobra.ExactArgs(2),
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) (err error) {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	session, _, err := newSession(cmd)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	span := trace.Begin(session.Tracer, trace.ScopeDriver, "migrate", 0)
	res, err := session.Migrate(trace.WithSpan(cmd.Context(), span), args[0], args[1])
	span.End("")
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: schema %d -> %s (%d classes, %d functions, %d properties, %d bytes)\n",
			args[0], res.FromSchema, args[1], res.Counts.Classes, res.Counts.Functions, res.Counts.Properties, res.Bytes)
	}
	return nil
}
