package main

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"metair/internal/driver"
)

func newLinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lines <file> <offset>...",
		Short: "Map byte offsets to zero-based line and column",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			offsets := make([]uint32, 0, len(args)-1)
			for _, a := range args[1:] {
				off, err := strconv.ParseUint(a, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid offset %q: %w", a, err)
				}
				off32, err := safecast.Conv[uint32](off)
				if err != nil {
					return err
				}
				offsets = append(offsets, off32)
			}
			positions, err := driver.Lines(args[0], offsets)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range positions {
				fmt.Fprintln(out, p.String())
			}
			return nil
		},
	}
}
