package main

import (
	"fmt"
	"os"

	"github.com/joshuapare/poolkit/pool"
	"github.com/joshuapare/poolkit/pool/printer"
	"github.com/spf13/cobra"
)

var layoutOffsets bool

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().BoolVar(&layoutOffsets, "offsets", false, "Prefix each segment with its byte offset")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Render the pool's gap/used memory layout",
		Long: `The layout command opens a file-backed memory pool and renders its
memory layout segment by segment, in address order. Used segments include
the allocation node header in their length.

Example:
  poolctl layout scratch.pool
  poolctl layout scratch.pool --offsets
  poolctl layout scratch.pool --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(args)
		},
	}
	return cmd
}

func runLayout(args []string) error {
	path := args[0]

	printVerbose("Opening pool: %s\n", path)

	p, err := pool.Open(path, pool.Options{})
	if err != nil {
		return fmt.Errorf("failed to open pool: %w", err)
	}
	defer p.Close()

	opts := printer.DefaultOptions()
	opts.ShowOffsets = layoutOffsets
	opts.ShowLabel = true
	if jsonOut {
		opts.Format = printer.FormatJSON
	}

	return printer.New(os.Stdout, opts).Print(p)
}
