package main

import (
	"fmt"
	"strconv"

	"github.com/joshuapare/poolkit/pool"
	"github.com/spf13/cobra"
)

var createLabel string

func init() {
	cmd := newCreateCmd()
	cmd.Flags().StringVar(&createLabel, "label", "", "Human-readable label stamped into the pool header")
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <file> <size>",
		Short: "Create a new file-backed memory pool",
		Long: `The create command initializes a new file-backed memory pool of the
given total size in bytes. The size covers the pool header and the data
region; the file must not already exist.

Example:
  poolctl create scratch.pool 65536
  poolctl create scratch.pool 65536 --label scratch`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args)
		},
	}
	return cmd
}

func runCreate(args []string) error {
	path := args[0]

	size, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[1], err)
	}

	printVerbose("Creating pool: %s (%d bytes)\n", path, size)

	p, err := pool.Create(path, size, pool.Options{Label: createLabel})
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer p.Close()

	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":       path,
			"total_size": size,
			"label":      p.Label(),
			"created":    true,
		})
	}

	printInfo("Created pool %s (%d bytes)\n", path, size)
	if label := p.Label(); label != "" {
		printInfo("  Label: %s\n", label)
	}

	return nil
}
