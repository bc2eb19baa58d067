package main

import (
	"fmt"
	"os"

	"github.com/joshuapare/poolkit/pool"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Report pool statistics and free-space summary",
		Long: `The info command opens a file-backed memory pool and displays its
statistics: total size, used memory, active allocations, and a summary of
the remaining gaps.

Example:
  poolctl info scratch.pool
  poolctl info scratch.pool --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	path := args[0]

	printVerbose("Opening pool: %s\n", path)

	p, err := pool.Open(path, pool.Options{})
	if err != nil {
		return fmt.Errorf("failed to open pool: %w", err)
	}
	defer p.Close()

	st := p.Stats()

	segs, err := p.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read layout: %w", err)
	}

	var freeMemory, largestGap, gaps int
	for _, seg := range segs {
		if seg.Kind != pool.SegmentGap {
			continue
		}
		gaps++
		freeMemory += int(seg.Length)
		if int(seg.Length) > largestGap {
			largestGap = int(seg.Length)
		}
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":        path,
			"label":       p.Label(),
			"total_size":  st.TotalSize,
			"used_memory": st.UsedMemory,
			"allocations": st.NumAllocations,
			"free_memory": freeMemory,
			"largest_gap": largestGap,
			"gaps":        gaps,
		})
	}

	printInfo("\nPool Information:\n")
	printInfo("  File: %s\n", path)

	if stat, err := os.Stat(path); err == nil {
		size := stat.Size()
		if size < 1024 {
			printInfo("  File Size: %d bytes\n", size)
		} else if size < 1024*1024 {
			printInfo("  File Size: %.1f KB\n", float64(size)/1024)
		} else {
			printInfo("  File Size: %.1f MB\n", float64(size)/(1024*1024))
		}
	}

	if label := p.Label(); label != "" {
		printInfo("  Label: %s\n", label)
	}

	printInfo("  Total Size: %d bytes\n", st.TotalSize)
	printInfo("  Used Memory: %d bytes\n", st.UsedMemory)
	printInfo("  Active Allocations: %d\n", st.NumAllocations)

	printInfo("\nFree Space:\n")
	printInfo("  Free Memory: %d bytes\n", freeMemory)
	printInfo("  Largest Gap: %d bytes\n", largestGap)
	printInfo("  Gap Count: %d\n", gaps)

	return nil
}
