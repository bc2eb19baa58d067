package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/poolkit/pool"
	"github.com/joshuapare/poolkit/pool/printer"
	"github.com/spf13/cobra"
)

var demoSize int

func init() {
	cmd := newDemoCmd()
	cmd.Flags().IntVar(&demoSize, "size", 150, "Total pool size in bytes for the walkthrough")
	rootCmd.AddCommand(cmd)
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through an allocate/free session on an in-memory pool",
		Long: `The demo command creates a small heap-backed pool and walks through a
scripted allocation session, rendering the memory layout after each step.
It shows first-fit placement, gap reuse after a free, zero-size allocation
rounding, and both failure modes when space runs out.

Example:
  poolctl demo
  poolctl demo --size 4096`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

func runDemo() error {
	p, err := pool.New(demoSize, pool.Options{Label: "demo"})
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer p.Close()

	pr := printer.New(os.Stdout, printer.DefaultOptions())
	show := func() error {
		if quiet {
			return nil
		}
		return pr.Print(p)
	}

	printInfo("Created %d-byte pool\n", demoSize)
	if err := show(); err != nil {
		return err
	}

	a, buf, err := p.Alloc(12)
	if err != nil {
		return fmt.Errorf("alloc(12): %w", err)
	}
	copy(buf, "Hello World")
	printInfo("alloc(12) -> ref %d, payload stores %q\n", a, "Hello World")
	if err := show(); err != nil {
		return err
	}

	b, _, err := p.Alloc(20)
	if err != nil {
		return fmt.Errorf("alloc(20): %w", err)
	}
	printInfo("alloc(20) -> ref %d\n", b)
	if err := show(); err != nil {
		return err
	}

	if err := p.Free(a); err != nil {
		return fmt.Errorf("free(%d): %w", a, err)
	}
	printInfo("free(ref %d) leaves a gap at the front\n", a)
	if err := show(); err != nil {
		return err
	}

	c, _, err := p.Alloc(4)
	if err != nil {
		return fmt.Errorf("alloc(4): %w", err)
	}
	printInfo("alloc(4) -> ref %d, first fit reuses the gap\n", c)
	if err := show(); err != nil {
		return err
	}

	d, _, err := p.Alloc(0)
	if err != nil {
		return fmt.Errorf("alloc(0): %w", err)
	}
	printInfo("alloc(0) -> ref %d, zero-size requests round up to one alignment unit\n", d)
	if err := show(); err != nil {
		return err
	}

	oversize := demoSize * 4
	switch _, _, err := p.Alloc(oversize); {
	case errors.Is(err, pool.ErrNoSpace):
		printInfo("alloc(%d) -> rejected: %v\n", oversize, err)
	case errors.Is(err, pool.ErrFragmented):
		printInfo("alloc(%d) -> rejected: %v\n", oversize, err)
	case err != nil:
		return fmt.Errorf("alloc(%d): %w", oversize, err)
	default:
		return fmt.Errorf("alloc(%d) unexpectedly succeeded", oversize)
	}

	st := p.Stats()
	printInfo("\nFinal stats: total=%d used=%d allocations=%d\n", st.TotalSize, st.UsedMemory, st.NumAllocations)

	for _, ref := range []pool.Ref{b, c, d} {
		if err := p.Free(ref); err != nil {
			return fmt.Errorf("free(%d): %w", ref, err)
		}
	}
	printInfo("Freed everything, pool is one gap again\n")
	return show()
}
