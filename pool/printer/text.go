package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/poolkit/pool"
)

// printText prints pool stats and layout in human-readable text format.
func (pr *Printer) printText(p *pool.Pool) error {
	st := p.Stats()

	fmt.Fprintf(pr.writer, "\nMemory Pool Visualization:\n")
	if pr.opts.ShowLabel {
		if label := p.Label(); label != "" {
			fmt.Fprintf(pr.writer, "Label: %s\n", label)
		}
	}
	fmt.Fprintf(pr.writer, "Total Size: %d bytes\n", st.TotalSize)
	fmt.Fprintf(pr.writer, "Used Memory: %d bytes\n", st.UsedMemory)
	fmt.Fprintf(pr.writer, "Active Allocations: %d\n", st.NumAllocations)

	if pr.opts.ShowLayout {
		if err := pr.printLayoutText(p); err != nil {
			return err
		}
	}

	fmt.Fprintf(pr.writer, "\n")
	return nil
}

// printLayoutText prints one line per segment in address order. Used
// segment lengths include the node header, so the printed lengths plus
// the pool header add up to the total size.
func (pr *Printer) printLayoutText(p *pool.Pool) error {
	fmt.Fprintf(pr.writer, "Memory Layout:\n")

	it := p.Segments()
	for {
		seg, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		kind := "USED"
		if seg.Kind == pool.SegmentGap {
			kind = "GAP"
		}

		if pr.opts.ShowOffsets {
			fmt.Fprintf(pr.writer, "0x%08x [%s: %d bytes]\n", seg.Offset, kind, seg.Length)
		} else {
			fmt.Fprintf(pr.writer, "[%s: %d bytes]\n", kind, seg.Length)
		}
	}
}
