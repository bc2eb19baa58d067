// Package printer renders pool statistics and memory layout for humans
// and machines. It consumes only the public pool surface (Stats, Label,
// Segments) and never touches the backing block directly.
package printer

import (
	"io"

	"github.com/joshuapare/poolkit/pool"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowLayout includes the per-segment memory layout.
	// Default: true
	ShowLayout bool

	// ShowOffsets prefixes each segment with its byte offset (text format only).
	// Default: false
	ShowOffsets bool

	// ShowLabel includes the pool label when one is set.
	// Default: false
	ShowLabel bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		ShowLayout:  true,
		ShowOffsets: false,
		ShowLabel:   false,
	}
}

// Printer handles formatted output of pool state.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer.
//
// The Writer receives the output and Options controls formatting behavior.
//
// Example:
//
//	p, _ := pool.New(1024, nil)
//	pr := printer.New(os.Stdout, printer.DefaultOptions())
//	pr.Print(p)
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		writer: w,
		opts:   opts,
	}
}

// Print writes the pool's stats, and its layout when ShowLayout is set,
// in the configured format.
func (pr *Printer) Print(p *pool.Pool) error {
	switch pr.opts.Format {
	case FormatJSON:
		return pr.printJSON(p)
	case FormatText:
		return pr.printText(p)
	default:
		return pr.printText(p)
	}
}
