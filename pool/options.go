package pool

import (
	"io"
	"log/slog"
)

// Options configures pool construction. The zero value is usable: no label,
// discarded logs.
type Options struct {
	// Label is stored in the block header and travels with file-backed
	// pools. Longer labels are truncated to the 16-byte header field.
	Label string

	// Logger receives lifecycle events and warnings. Nil discards them.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
