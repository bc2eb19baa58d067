package pool

import (
	"context"
	"fmt"

	"github.com/joshuapare/poolkit/internal/dirty"
	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/internal/mmfile"
)

// Create builds a file-backed pool at path: the file is created at the full
// block size, stamped fresh and mapped read-write. The file must not
// already exist. The block only reaches the disk on Flush or Close.
func Create(path string, size int, opts Options) (*Pool, error) {
	if err := checkBlockSize(size); err != nil {
		return nil, err
	}
	m, err := mmfile.Create(path, size)
	if err != nil {
		return nil, err
	}
	data := m.Data()
	if err := stampBlock(data, opts.Label); err != nil {
		_ = m.Close()
		return nil, err
	}

	p := &Pool{data: data, mm: m, dt: dirty.NewTracker(), log: opts.logger()}
	p.label, _ = format.DecodeLabel(data[format.HeaderLabelOffset : format.HeaderLabelOffset+format.HeaderLabelSize])
	// The whole block is new; the first Flush persists it.
	p.dt.Add(0, size)
	p.log.Debug("pool created", "path", path, "size", size, "label", p.label)
	return p, nil
}

// Open maps an existing pool file read-write. The whole block is validated
// before use; a block that fails Validate never comes back as a pool.
// The label stored in the block wins over opts.Label.
func Open(path string, opts Options) (*Pool, error) {
	m, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}
	data := m.Data()
	if err := Validate(data); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("pool: open %s: %w", path, err)
	}

	p := &Pool{data: data, mm: m, dt: dirty.NewTracker(), log: opts.logger()}
	p.label, _ = format.DecodeLabel(data[format.HeaderLabelOffset : format.HeaderLabelOffset+format.HeaderLabelSize])
	p.log.Debug("pool opened", "path", path, "size", len(data), "label", p.label)
	return p, nil
}

// Flush writes the dirty pages of a file-backed pool to disk and syncs the
// file descriptor. Heap-backed pools no-op. A cancelled context stops the
// flush between ranges; pages already synced stay synced.
func (p *Pool) Flush(ctx context.Context) error {
	if p.closed {
		return ErrClosed
	}
	if p.mm == nil || p.dt == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ranges := p.dt.Ranges()
	if len(ranges) == 0 {
		return nil
	}
	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.mm.SyncRange(r.Off, r.Len); err != nil {
			return fmt.Errorf("pool: flush: %w", err)
		}
	}
	p.dt.Reset()

	if err := p.mm.Sync(); err != nil {
		return fmt.Errorf("pool: flush: %w", err)
	}
	p.log.Debug("pool flushed", "ranges", len(ranges))
	return nil
}
