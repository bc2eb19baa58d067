package pool

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshuapare/poolkit/internal/dirty"
	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/internal/mmfile"
)

// Ref identifies a live allocation: the absolute offset of its payload
// within the block.
type Ref = uint32

// Pool is an open allocator block, backed by a heap buffer (New) or a
// memory-mapped file (Create/Open).
type Pool struct {
	data   []byte
	mm     *mmfile.Mapping // nil for heap-backed pools
	dt     *dirty.Tracker  // nil for heap-backed pools
	log    *slog.Logger
	label  string
	closed bool
}

// Stats summarizes pool occupancy.
type Stats struct {
	TotalSize      int // Full block size in bytes, header included
	UsedMemory     int // Bytes held by live nodes: headers plus aligned payloads
	NumAllocations int // Count of live allocations
}

// New creates a heap-backed pool over a fresh block of size bytes.
func New(size int, opts Options) (*Pool, error) {
	if err := checkBlockSize(size); err != nil {
		return nil, err
	}
	data := make([]byte, size)
	if err := stampBlock(data, opts.Label); err != nil {
		return nil, err
	}
	p := &Pool{data: data, log: opts.logger()}
	p.label, _ = format.DecodeLabel(data[format.HeaderLabelOffset : format.HeaderLabelOffset+format.HeaderLabelSize])
	p.log.Debug("pool created", "size", size, "label", p.label)
	return p, nil
}

func checkBlockSize(size int) error {
	if size < format.MinPoolSize {
		return fmt.Errorf("%w: %d bytes, minimum %d", ErrPoolTooSmall, size, format.MinPoolSize)
	}
	if size > format.MaxPoolSize {
		return fmt.Errorf("%w: %d bytes, maximum %d", ErrPoolTooLarge, size, format.MaxPoolSize)
	}
	return nil
}

// stampBlock initializes a fresh block in place: header written, data
// region sentinel-filled.
func stampBlock(data []byte, label string) error {
	raw, err := format.EncodeLabel(label)
	if err != nil {
		return fmt.Errorf("pool: %w", err)
	}
	if err := format.WriteHeader(data, raw); err != nil {
		return fmt.Errorf("pool: %w", err)
	}
	fillSentinel(data[format.HeaderSize:])
	return nil
}

// fillSentinel stamps b with the sentinel byte. The pattern keeps the
// node in-use bit clear, so references into unallocated space fail the
// live check.
func fillSentinel(b []byte) {
	for i := range b {
		b[i] = format.SentinelByte
	}
}

// Stats returns the pool's occupancy counters. After Close it returns the
// zero Stats.
func (p *Pool) Stats() Stats {
	if p.closed {
		return Stats{}
	}
	return Stats{
		TotalSize:      int(p.totalSize()),
		UsedMemory:     int(p.used()),
		NumAllocations: int(p.count()),
	}
}

// Label returns the label stored in the block header.
func (p *Pool) Label() string { return p.label }

// Bytes returns the raw block. Mutating it directly bypasses accounting.
func (p *Pool) Bytes() []byte { return p.data }

// Payload resolves ref to the payload bytes of its live allocation.
func (p *Pool) Payload(ref Ref) ([]byte, error) {
	if p.closed {
		return nil, ErrClosed
	}
	n, err := p.liveNodeAt(ref, ErrBadRef)
	if err != nil {
		return nil, err
	}
	return p.data[n.Payload():n.End()], nil
}

// MarkDirty records the payload range of a live allocation as modified, so
// the next Flush writes it back. Callers that mutate a payload through a
// retained slice after a Flush use this to keep the file consistent.
// Heap-backed pools no-op.
func (p *Pool) MarkDirty(ref Ref) error {
	if p.closed {
		return ErrClosed
	}
	n, err := p.liveNodeAt(ref, ErrBadRef)
	if err != nil {
		return err
	}
	p.markDirty(int(n.Payload()), int(n.Size))
	return nil
}

// Close releases the pool. File-backed pools flush pending ranges and unmap;
// heap pools just drop the block. Closing twice is a no-op.
func (p *Pool) Close() error {
	if p.closed {
		return nil
	}
	if n := int(p.count()); n > 0 {
		p.log.Warn("closing pool with active allocations", "allocations", n, "label", p.label)
	}
	var err error
	if p.mm != nil {
		err = p.Flush(context.Background())
		closeErr := p.mm.Close()
		if err == nil {
			err = closeErr
		}
		p.mm = nil
		p.dt = nil
	}
	p.closed = true
	p.data = nil
	return err
}

// liveNodeAt resolves ref to its node and validates that the node is a live,
// in-bounds allocation. Failures wrap refErr.
func (p *Pool) liveNodeAt(ref Ref, refErr error) (format.Node, error) {
	if ref < format.HeaderSize+format.NodeSize || !format.IsAligned8(int(ref)) {
		return format.Node{}, fmt.Errorf("%w: ref 0x%X outside data region", refErr, ref)
	}
	n, err := format.ReadNodeAt(p.data, ref-format.NodeSize)
	if err != nil {
		return format.Node{}, fmt.Errorf("%w: ref 0x%X outside data region", refErr, ref)
	}
	if !n.InUse() {
		return format.Node{}, fmt.Errorf("%w: ref 0x%X not live", refErr, ref)
	}
	end := int64(n.Offset) + format.NodeSize + int64(n.Size)
	if n.Size < format.Alignment || !format.IsAligned8(int(n.Size)) || end > int64(p.upperLimit()) {
		return format.Node{}, fmt.Errorf("%w: ref 0x%X has implausible size %d", refErr, ref, n.Size)
	}
	return n, nil
}

// markDirty records a mutated byte range for file-backed pools.
func (p *Pool) markDirty(off, length int) {
	if p.dt != nil {
		p.dt.Add(off, length)
	}
}

// ---- Header field accessors (zero-copy, read the block directly) ----

func (p *Pool) first() uint32      { return format.ReadU32(p.data, format.HeaderFirstOffset) }
func (p *Pool) upperLimit() uint32 { return format.ReadU32(p.data, format.HeaderUpperLimitOffset) }
func (p *Pool) totalSize() uint32  { return format.ReadU32(p.data, format.HeaderTotalSizeOffset) }
func (p *Pool) used() uint32       { return format.ReadU32(p.data, format.HeaderUsedOffset) }
func (p *Pool) count() uint32      { return format.ReadU32(p.data, format.HeaderCountOffset) }

func (p *Pool) setFirst(v uint32) { format.PutU32(p.data, format.HeaderFirstOffset, v) }
func (p *Pool) setUsed(v uint32)  { format.PutU32(p.data, format.HeaderUsedOffset, v) }
func (p *Pool) setCount(v uint32) { format.PutU32(p.data, format.HeaderCountOffset, v) }
