package pool

import (
	"fmt"
	"io"

	"github.com/joshuapare/poolkit/internal/format"
)

// SegmentKind distinguishes the two region types in the data area.
type SegmentKind string

const (
	// SegmentGap is free space between allocations.
	SegmentGap SegmentKind = "gap"
	// SegmentUsed is a live allocation, node header included.
	SegmentUsed SegmentKind = "used"
)

// Segment describes one contiguous region of the data area in address order.
type Segment struct {
	Kind   SegmentKind
	Offset uint32 // Absolute offset where the region begins
	Length uint32 // Region length in bytes; used segments include the node header
	Ref    Ref    // Payload reference for used segments, zero for gaps
}

// SegmentIterator walks the data area front to back, yielding gaps and live
// allocations as it meets them.
type SegmentIterator struct {
	p      *Pool
	cursor uint32 // next unaccounted address
	node   uint32 // offset of the next live node, InvalidOffset when drained
	done   bool
}

// Segments returns a fresh iterator over the pool's data area.
func (p *Pool) Segments() *SegmentIterator {
	it := &SegmentIterator{p: p, cursor: format.HeaderSize, node: format.InvalidOffset}
	if !p.closed {
		it.node = p.first()
	}
	return it
}

// Next returns the next segment in address order. Returns io.EOF once the
// data area is exhausted.
func (it *SegmentIterator) Next() (Segment, error) {
	if it.done {
		return Segment{}, io.EOF
	}
	if it.p.closed {
		it.done = true
		return Segment{}, ErrClosed
	}

	upper := it.p.upperLimit()
	if it.cursor >= upper {
		it.done = true
		return Segment{}, io.EOF
	}

	// Chain drained: whatever remains is one trailing gap.
	if it.node == format.InvalidOffset {
		seg := Segment{Kind: SegmentGap, Offset: it.cursor, Length: upper - it.cursor}
		it.cursor = upper
		return seg, nil
	}

	n, err := format.ReadNodeAt(it.p.data, it.node)
	if err != nil {
		it.done = true
		return Segment{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if n.Offset < it.cursor || int64(n.Offset)+format.NodeSize+int64(n.Size) > int64(upper) {
		it.done = true
		return Segment{}, fmt.Errorf("%w: node at 0x%X outside expected range", ErrCorrupt, n.Offset)
	}

	// Gap before the next node.
	if it.cursor < n.Offset {
		seg := Segment{Kind: SegmentGap, Offset: it.cursor, Length: n.Offset - it.cursor}
		it.cursor = n.Offset
		return seg, nil
	}

	seg := Segment{
		Kind:   SegmentUsed,
		Offset: n.Offset,
		Length: format.NodeSize + n.Size,
		Ref:    n.Payload(),
	}
	it.cursor = n.End()
	it.node = n.Next
	return seg, nil
}

// Snapshot walks the data area and returns all segments in address order.
func (p *Pool) Snapshot() ([]Segment, error) {
	if p.closed {
		return nil, ErrClosed
	}
	var segs []Segment
	it := p.Segments()
	for {
		seg, err := it.Next()
		if err == io.EOF {
			return segs, nil
		}
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
}
