package pool

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/format"
)

// Alloc reserves size bytes and returns the allocation's reference plus a
// slice over its payload. The payload arrives sentinel-filled.
//
// Sizes are rounded up to the 8-byte alignment unit; zero-size requests
// round up to one unit so every allocation owns a distinct payload range.
// ErrNoSpace means the pool lacks aggregate room for the request;
// ErrFragmented means the room exists but no single gap fits it.
func (p *Pool) Alloc(size int) (Ref, []byte, error) {
	if p.closed {
		return 0, nil, ErrClosed
	}
	if size < 0 {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrInvalidSize, size)
	}
	if size > format.MaxPoolSize-format.NodeSize {
		return 0, nil, fmt.Errorf("%w: %d bytes requested", ErrNoSpace, size)
	}

	aligned := format.Align8(size)
	if aligned == 0 {
		aligned = format.Alignment
	}
	need := uint32(format.NodeSize + aligned)

	free := int64(p.totalSize()) - format.HeaderSize - int64(p.used())
	if int64(need) > free {
		return 0, nil, fmt.Errorf("%w: %d bytes requested, %d free", ErrNoSpace, size, free)
	}

	off, prevOff, nextOff, err := p.findGap(need)
	if err != nil {
		return 0, nil, err
	}

	node := format.Node{
		Offset: off,
		Size:   uint32(aligned),
		Flags:  format.NodeFlagInUse,
		Prev:   prevOff,
		Next:   nextOff,
	}
	if err := format.WriteNodeAt(p.data, node); err != nil {
		return 0, nil, err
	}

	// Splice into the chain between prevOff and nextOff.
	if prevOff == format.InvalidOffset {
		p.setFirst(off)
	} else {
		format.PutU32(p.data, int(prevOff)+format.NodeNextOffset, off)
		p.markDirty(int(prevOff), format.NodeSize)
	}
	if nextOff != format.InvalidOffset {
		format.PutU32(p.data, int(nextOff)+format.NodePrevOffset, off)
		p.markDirty(int(nextOff), format.NodeSize)
	}

	p.setUsed(p.used() + need)
	p.setCount(p.count() + 1)
	p.markDirty(0, format.HeaderSize)
	p.markDirty(int(off), int(need))

	return Ref(node.Payload()), p.data[node.Payload():node.End()], nil
}

// findGap walks the chain in address order and returns the lowest gap that
// fits a node of total size need, plus the offsets of its chain neighbors.
func (p *Pool) findGap(need uint32) (off, prev, next uint32, err error) {
	upper := p.upperLimit()
	first := p.first()

	// Empty chain: the whole data region is one gap.
	if first == format.InvalidOffset {
		if format.HeaderSize+need <= upper {
			return format.HeaderSize, format.InvalidOffset, format.InvalidOffset, nil
		}
		return 0, 0, 0, fmt.Errorf("%w: need %d bytes", ErrFragmented, need)
	}

	// Gap between the header and the first node.
	if format.HeaderSize+need <= first {
		return format.HeaderSize, format.InvalidOffset, first, nil
	}

	// Gaps after each node, bounded by the next node or the upper limit.
	cur := first
	for cur != format.InvalidOffset {
		n, rdErr := format.ReadNodeAt(p.data, cur)
		if rdErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %v", ErrCorrupt, rdErr)
		}
		if n.Next != format.InvalidOffset && n.Next <= cur {
			return 0, 0, 0, fmt.Errorf("%w: chain out of order at 0x%X", ErrCorrupt, cur)
		}
		gapStart := n.End()
		gapEnd := upper
		if n.Next != format.InvalidOffset {
			gapEnd = n.Next
		}
		if gapStart+need <= gapEnd {
			return gapStart, cur, n.Next, nil
		}
		cur = n.Next
	}
	return 0, 0, 0, fmt.Errorf("%w: need %d bytes", ErrFragmented, need)
}
