package pool

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/format"
)

// Free releases the allocation named by ref. The node is spliced out of the
// chain and the vacated range is refilled with the sentinel byte, so a
// second Free of the same ref fails the live check.
func (p *Pool) Free(ref Ref) error {
	if p.closed {
		return ErrClosed
	}
	n, err := p.liveNodeAt(ref, ErrInvalidFree)
	if err != nil {
		return err
	}

	// A live node's neighbors must point back at it.
	if n.Prev != format.InvalidOffset {
		prev, rdErr := format.ReadNodeAt(p.data, n.Prev)
		if rdErr != nil || !prev.InUse() || prev.Next != n.Offset {
			return fmt.Errorf("%w: ref 0x%X prev link mismatch", ErrInvalidFree, ref)
		}
	} else if p.first() != n.Offset {
		return fmt.Errorf("%w: ref 0x%X not at chain head", ErrInvalidFree, ref)
	}
	if n.Next != format.InvalidOffset {
		next, rdErr := format.ReadNodeAt(p.data, n.Next)
		if rdErr != nil || !next.InUse() || next.Prev != n.Offset {
			return fmt.Errorf("%w: ref 0x%X next link mismatch", ErrInvalidFree, ref)
		}
	}

	cost := uint32(format.NodeSize) + n.Size
	if p.count() == 0 || p.used() < cost {
		return fmt.Errorf("%w: accounting underflow freeing 0x%X", ErrCorrupt, ref)
	}

	// Splice out of the chain.
	if n.Prev == format.InvalidOffset {
		p.setFirst(n.Next)
	} else {
		format.PutU32(p.data, int(n.Prev)+format.NodeNextOffset, n.Next)
		p.markDirty(int(n.Prev), format.NodeSize)
	}
	if n.Next != format.InvalidOffset {
		format.PutU32(p.data, int(n.Next)+format.NodePrevOffset, n.Prev)
		p.markDirty(int(n.Next), format.NodeSize)
	}

	p.setUsed(p.used() - cost)
	p.setCount(p.count() - 1)

	fillSentinel(p.data[n.Offset:n.End()])
	p.markDirty(0, format.HeaderSize)
	p.markDirty(int(n.Offset), int(cost))

	return nil
}
