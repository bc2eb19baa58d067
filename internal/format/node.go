package format

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/buf"
)

// Node is the in-place metadata record preceding every live payload.
//
// Node header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Aligned payload size. The node header itself is excluded.
//	0x04    4     Flags. Bit 0 set => in use.
//	0x08    4     Offset of the previous node, InvalidOffset at the head.
//	0x0C    4     Offset of the next node, InvalidOffset at the tail.
type Node struct {
	Offset uint32 // Offset of the node header within the block
	Size   uint32 // Aligned payload size
	Flags  uint32
	Prev   uint32
	Next   uint32
}

// InUse reports whether the node is marked live.
func (n Node) InUse() bool { return n.Flags&NodeFlagInUse != 0 }

// Payload returns the offset of the node's payload.
func (n Node) Payload() uint32 { return n.Offset + NodeSize }

// End returns the offset one past the node's payload.
func (n Node) End() uint32 { return n.Offset + NodeSize + n.Size }

// ReadNodeAt decodes the node header at off within the block.
func ReadNodeAt(b []byte, off uint32) (Node, error) {
	if !buf.Has(b, int(off), NodeSize) {
		return Node{}, fmt.Errorf("node at 0x%X: %w", off, ErrTruncated)
	}
	return Node{
		Offset: off,
		Size:   buf.U32LE(b[off+NodeSizeOffset:]),
		Flags:  buf.U32LE(b[off+NodeFlagsOffset:]),
		Prev:   buf.U32LE(b[off+NodePrevOffset:]),
		Next:   buf.U32LE(b[off+NodeNextOffset:]),
	}, nil
}

// WriteNodeAt encodes the node header fields at n.Offset.
func WriteNodeAt(b []byte, n Node) error {
	if !buf.Has(b, int(n.Offset), NodeSize) {
		return fmt.Errorf("node at 0x%X: %w", n.Offset, ErrTruncated)
	}
	PutU32(b, int(n.Offset)+NodeSizeOffset, n.Size)
	PutU32(b, int(n.Offset)+NodeFlagsOffset, n.Flags)
	PutU32(b, int(n.Offset)+NodePrevOffset, n.Prev)
	PutU32(b, int(n.Offset)+NodeNextOffset, n.Next)
	return nil
}
