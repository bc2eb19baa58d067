package pool

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/format"
)

// ValidationError describes a block invariant violation found by Validate.
type ValidationError struct {
	Type    string // Check category: "Header", "NodeChain" or "Accounting"
	Message string
	Offset  int // Block offset of the violation, -1 when not positional
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Verify checks every invariant of the pool's block. Returns the first
// violation found, or nil if the block is consistent.
func (p *Pool) Verify() error {
	if p.closed {
		return ErrClosed
	}
	return Validate(p.data)
}

// Validate checks a raw block without opening it as a pool: header sanity,
// node chain order and linkage, and the accounting counters. Open runs it
// before trusting a mapped file.
func Validate(data []byte) error {
	hdr, err := format.ParseHeader(data)
	if err != nil {
		return &ValidationError{Type: "Header", Message: err.Error(), Offset: -1}
	}
	if err := hdr.ValidateSanity(len(data)); err != nil {
		return &ValidationError{Type: "Header", Message: err.Error(), Offset: -1}
	}
	return validateChain(data, hdr)
}

// validateChain walks the node chain front to back, checking order, linkage
// and bounds, then cross-checks the header accounting against the walk.
func validateChain(data []byte, hdr format.Header) error {
	if hdr.First == format.InvalidOffset && hdr.Count != 0 {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("empty chain but allocation count is %d", hdr.Count),
			Offset:  -1,
		}
	}

	var (
		walked  uint32
		usedSum uint64
	)
	prevOff := uint32(format.InvalidOffset)
	lowBound := uint32(format.HeaderSize)

	cur := hdr.First
	for cur != format.InvalidOffset {
		if !format.IsAligned8(int(cur)) {
			return &ValidationError{
				Type:    "NodeChain",
				Message: fmt.Sprintf("node offset 0x%X not 8-byte aligned", cur),
				Offset:  int(cur),
			}
		}
		// Strictly increasing offsets: rules out overlap and cycles.
		if cur < lowBound {
			return &ValidationError{
				Type:    "NodeChain",
				Message: fmt.Sprintf("node offset 0x%X overlaps the previous region ending at 0x%X", cur, lowBound),
				Offset:  int(cur),
			}
		}
		n, err := format.ReadNodeAt(data, cur)
		if err != nil {
			return &ValidationError{
				Type:    "NodeChain",
				Message: err.Error(),
				Offset:  int(cur),
			}
		}
		if !n.InUse() {
			return &ValidationError{
				Type:    "NodeChain",
				Message: "chained node not marked live",
				Offset:  int(cur),
			}
		}
		if n.Size < format.Alignment || !format.IsAligned8(int(n.Size)) {
			return &ValidationError{
				Type:    "NodeChain",
				Message: fmt.Sprintf("implausible payload size %d", n.Size),
				Offset:  int(cur),
			}
		}
		if int64(n.Offset)+format.NodeSize+int64(n.Size) > int64(hdr.UpperLimit) {
			return &ValidationError{
				Type:    "NodeChain",
				Message: fmt.Sprintf("node end 0x%X past upper limit 0x%X", int64(n.Offset)+format.NodeSize+int64(n.Size), hdr.UpperLimit),
				Offset:  int(cur),
			}
		}
		if n.Prev != prevOff {
			return &ValidationError{
				Type:    "NodeChain",
				Message: fmt.Sprintf("prev link 0x%X, expected 0x%X", n.Prev, prevOff),
				Offset:  int(cur),
			}
		}

		walked++
		usedSum += format.NodeSize + uint64(n.Size)
		lowBound = n.End()
		prevOff = cur
		cur = n.Next
	}

	if walked != hdr.Count {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("allocation count %d, chain has %d nodes", hdr.Count, walked),
			Offset:  -1,
		}
	}
	if usedSum != uint64(hdr.Used) {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("used memory %d, chain sums to %d", hdr.Used, usedSum),
			Offset:  -1,
		}
	}
	return nil
}
