package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/poolkit/internal/buf"
)

// Header captures the pool header fields required to traverse a block.
// The diagram below shows the full layout.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    4    'p' 'o' 'o' 'l'
//	 0x04    4    Format version
//	 0x08    4    Offset of the lowest-address live node (InvalidOffset when empty)
//	 0x0C    4    Upper limit: one past the end of the data region
//	 0x10    4    Total block size, header included
//	 0x14    4    Used bytes: node headers plus aligned payloads of live nodes
//	 0x18    4    Live allocation count
//	 0x1C   16    Label, UTF-16LE, zero padded
//	 0x2C    4    Reserved
//
// All fields are stored in little-endian form.
type Header struct {
	Version    uint32
	First      uint32
	UpperLimit uint32
	TotalSize  uint32
	Used       uint32
	Count      uint32
	LabelRaw   [HeaderLabelSize]byte
}

// ParseHeader validates and extracts the header fields from b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("pool header: %w", ErrTruncated)
	}
	if !bytes.Equal(b[:HeaderSignatureSize], PoolSignature) {
		return Header{}, fmt.Errorf("pool header: %w", ErrSignatureMismatch)
	}
	h := Header{
		Version:    buf.U32LE(b[HeaderVersionOffset:]),
		First:      buf.U32LE(b[HeaderFirstOffset:]),
		UpperLimit: buf.U32LE(b[HeaderUpperLimitOffset:]),
		TotalSize:  buf.U32LE(b[HeaderTotalSizeOffset:]),
		Used:       buf.U32LE(b[HeaderUsedOffset:]),
		Count:      buf.U32LE(b[HeaderCountOffset:]),
	}
	copy(h.LabelRaw[:], b[HeaderLabelOffset:HeaderLabelOffset+HeaderLabelSize])
	if h.Version != Version {
		return Header{}, fmt.Errorf("pool header: version %d: %w", h.Version, ErrVersion)
	}
	return h, nil
}

// ValidateSanity cross-checks the header size fields against the actual
// block length. Callers mapping an existing block must run this before
// trusting any offset in the header.
func (h Header) ValidateSanity(blockLen int) error {
	if int64(h.TotalSize) != int64(blockLen) {
		return fmt.Errorf("pool header: total size %d, block %d: %w", h.TotalSize, blockLen, ErrSizeMismatch)
	}
	if h.UpperLimit != h.TotalSize {
		return fmt.Errorf("pool header: upper limit 0x%X, total size %d: %w", h.UpperLimit, h.TotalSize, ErrSizeMismatch)
	}
	if h.TotalSize < MinPoolSize {
		return fmt.Errorf("pool header: total size %d below minimum %d: %w", h.TotalSize, MinPoolSize, ErrSizeMismatch)
	}
	return nil
}

// WriteHeader initializes the header of a fresh block. The node chain starts
// empty; upper limit and total size both echo len(b).
func WriteHeader(b []byte, label [HeaderLabelSize]byte) error {
	if len(b) < MinPoolSize {
		return fmt.Errorf("pool header: block of %d bytes: %w", len(b), ErrTruncated)
	}
	if len(b) > MaxPoolSize {
		return fmt.Errorf("pool header: block of %d bytes: %w", len(b), ErrSizeMismatch)
	}
	copy(b[HeaderSignatureOffset:], PoolSignature)
	PutU32(b, HeaderVersionOffset, Version)
	PutU32(b, HeaderFirstOffset, InvalidOffset)
	PutU32(b, HeaderUpperLimitOffset, uint32(len(b)))
	PutU32(b, HeaderTotalSizeOffset, uint32(len(b)))
	PutU32(b, HeaderUsedOffset, 0)
	PutU32(b, HeaderCountOffset, 0)
	copy(b[HeaderLabelOffset:HeaderLabelOffset+HeaderLabelSize], label[:])
	PutU32(b, HeaderReservedOffset, 0)
	return nil
}
