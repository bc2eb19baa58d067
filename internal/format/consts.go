// Package format houses the low-level layout of the pool block. The goal is
// to keep the byte-level encoding focused, allocation-free where possible,
// and independent from the public API so higher-level packages can
// orchestrate the data in a more ergonomic form.
package format

var (
	// PoolSignature is the four-byte signature at the start of every pool block.
	// Layout (little-endian):
	//   0x00  'p' 'o' 'o' 'l'
	PoolSignature = []byte{'p', 'o', 'o', 'l'}
)

const (
	// Version is the pool block format version this package reads and writes.
	Version = 1

	// HeaderSize is the size of the pool header in bytes. The data region
	// begins immediately after it, so the first possible node offset is
	// HeaderSize and is already 8-byte aligned.
	HeaderSize = 0x30

	// NodeSize is the size of the allocation node header preceding every
	// live payload.
	NodeSize = 0x10

	// Alignment is the required alignment of node offsets and payload sizes.
	Alignment = 8

	// AlignmentMask is the bitmask used for aligning to 8-byte boundaries (Alignment - 1).
	AlignmentMask = Alignment - 1

	// InvalidOffset is a placeholder value used for unused/invalid offset fields.
	InvalidOffset = 0xFFFFFFFF

	// SentinelByte fills the data region at creation and vacated ranges on
	// free. The value keeps the in-use bit clear (0xCCCCCCCC & 1 == 0), so a
	// stale reference into unallocated space fails the in-use check.
	SentinelByte = 0xCC

	// MinPoolSize is the smallest block a pool can be created over: the
	// header plus one alignment unit of data space.
	MinPoolSize = HeaderSize + Alignment

	// MaxPoolSize is the largest supported block. Offsets are stored as
	// uint32 and must stay int32-safe.
	MaxPoolSize = 0x7FFFFFFF
)

// Header field offsets.
const (
	HeaderSignatureOffset  = 0x00 // 4 bytes, "pool"
	HeaderSignatureSize    = 4
	HeaderVersionOffset    = 0x04 // uint32
	HeaderFirstOffset      = 0x08 // uint32, lowest-address live node, InvalidOffset when empty
	HeaderUpperLimitOffset = 0x0C // uint32, one past the end of the data region
	HeaderTotalSizeOffset  = 0x10 // uint32, full block size, header included
	HeaderUsedOffset       = 0x14 // uint32, node headers plus aligned payloads of live nodes
	HeaderCountOffset      = 0x18 // uint32, live allocation count
	HeaderLabelOffset      = 0x1C // 16 bytes, UTF-16LE, zero padded
	HeaderLabelSize        = 16
	HeaderReservedOffset   = 0x2C // 4 bytes, zero
)

// Node field offsets within the node header.
const (
	NodeSizeOffset  = 0x00 // uint32, aligned payload size (node header excluded)
	NodeFlagsOffset = 0x04 // uint32
	NodePrevOffset  = 0x08 // uint32, node offset or InvalidOffset
	NodeNextOffset  = 0x0C // uint32, node offset or InvalidOffset
)

// Node flags.
const (
	// NodeFlagInUse marks a node as live. The remaining bits are reserved
	// and kept zero by writers.
	NodeFlagInUse = 0x1
)

// UTF-16 surrogate range used when truncating labels to the fixed field width.
const (
	UTF16HighSurrogateStart = 0xD800
	UTF16HighSurrogateEnd   = 0xDBFF
)
