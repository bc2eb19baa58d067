package format

// Alignment utilities for the pool block layout. Node offsets and payload
// sizes must land on 8-byte boundaries.

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(16) = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// IsAligned8 reports whether n sits on an 8-byte boundary.
func IsAligned8(n int) bool {
	return n&AlignmentMask == 0
}
