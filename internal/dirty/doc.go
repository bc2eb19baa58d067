// Package dirty provides page-level dirty tracking for memory-mapped pool
// blocks.
//
// # Overview
//
// This package tracks which byte ranges of a block have been modified,
// enabling flushes that only write changed pages back to disk. Recording a
// range is a plain append; all alignment and merging work is deferred to
// Ranges, which is called once per flush.
//
// # Page-Level Granularity
//
// Ranges returns 4KB (0x1000 byte) page-aligned ranges:
//   - Range starts are rounded down to a page boundary
//   - Range ends are rounded up to a page boundary
//   - A 1-byte change marks the entire 4KB page dirty
//
// This matches OS page size for efficient msync calls.
//
// # Range Coalescing
//
// Overlapping and adjacent pages are merged into single ranges:
//
//	Dirty pages: [0, 1, 2, 5, 6] → Ranges: [0x0-0x3000, 0x5000-0x7000]
//
// This reduces the number of sync operations during a flush.
//
// # Thread Safety
//
// Tracker instances are not thread-safe. Callers must synchronize access
// externally.
package dirty
