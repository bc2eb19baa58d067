package dirty

import "sort"

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	// This reduces allocations during typical workloads.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// Range represents a dirty byte range (absolute block offsets).
type Range struct {
	Off int64 // Absolute offset in the block
	Len int64 // Length in bytes
}

// Tracker accumulates dirty ranges for later flushing.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges   []Range // Dirty ranges (coalesced by Ranges)
	pageSize int64   // OS page size (typically 4096)
}

// NewTracker creates an empty dirty tracker.
//
// The tracker pre-allocates capacity for 64 ranges to minimize allocations
// during typical workloads.
func NewTracker() *Tracker {
	return &Tracker{
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range.
//
// The range will be page-aligned and coalesced with other ranges when
// Ranges is called. This method only appends to a slice.
//
// Performance: < 50 ns, zero allocations after initial capacity.
func (t *Tracker) Add(off, length int) {
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Pending reports the number of recorded ranges since the last Reset.
func (t *Tracker) Pending() int {
	return len(t.ranges)
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Ranges returns the dirty ranges as page-aligned, sorted, non-overlapping
// ranges ready to be flushed. Returns nil when nothing was recorded.
func (t *Tracker) Ranges() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	// Page-align all ranges
	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		// Round down start to page boundary
		start := (r.Off / t.pageSize) * t.pageSize

		// Round up end to page boundary
		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}

		aligned[i] = Range{
			Off: start,
			Len: end - start,
		}
	}

	// Sort by offset
	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	// Merge overlapping/adjacent ranges
	merged := make([]Range, 0, len(aligned))
	current := aligned[0]

	for i := 1; i < len(aligned); i++ {
		next := aligned[i]

		if next.Off <= current.Off+current.Len {
			// Merge: extend current to include next
			end := current.Off + current.Len
			nextEnd := next.Off + next.Len
			if nextEnd > end {
				end = nextEnd
			}
			current.Len = end - current.Off
		} else {
			// No overlap: save current and start new range
			merged = append(merged, current)
			current = next
		}
	}

	// Don't forget the last range
	merged = append(merged, current)

	return merged
}
