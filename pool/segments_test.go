package pool

import (
	"io"
	"testing"

	"github.com/joshuapare/poolkit/internal/format"
)

// collectSegments drains an iterator and fails the test on any non-EOF error.
func collectSegments(t testing.TB, p *Pool) []Segment {
	t.Helper()
	var segs []Segment
	it := p.Segments()
	for {
		seg, err := it.Next()
		if err == io.EOF {
			return segs
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		segs = append(segs, seg)
	}
}

// Test_Segments_EmptyPool tests that a fresh pool is one gap.
func Test_Segments_EmptyPool(t *testing.T) {
	p := newTestPool(t, 1024)
	defer p.Close()

	segs := collectSegments(t, p)
	if len(segs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segs))
	}
	want := Segment{Kind: SegmentGap, Offset: format.HeaderSize, Length: 1024 - format.HeaderSize}
	if segs[0] != want {
		t.Fatalf("Unexpected segment: %+v", segs[0])
	}

	// EOF is terminal and repeatable.
	it := p.Segments()
	for i := 0; i < 3; i++ {
		if _, err := it.Next(); i > 0 && err != io.EOF {
			t.Fatalf("Expected io.EOF after drain, got %v", err)
		}
	}
}

// Test_Segments_Interleaved tests the exact address-ordered walk of the
// 150-byte lifecycle scenario.
func Test_Segments_Interleaved(t *testing.T) {
	p := newTestPool(t, 150)
	defer p.Close()

	a, _, err := p.Alloc(12)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	b, _, err := p.Alloc(20)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if err := p.Free(a); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	c, _, err := p.Alloc(4)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	d, _, err := p.Alloc(0)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	segs := collectSegments(t, p)
	want := []Segment{
		{Kind: SegmentUsed, Offset: 48, Length: 24, Ref: c},
		{Kind: SegmentGap, Offset: 72, Length: 8},
		{Kind: SegmentUsed, Offset: 80, Length: 40, Ref: b},
		{Kind: SegmentUsed, Offset: 120, Length: 24, Ref: d},
		{Kind: SegmentGap, Offset: 144, Length: 6},
	}
	if len(segs) != len(want) {
		t.Fatalf("Expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Fatalf("Segment %d: expected %+v, got %+v", i, want[i], segs[i])
		}
	}
}

// Test_Segments_FullPool tests a walk with no gaps at all.
func Test_Segments_FullPool(t *testing.T) {
	p := newTestPool(t, 48+3*24)
	defer p.Close()

	for i := 0; i < 3; i++ {
		if _, _, err := p.Alloc(8); err != nil {
			t.Fatalf("Alloc %d failed: %v", i, err)
		}
	}

	segs := collectSegments(t, p)
	if len(segs) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segs))
	}
	for i, seg := range segs {
		if seg.Kind != SegmentUsed {
			t.Fatalf("Segment %d: expected used, got %s", i, seg.Kind)
		}
	}
}

// Test_Snapshot_MatchesStats tests that the snapshot and the counters agree.
func Test_Snapshot_MatchesStats(t *testing.T) {
	p := newTestPool(t, 4096)
	defer p.Close()

	refs := make([]Ref, 0, 10)
	for i := 0; i < 10; i++ {
		ref, _, err := p.Alloc(16 + i*8)
		if err != nil {
			t.Fatalf("Alloc %d failed: %v", i, err)
		}
		refs = append(refs, ref)
	}
	for i := 0; i < len(refs); i += 2 {
		if err := p.Free(refs[i]); err != nil {
			t.Fatalf("Free %d failed: %v", i, err)
		}
	}

	segs, err := p.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	var usedBytes, usedCount, total uint32
	cursor := uint32(format.HeaderSize)
	for _, seg := range segs {
		if seg.Offset != cursor {
			t.Fatalf("Segment at 0x%X leaves a hole after 0x%X", seg.Offset, cursor)
		}
		cursor += seg.Length
		total += seg.Length
		if seg.Kind == SegmentUsed {
			usedBytes += seg.Length
			usedCount++
			if seg.Ref != seg.Offset+format.NodeSize {
				t.Fatalf("Used segment ref 0x%X does not match offset 0x%X", seg.Ref, seg.Offset)
			}
		} else if seg.Ref != 0 {
			t.Fatalf("Gap segment carries ref 0x%X", seg.Ref)
		}
	}

	st := p.Stats()
	if int(usedBytes) != st.UsedMemory {
		t.Fatalf("Snapshot used %d, stats say %d", usedBytes, st.UsedMemory)
	}
	if int(usedCount) != st.NumAllocations {
		t.Fatalf("Snapshot count %d, stats say %d", usedCount, st.NumAllocations)
	}
	if int(total) != st.TotalSize-format.HeaderSize {
		t.Fatalf("Segments cover %d bytes, data region is %d", total, st.TotalSize-format.HeaderSize)
	}
}

// Test_Segments_TrailingGap tests the gap after the last node.
func Test_Segments_TrailingGap(t *testing.T) {
	p := newTestPool(t, 1024)
	defer p.Close()

	if _, _, err := p.Alloc(32); err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	segs := collectSegments(t, p)
	if len(segs) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segs))
	}
	last := segs[len(segs)-1]
	if last.Kind != SegmentGap {
		t.Fatalf("Expected trailing gap, got %+v", last)
	}
	if last.Offset+last.Length != 1024 {
		t.Fatalf("Trailing gap does not reach the upper limit: %+v", last)
	}
}
