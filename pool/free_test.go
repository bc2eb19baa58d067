package pool

import (
	"errors"
	"testing"

	"github.com/joshuapare/poolkit/internal/format"
)

// allocThree is a helper producing three live allocations a, b, c in order.
func allocThree(t testing.TB, p *Pool, size int) (a, b, c Ref) {
	t.Helper()
	var err error
	if a, _, err = p.Alloc(size); err != nil {
		t.Fatalf("Alloc(a) failed: %v", err)
	}
	if b, _, err = p.Alloc(size); err != nil {
		t.Fatalf("Alloc(b) failed: %v", err)
	}
	if c, _, err = p.Alloc(size); err != nil {
		t.Fatalf("Alloc(c) failed: %v", err)
	}
	return a, b, c
}

// Test_Free_SpliceMiddle tests unlinking an interior node.
func Test_Free_SpliceMiddle(t *testing.T) {
	p := newTestPool(t, 1024)
	defer p.Close()

	a, b, c := allocThree(t, p, 32)
	if err := p.Free(b); err != nil {
		t.Fatalf("Free(b) failed: %v", err)
	}

	na, err := format.ReadNodeAt(p.Bytes(), a-format.NodeSize)
	if err != nil {
		t.Fatalf("ReadNodeAt(a) failed: %v", err)
	}
	nc, err := format.ReadNodeAt(p.Bytes(), c-format.NodeSize)
	if err != nil {
		t.Fatalf("ReadNodeAt(c) failed: %v", err)
	}
	if na.Next != nc.Offset {
		t.Fatalf("Expected a.next -> c, got 0x%X", na.Next)
	}
	if nc.Prev != na.Offset {
		t.Fatalf("Expected c.prev -> a, got 0x%X", nc.Prev)
	}
	if st := p.Stats(); st.NumAllocations != 2 || st.UsedMemory != 2*(format.NodeSize+32) {
		t.Fatalf("Unexpected stats: %+v", st)
	}
	if err := p.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
}

// Test_Free_SpliceHead tests unlinking the first node.
func Test_Free_SpliceHead(t *testing.T) {
	p := newTestPool(t, 1024)
	defer p.Close()

	a, b, _ := allocThree(t, p, 32)
	if err := p.Free(a); err != nil {
		t.Fatalf("Free(a) failed: %v", err)
	}

	if got := p.first(); got != b-format.NodeSize {
		t.Fatalf("Expected first -> b's node, got 0x%X", got)
	}
	nb, err := format.ReadNodeAt(p.Bytes(), b-format.NodeSize)
	if err != nil {
		t.Fatalf("ReadNodeAt(b) failed: %v", err)
	}
	if nb.Prev != format.InvalidOffset {
		t.Fatalf("Expected b.prev invalid, got 0x%X", nb.Prev)
	}
	if err := p.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
}

// Test_Free_SpliceTail tests unlinking the last node.
func Test_Free_SpliceTail(t *testing.T) {
	p := newTestPool(t, 1024)
	defer p.Close()

	_, b, c := allocThree(t, p, 32)
	if err := p.Free(c); err != nil {
		t.Fatalf("Free(c) failed: %v", err)
	}

	nb, err := format.ReadNodeAt(p.Bytes(), b-format.NodeSize)
	if err != nil {
		t.Fatalf("ReadNodeAt(b) failed: %v", err)
	}
	if nb.Next != format.InvalidOffset {
		t.Fatalf("Expected b.next invalid, got 0x%X", nb.Next)
	}
	if err := p.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
}

// Test_Free_LastNode tests draining the chain back to empty.
func Test_Free_LastNode(t *testing.T) {
	p := newTestPool(t, 1024)
	defer p.Close()

	ref, _, err := p.Alloc(32)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if err := p.Free(ref); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	if got := p.first(); got != format.InvalidOffset {
		t.Fatalf("Expected empty chain, first=0x%X", got)
	}
	if st := p.Stats(); st.UsedMemory != 0 || st.NumAllocations != 0 {
		t.Fatalf("Unexpected stats: %+v", st)
	}
}

// Test_Free_DoubleFree tests that the sentinel refill catches a second free.
func Test_Free_DoubleFree(t *testing.T) {
	p := newTestPool(t, 1024)
	defer p.Close()

	ref, _, err := p.Alloc(32)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if err := p.Free(ref); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if err := p.Free(ref); !errors.Is(err, ErrInvalidFree) {
		t.Fatalf("Expected ErrInvalidFree on double free, got %v", err)
	}
}

// Test_Free_BogusRefs tests rejection of references that never came from
// Alloc.
func Test_Free_BogusRefs(t *testing.T) {
	p := newTestPool(t, 1024)
	defer p.Close()

	ref, _, err := p.Alloc(32)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	cases := []struct {
		name string
		ref  Ref
	}{
		{"zero", 0},
		{"header field", 8},
		{"unaligned", ref + 3},
		{"gap", ref + 128},
		{"past end", 2048},
		{"invalid offset", format.InvalidOffset},
	}
	for _, tc := range cases {
		if err := p.Free(tc.ref); !errors.Is(err, ErrInvalidFree) {
			t.Fatalf("%s: expected ErrInvalidFree, got %v", tc.name, err)
		}
	}

	// The real allocation is untouched by the failed frees.
	if st := p.Stats(); st.NumAllocations != 1 {
		t.Fatalf("Unexpected stats: %+v", st)
	}
	if err := p.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
}

// Test_Free_InteriorPointer tests that a forged node inside a live payload
// fails the neighbor cross-check instead of corrupting the chain.
func Test_Free_InteriorPointer(t *testing.T) {
	p := newTestPool(t, 1024)
	defer p.Close()

	ref, buf, err := p.Alloc(64)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	// Craft plausible node bytes 32 bytes into the payload: live flag set,
	// aligned size, in-range links.
	forged := ref + 48
	fakeNode := format.Node{
		Offset: forged - format.NodeSize,
		Size:   8,
		Flags:  format.NodeFlagInUse,
		Prev:   format.InvalidOffset,
		Next:   format.InvalidOffset,
	}
	if err := format.WriteNodeAt(p.Bytes(), fakeNode); err != nil {
		t.Fatalf("WriteNodeAt failed: %v", err)
	}

	if err := p.Free(forged); !errors.Is(err, ErrInvalidFree) {
		t.Fatalf("Expected ErrInvalidFree for forged ref, got %v", err)
	}

	// The legitimate allocation still frees cleanly.
	copy(buf, make([]byte, len(buf)))
	if err := p.Free(ref); err != nil {
		t.Fatalf("Free of real ref failed: %v", err)
	}
	if st := p.Stats(); st.NumAllocations != 0 {
		t.Fatalf("Unexpected stats: %+v", st)
	}
}

// Test_Free_SentinelRefill tests that the vacated range is refilled.
func Test_Free_SentinelRefill(t *testing.T) {
	p := newTestPool(t, 1024)
	defer p.Close()

	ref, buf, err := p.Alloc(48)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	for i := range buf {
		buf[i] = 0x5A
	}
	if err := p.Free(ref); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	start := ref - format.NodeSize
	end := ref + 48
	data := p.Bytes()
	for off := start; off < end; off++ {
		if data[off] != format.SentinelByte {
			t.Fatalf("Byte 0x%X not refilled: 0x%X", off, data[off])
		}
	}
}
