// Package pool implements a fixed-capacity allocator over a single
// contiguous block of memory.
//
// # Overview
//
// A pool carves allocations out of one pre-sized block. Every allocation is
// preceded by a 16-byte node header linking it into an address-ordered
// doubly-linked chain, so the block itself carries all bookkeeping: there is
// no side table, and a block can be written to disk and remapped later.
//
// Allocation walks the chain first-fit:
//
//   - Alloc(n): find the lowest-address gap that fits a node plus the
//     aligned payload, stamp a node there, splice it into the chain
//   - Free(ref): validate the reference, splice the node out, refill the
//     vacated range with the sentinel byte
//
// Free space is implicit. A gap is whatever lies between the end of one
// node and the start of the next, so freeing is O(1) and allocation is O(n)
// in the number of live nodes.
//
// # Usage Example
//
//	p, err := pool.New(64*1024, pool.Options{Label: "scratch"})
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	ref, buf, err := p.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, release the allocation.
//	err = p.Free(ref)
//
// # References
//
// A Ref is the absolute offset of an allocation's payload within the block.
// Refs stay valid across Flush, Close and a later Open of the same file:
// they are positions, not pointers.
//
// # File-Backed Pools
//
// Create and Open back the block with a memory-mapped file. Mutations land
// in the page cache; Flush writes the dirty pages back and syncs. See the
// internal/mmfile and internal/dirty packages.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/joshuapare/poolkit/pool/printer: text/JSON views of a pool
//   - github.com/joshuapare/poolkit/internal/format: binary block layout
package pool
