//go:build darwin

package mmfile

import (
	"golang.org/x/sys/unix"
)

// SyncRange flushes dirty pages to disk.
//
// On macOS, msync() requires the address to match the original mmap()
// address. We cannot pass sub-slices because their base pointer differs from
// the mmap address. Solution: flush the entire mapped region. The kernel only
// writes dirty pages anyway.
func (m *Mapping) SyncRange(off, length int64) error {
	if m.data == nil || length <= 0 {
		return nil
	}
	return unix.Msync(m.data, unix.MS_SYNC)
}

// Sync performs a file descriptor sync.
//
// macOS doesn't have fdatasync, use fsync.
func (m *Mapping) Sync() error {
	if m.f == nil {
		return nil
	}
	return unix.Fsync(int(m.f.Fd()))
}
