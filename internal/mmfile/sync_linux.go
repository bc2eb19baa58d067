//go:build linux

package mmfile

import (
	"golang.org/x/sys/unix"
)

// SyncRange flushes the mapped pages covering [off, off+length) to disk.
//
// On Linux, msync() handles sub-slices correctly as long as the start is
// page-aligned. Callers pass page-aligned ranges.
func (m *Mapping) SyncRange(off, length int64) error {
	if m.data == nil || length <= 0 {
		return nil
	}
	end := off + length
	if end > int64(len(m.data)) {
		end = int64(len(m.data))
	}
	if off < 0 || off >= end {
		return nil
	}
	return unix.Msync(m.data[off:end], unix.MS_SYNC)
}

// Sync performs a file descriptor sync.
//
// On Linux, fdatasync() provides sufficient guarantees.
func (m *Mapping) Sync() error {
	if m.f == nil {
		return nil
	}
	return unix.Fdatasync(int(m.f.Fd()))
}
