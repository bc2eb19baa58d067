//go:build linux || darwin

// Package mmfile provides platform-specific helpers for memory-mapping pool
// block files read-write.
package mmfile

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// Mapping is a read-write memory mapping of a block file. Mutations through
// Data land in the page cache directly; SyncRange and Sync control when they
// reach the disk.
type Mapping struct {
	f    *os.File
	data []byte
}

// Create creates the file at path with the given size, zero-filled, and maps
// it read-write. The file must not already exist.
func Create(path string, size int) (*Mapping, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("mmfile: failed to size file: %w", err)
	}
	m, err := mapFile(f, int64(size))
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return m, nil
}

// Map maps the existing file at path read-write so callers can mutate it in
// place.
func Map(path string) (*Mapping, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("mmfile: empty file: %s", path)
	}
	if sz > int64(^uint(0)>>1) {
		_ = f.Close()
		return nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", sz)
	}
	return mapFile(f, sz)
}

func mapFile(f *os.File, size int64) (*Mapping, error) {
	data, err := syscall.Mmap(
		int(f.Fd()),
		0,
		int(size),
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED,
	)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmfile: mmap failed: %w", err)
	}
	return &Mapping{f: f, data: data}, nil
}

// Data returns the mapped bytes.
func (m *Mapping) Data() []byte { return m.data }

// Close unmaps the block and closes the underlying file. Unsynced mutations
// are left to the OS to write back.
func (m *Mapping) Close() error {
	var err error
	if m.data != nil {
		unmapErr := syscall.Munmap(m.data)
		if unmapErr != nil && !errors.Is(unmapErr, syscall.EINVAL) {
			// Treat double-unmap as no-op for callers.
			err = unmapErr
		}
		m.data = nil
	}
	if m.f != nil {
		closeErr := m.f.Close()
		if err == nil {
			err = closeErr
		}
		m.f = nil
	}
	return err
}
