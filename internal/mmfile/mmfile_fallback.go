//go:build !linux && !darwin

// Package mmfile provides platform-specific helpers for memory-mapping pool
// block files read-write.
package mmfile

import (
	"fmt"
	"io"
	"os"
)

// Mapping holds the block in a heap buffer on platforms without mmap
// support. SyncRange writes mutated ranges back to the file explicitly.
type Mapping struct {
	f    *os.File
	data []byte
}

// Create creates the file at path with the given size, zero-filled. The file
// must not already exist.
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
	return &Mapping{f: f, data: make([]byte, size)}, nil
}

// Map loads the existing file at path into memory.
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

	buf := make([]byte, sz)
	if _, err := io.ReadFull(f, buf); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Mapping{f: f, data: buf}, nil
}

// Data returns the block bytes.
func (m *Mapping) Data() []byte { return m.data }

// SyncRange writes the buffer range [off, off+length) back to the file.
func (m *Mapping) SyncRange(off, length int64) error {
	if m.data == nil || m.f == nil || length <= 0 {
		return nil
	}
	end := off + length
	if end > int64(len(m.data)) {
		end = int64(len(m.data))
	}
	if off < 0 || off >= end {
		return nil
	}
	_, err := m.f.WriteAt(m.data[off:end], off)
	return err
}

// Sync flushes the underlying file to disk.
func (m *Mapping) Sync() error {
	if m.f == nil {
		return nil
	}
	return m.f.Sync()
}

// Close closes the underlying file. Unsynced mutations are discarded;
// callers flush first.
func (m *Mapping) Close() error {
	var err error
	if m.f != nil {
		err = m.f.Close()
		m.f = nil
	}
	m.data = nil
	return err
}
