//go:build linux || darwin

package mmfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateMapRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "test.pool")

	m, err := Create(path, 8192)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(m.Data()) != 8192 {
		t.Fatalf("len mismatch: got %d want 8192", len(m.Data()))
	}

	// Mutate through the mapping and push it to disk.
	want := []byte{0xde, 0xad, 0xbe, 0xef, 0x42}
	copy(m.Data()[4096:], want)
	if err := m.SyncRange(4096, 4096); err != nil {
		t.Fatalf("SyncRange: %v", err)
	}
	if err := m.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Remap and verify the bytes survived.
	m2, err := Map(path)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer func() {
		if closeErr := m2.Close(); closeErr != nil {
			t.Fatalf("Close: %v", closeErr)
		}
	}()
	for i, b := range want {
		if m2.Data()[4096+i] != b {
			t.Fatalf("byte %d mismatch: got 0x%x want 0x%x", i, m2.Data()[4096+i], b)
		}
	}
}

func TestCreateRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.pool")
	m, err := Create(path, 4096)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := Create(path, 4096); err == nil {
		t.Fatalf("expected error creating over an existing file")
	}
}

func TestMapEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pool")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Map(path); err == nil {
		t.Fatalf("expected error mapping an empty file")
	}
}

func TestCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.pool")
	m, err := Create(path, 4096)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
