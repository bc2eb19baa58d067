package main

import (
	"path/filepath"
	"testing"

	"github.com/joshuapare/poolkit/pool"
)

// seedPoolFile creates a pool file holding two allocations around a gap.
func seedPoolFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seeded.pool")

	p, err := pool.Create(path, 4096, pool.Options{Label: "seeded"})
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}

	a, _, err := p.Alloc(32)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	b, _, err := p.Alloc(32)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if _, _, err := p.Alloc(32); err != nil {
		t.Fatalf("alloc: %v", err)
	}
	_ = a

	if err := p.Free(b); err != nil {
		t.Fatalf("free: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	return path
}

func TestLayoutCommand(t *testing.T) {
	path := seedPoolFile(t)

	tests := []struct {
		name           string
		offsets        bool
		wantJSON       bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "text layout",
			wantContain: []string{
				"Memory Pool Visualization:",
				"Label: seeded",
				"Total Size: 4096 bytes",
				"Used Memory: 96 bytes",
				"Active Allocations: 2",
				"[USED: 48 bytes]",
				"[GAP: 48 bytes]",
			},
			wantNotContain: []string{"0x"},
		},
		{
			name:    "text layout with offsets",
			offsets: true,
			wantContain: []string{
				"0x00000030 [USED: 48 bytes]",
				"0x00000060 [GAP: 48 bytes]",
				"0x00000090 [USED: 48 bytes]",
			},
		},
		{
			name:     "json layout",
			wantJSON: true,
			wantContain: []string{
				`"label": "seeded"`,
				`"used_memory": 96`,
				`"kind": "gap"`,
				`"kind": "used"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = false
			jsonOut = tt.wantJSON
			layoutOffsets = tt.offsets

			output, err := captureOutput(t, func() error {
				return runLayout([]string{path})
			})
			if err != nil {
				t.Fatalf("runLayout() error = %v", err)
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestLayoutCommandMissingFile(t *testing.T) {
	quiet = true
	jsonOut = false
	layoutOffsets = false

	_, err := captureOutput(t, func() error {
		return runLayout([]string{filepath.Join(t.TempDir(), "nope.pool")})
	})
	if err == nil {
		t.Error("layout on a missing file should fail")
	}
}
