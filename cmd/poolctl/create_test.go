package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateCommand(t *testing.T) {
	tests := []struct {
		name        string
		size        string
		label       string
		wantErr     bool
		wantJSON    bool
		wantContain []string
	}{
		{
			name:        "create basic pool",
			size:        "4096",
			wantContain: []string{"Created pool", "4096 bytes"},
		},
		{
			name:        "create labeled pool",
			size:        "4096",
			label:       "scratch",
			wantContain: []string{"Label: scratch"},
		},
		{
			name:        "create as JSON",
			size:        "4096",
			wantJSON:    true,
			wantContain: []string{`"created": true`, `"total_size": 4096`},
		},
		{
			name:    "reject tiny pool",
			size:    "8",
			wantErr: true,
		},
		{
			name:    "reject non-numeric size",
			size:    "lots",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = false
			jsonOut = tt.wantJSON
			createLabel = tt.label

			path := filepath.Join(t.TempDir(), "test.pool")

			output, err := captureOutput(t, func() error {
				return runCreate([]string{path, tt.size})
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("runCreate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
					t.Errorf("failed create left file behind: %s", path)
				}
				return
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)

			if _, statErr := os.Stat(path); statErr != nil {
				t.Errorf("pool file missing after create: %v", statErr)
			}
		})
	}
}

func TestCreateCommandRefusesExistingFile(t *testing.T) {
	quiet = true
	verbose = false
	jsonOut = false
	createLabel = ""

	path := filepath.Join(t.TempDir(), "test.pool")

	_, err := captureOutput(t, func() error {
		return runCreate([]string{path, "4096"})
	})
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err = captureOutput(t, func() error {
		return runCreate([]string{path, "4096"})
	})
	if err == nil {
		t.Error("second create on the same path should fail")
	}
}

func TestInfoCommand(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false
	createLabel = "cache"

	path := filepath.Join(t.TempDir(), "test.pool")

	_, err := captureOutput(t, func() error {
		return runCreate([]string{path, "4096"})
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	output, err := captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	if err != nil {
		t.Fatalf("runInfo() error = %v", err)
	}

	assertContains(t, output, []string{
		"Pool Information:",
		"Label: cache",
		"Total Size: 4096 bytes",
		"Used Memory: 0 bytes",
		"Active Allocations: 0",
		"Largest Gap: 4048 bytes",
		"Gap Count: 1",
	})

	jsonOut = true
	output, err = captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	jsonOut = false
	if err != nil {
		t.Fatalf("runInfo() JSON error = %v", err)
	}
	assertJSON(t, output)
	assertContains(t, output, []string{`"free_memory": 4048`, `"label": "cache"`})
}

func TestInfoCommandMissingFile(t *testing.T) {
	quiet = true
	jsonOut = false

	_, err := captureOutput(t, func() error {
		return runInfo([]string{filepath.Join(t.TempDir(), "nope.pool")})
	})
	if err == nil {
		t.Error("info on a missing file should fail")
	}
}
