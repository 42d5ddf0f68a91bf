package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GregMSThompson/mural-backend/internal/mural"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("MURALCONFIG", "")
	t.Setenv("GRIDROWS", "")
	t.Setenv("PORT", "")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.Grid != mural.DefaultGrid {
		t.Errorf("expected default grid, got %+v", cfg.Grid)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
}

func TestNew_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mural.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  rows: 8\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("MURALCONFIG", path)
	t.Setenv("GRIDROWS", "")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.Grid.Rows != 8 || cfg.Grid.Cols != mural.DefaultCols {
		t.Fatalf("expected 20x8 grid, got %+v", cfg.Grid)
	}
}

func TestNew_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mural.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  rows: 8\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("MURALCONFIG", path)
	t.Setenv("GRIDROWS", "6")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.Grid.Rows != 6 {
		t.Fatalf("expected GRIDROWS to win, got %d", cfg.Grid.Rows)
	}
}

func TestNew_InvalidGrid(t *testing.T) {
	t.Setenv("MURALCONFIG", "")
	t.Setenv("GRIDROWS", "0")
	if _, err := New(); err == nil {
		t.Fatal("expected error for zero rows")
	}

	t.Setenv("GRIDROWS", "six")
	if _, err := New(); err == nil {
		t.Fatal("expected error for non-numeric rows")
	}
}

func TestNew_MissingFile(t *testing.T) {
	t.Setenv("MURALCONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("GRIDROWS", "")
	if _, err := New(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
