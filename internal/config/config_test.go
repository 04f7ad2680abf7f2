package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-bitwire.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultEndian != "big" {
		t.Errorf("DefaultEndian = %q, want %q", cfg.DefaultEndian, "big")
	}
	if cfg.OutputSuffix != "_bitwire.go" {
		t.Errorf("OutputSuffix = %q, want %q", cfg.OutputSuffix, "_bitwire.go")
	}
}

func TestLoadOverlaysTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bitwire.toml")
	const body = `
default_endian = "little"
output_suffix = "_wire.go"
package_override = "wire"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultEndian != "little" {
		t.Errorf("DefaultEndian = %q, want %q", cfg.DefaultEndian, "little")
	}
	if cfg.OutputSuffix != "_wire.go" {
		t.Errorf("OutputSuffix = %q, want %q", cfg.OutputSuffix, "_wire.go")
	}
	if cfg.PackageOverride != "wire" {
		t.Errorf("PackageOverride = %q, want %q", cfg.PackageOverride, "wire")
	}
}

func TestLoadRejectsInvalidEndian(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bitwire.toml")
	if err := os.WriteFile(path, []byte(`default_endian = "middle"`), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() with invalid default_endian: want error, got nil")
	}
}
