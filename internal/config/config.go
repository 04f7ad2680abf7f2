// Package config loads generator-wide defaults from an optional
// bitwire.toml, grounded on the pack's pairing of creasty/defaults (for
// the struct's zero-value fallbacks) with BurntSushi/toml (for the file
// overlay) rather than a hand-rolled flag/ini reader.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
)

// Config is the generator-wide option set cmd/bitwire loads from
// bitwire.toml (or its defaults). No command-line flag overrides these
// fields.
type Config struct {
	// DefaultEndian is the byte order an aggregate gets when its
	// `// @bitwire` annotation has no endian= term.
	DefaultEndian string `toml:"default_endian" default:"big"`

	// OutputSuffix names the generated file: "<source-basename-without-ext><suffix>".
	OutputSuffix string `toml:"output_suffix" default:"_bitwire.go"`

	// PackageOverride, when non-empty, replaces the package clause
	// AssembleFile would otherwise derive from the source file's own
	// package declaration. Used for generating into a different
	// package than the one being scanned (e.g. an internal/wire subpackage).
	PackageOverride string `toml:"package_override"`
}

// Load returns the default Config overlaid with bitwire.toml at path, if
// it exists. A missing file is not an error — it just means every field
// keeps its default tag's value.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config: setting defaults: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if cfg.DefaultEndian != "big" && cfg.DefaultEndian != "little" {
		return nil, fmt.Errorf("config: default_endian must be \"big\" or \"little\", got %q", cfg.DefaultEndian)
	}
	return cfg, nil
}
