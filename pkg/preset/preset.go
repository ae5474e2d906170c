// Package preset loads and saves generation configs as flat key-value
// preset files.
//
// TOML and JSON are supported, selected by file extension. Loading starts
// from the full default config, so absent keys keep their defaults, and
// unknown keys are ignored. Loaded presets are not validated here; callers
// validate before a run starts.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rgallet/mandagen/pkg/mandala"
)

// Load reads the preset at path on top of the default config.
func Load(path string) (mandala.GenerationConfig, error) {
	cfg := mandala.DefaultConfig()

	switch ext(path) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load preset %s: %w", path, err)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load preset %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("load preset %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported preset format %q (use .toml or .json)", ext(path))
	}

	// Accept any casing for the page format; validation handles the rest.
	if f, err := mandala.ParsePageFormat(string(cfg.PageFormat)); err == nil {
		cfg.PageFormat = f
	}
	return cfg, nil
}

// Save writes cfg to path, in TOML or JSON depending on the extension.
func Save(cfg mandala.GenerationConfig, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save preset %s: %w", path, err)
	}
	defer f.Close()

	switch ext(path) {
	case ".toml":
		if err := toml.NewEncoder(f).Encode(cfg); err != nil {
			return fmt.Errorf("save preset %s: %w", path, err)
		}
	case ".json":
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("save preset %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported preset format %q (use .toml or .json)", ext(path))
	}
	return nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
