package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-project config file name.
const LocalConfigFileName = ".bb.toml"

// LocalConfig holds per-project configuration overrides from .bb.toml.
// Pointer fields and zero-value strings indicate "not set" (inherit from global).
type LocalConfig struct {
	DefaultLayer    string   `toml:"default_layer"`
	ToggleMode      string   `toml:"toggle_mode"`
	Autoload        *bool    `toml:"autoload"`
	Autosave        *bool    `toml:"autosave"`
	CacheOnClose    *bool    `toml:"cache_on_close"`
	CleanupOnClose  *bool    `toml:"cleanup_on_close"`
	SaveEmptyLayers *bool    `toml:"save_empty_layers"`
	Ignore          []string `toml:"ignore"` // appended to global
	Layers          []Layer  `toml:"layers"` // merged by name into global

	// Dir is the directory the file was found in.
	Dir string `toml:"-"`
}

// LoadLocal reads a .bb.toml from dir.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(dir string) (*LocalConfig, error) {
	configFile := filepath.Join(dir, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}
	local.Dir = dir

	if err := validateEnum(local.ToggleMode, "toggle_mode", ValidToggleModes); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}
	if err := validateLayers(local.Layers, configFile); err != nil {
		return nil, err
	}
	if err := validateIgnorePatterns(local.Ignore, configFile); err != nil {
		return nil, err
	}

	return &local, nil
}

// FindLocal looks for a .bb.toml in dir and each of its parents.
// Returns nil (no error) if none is found.
func FindLocal(dir string) (*LocalConfig, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	for {
		local, err := LoadLocal(dir)
		if err != nil || local != nil {
			return local, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// defaultLocalConfig is the template for bb config init --local
const defaultLocalConfig = `# bb project config
# Place this file at the root of your project.
# Settings here override the global ~/.bb/config.toml for files below it.

# default_layer = "todo"
# toggle_mode = "by_region"
# autosave = false
# cleanup_on_close = true
# save_empty_layers = false

# Added to the global ignore patterns
# ignore = ["vendor/**", "*.pb.go"]

# Layers merge by name with the global ones.
# New names are appended; enabled = false removes a global layer here.
#
# [[layers]]
# name = "review"
# icon = "✎"
# scope = "magenta"
#
# [[layers]]
# name = "bug"
# enabled = false
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}
