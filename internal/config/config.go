package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"github.com/raphi011/bb/internal/bookmark"
	"github.com/raphi011/bb/internal/storage"
)

const (
	// ConfigEnv names an alternative global config file.
	ConfigEnv = "BB_CONFIG"
	// CacheDirEnv overrides cache_dir.
	CacheDirEnv = "BB_CACHE_DIR"
)

// Layer status locations
const (
	StatusPermanent = "permanent" // shown with every rendered view
	StatusTemporary = "temporary" // shown once, after a layer change
)

// Layer describes one bookmark layer and how its marks are displayed.
type Layer struct {
	Name    string `toml:"name" json:"name" yaml:"name"`
	Icon    string `toml:"icon" json:"icon,omitempty" yaml:"icon,omitempty"`    // gutter symbol for marked lines
	Scope   string `toml:"scope" json:"scope,omitempty" yaml:"scope,omitempty"` // colour name, ANSI number or #rrggbb
	Enabled *bool  `toml:"enabled,omitempty" json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// IsEnabled returns whether the layer is active (default true).
func (l Layer) IsEnabled() bool {
	return l.Enabled == nil || *l.Enabled
}

// Config holds the bb configuration
type Config struct {
	DefaultLayer    string   `toml:"default_layer" json:"default_layer" yaml:"default_layer"`
	ToggleMode      string   `toml:"toggle_mode" json:"toggle_mode" yaml:"toggle_mode"`
	CacheDir        string   `toml:"cache_dir" json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
	Autoload        bool     `toml:"autoload" json:"autoload" yaml:"autoload"`
	Autosave        bool     `toml:"autosave" json:"autosave" yaml:"autosave"`
	CacheOnClose    bool     `toml:"cache_on_close" json:"cache_on_close" yaml:"cache_on_close"`
	CleanupOnClose  bool     `toml:"cleanup_on_close" json:"cleanup_on_close" yaml:"cleanup_on_close"`
	SaveEmptyLayers bool     `toml:"save_empty_layers" json:"save_empty_layers" yaml:"save_empty_layers"`
	Verbose         bool     `toml:"verbose" json:"verbose" yaml:"verbose"`
	LayerStatus     []string `toml:"layer_status" json:"layer_status" yaml:"layer_status"`
	Ignore          []string `toml:"ignore" json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Layers          []Layer  `toml:"layers" json:"layers" yaml:"layers"`
}

// DefaultLayers are used when the config file defines none.
var DefaultLayers = []Layer{
	{Name: bookmark.DefaultLayer, Icon: "◆", Scope: "cyan"},
	{Name: "todo", Icon: "▶", Scope: "yellow"},
	{Name: "bug", Icon: "●", Scope: "red"},
}

// Default returns the default configuration
func Default() Config {
	layers := make([]Layer, len(DefaultLayers))
	copy(layers, DefaultLayers)

	return Config{
		DefaultLayer:   bookmark.DefaultLayer,
		ToggleMode:     string(bookmark.ByLine),
		Autoload:       true,
		Autosave:       true,
		CleanupOnClose: true,
		LayerStatus:    []string{StatusPermanent},
		Layers:         layers,
	}
}

// LayerNames returns the names of enabled layers in configured order.
func (c *Config) LayerNames() []string {
	var names []string
	for _, l := range c.Layers {
		if l.IsEnabled() {
			names = append(names, l.Name)
		}
	}
	return names
}

// Layer returns the configured layer called name. Unknown layers get a
// placeholder with no icon or scope.
func (c *Config) Layer(name string) (Layer, bool) {
	for _, l := range c.Layers {
		if l.Name == name && l.IsEnabled() {
			return l, true
		}
	}
	return Layer{Name: name}, false
}

// Mode returns the parsed toggle mode, falling back to by_line.
func (c *Config) Mode() bookmark.ToggleMode {
	mode, err := bookmark.ParseToggleMode(c.ToggleMode)
	if err != nil {
		return bookmark.ByLine
	}
	return mode
}

// HasStatus reports whether the active layer is announced at loc.
func (c *Config) HasStatus(loc string) bool {
	for _, s := range c.LayerStatus {
		if s == loc {
			return true
		}
	}
	return false
}

// ResolveCacheDir returns the directory for cache records:
// BB_CACHE_DIR, then cache_dir, then ~/.bb/cache.
func (c *Config) ResolveCacheDir() (string, error) {
	if dir := os.Getenv(CacheDirEnv); dir != "" {
		return expandPath(dir)
	}
	if c.CacheDir != "" {
		return expandPath(c.CacheDir)
	}
	data, err := storage.DataDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(data, "cache"), nil
}

// IsIgnored reports whether path matches one of the ignore patterns.
// Invalid patterns never match; Load rejects them up front.
func (c *Config) IsIgnored(path string) bool {
	for _, pattern := range c.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			continue
		}
		target := path
		if !strings.Contains(pattern, "/") {
			target = filepath.Base(path)
		}
		if g.Match(filepath.ToSlash(target)) {
			return true
		}
	}
	return false
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
	}
	return path, nil
}

// Path returns the global config file: BB_CONFIG or ~/.bb/config.toml.
func Path() (string, error) {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bb", "config.toml"), nil
}

// Load reads the global config.
// Returns Default() if the file doesn't exist (no error).
// Returns Default() and an error if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads config from path on top of the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML config data on top of the defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	cfg.Layers = nil

	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(cfg.Layers) == 0 {
		cfg.Layers = Default().Layers
	} else if names := cfg.LayerNames(); !meta.IsDefined("default_layer") && len(names) > 0 {
		// Custom layers without an explicit default start on the first one
		cfg.DefaultLayer = names[0]
	}
	if cfg.ToggleMode == "" {
		cfg.ToggleMode = string(bookmark.ByLine)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks enum fields, paths, layers and ignore patterns.
func (c *Config) Validate() error {
	if err := validateEnum(c.ToggleMode, "toggle_mode", ValidToggleModes); err != nil {
		return err
	}
	for _, s := range c.LayerStatus {
		if err := validateEnum(s, "layer_status", ValidLayerStatus); err != nil {
			return err
		}
	}
	if err := ValidatePath(c.CacheDir, "cache_dir"); err != nil {
		return err
	}
	if err := validateLayers(c.Layers, ""); err != nil {
		return err
	}
	if c.DefaultLayer != "" {
		if _, ok := c.Layer(c.DefaultLayer); !ok {
			return fmt.Errorf("default_layer %q is not a configured layer", c.DefaultLayer)
		}
	}
	return validateIgnorePatterns(c.Ignore, "")
}

const defaultConfig = `# bb configuration

# Layer active when a file is opened
default_layer = "bookmarks"

# What counts as "already marked" when marking again:
#   "by_line"   - any mark starting on the same line (marking again removes it)
#   "by_region" - only a mark with exactly the same offsets
toggle_mode = "by_line"

# Where cache records are stored (absolute or ~/...)
# Default: ~/.bb/cache, overridden by BB_CACHE_DIR
# cache_dir = "~/.bb/cache"

# Record lifecycle
autoload = true          # "bb hook load" restores marks
autosave = true          # "bb hook save" writes marks
cache_on_close = false   # "bb hook close" writes marks before closing
cleanup_on_close = true  # "bb hook close" deletes the record when no marks are left

# Write empty layers into records
save_empty_layers = false

# Log cache activity (same as --verbose)
verbose = false

# Where the active layer is announced: "permanent", "temporary"
layer_status = ["permanent"]

# Files that are never cached
# Patterns without "/" match the file name, others the absolute path
# ignore = ["*.log", "/tmp/**"]

# Layers in the order "bb swap" cycles through them
# scope is a colour name (red, green, yellow, blue, magenta, cyan, white, gray),
# an ANSI colour number ("212") or a hex value ("#ff79c6")
[[layers]]
name = "bookmarks"
icon = "◆"
scope = "cyan"

[[layers]]
name = "todo"
icon = "▶"
scope = "yellow"

[[layers]]
name = "bug"
icon = "●"
scope = "red"
`

// DefaultConfig returns the default global configuration file content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at Path().
// If force is true, overwrites existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config file already exists: %s (use -f to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return path, nil
}
