// Package config handles loading and validation of bb configuration.
//
// Configuration is read from ~/.bb/config.toml (or the file named by
// BB_CONFIG) and may be overridden per project by a .bb.toml found in the
// source file's directory or any parent.
//
// # Configuration Sources (highest priority first)
//
//   - BB_CACHE_DIR env var: directory holding cache records
//   - .bb.toml project file (nearest one walking up from the source file)
//   - Global config file
//   - Default values
//
// # Key Settings
//
//   - default_layer: layer active when a file is opened
//   - toggle_mode: "by_line" (default) or "by_region"
//   - cache_dir: where records are stored (must be absolute or ~/...)
//   - autoload, autosave, cache_on_close, cleanup_on_close: record lifecycle
//   - save_empty_layers: write empty layers into records
//   - layer_status: where the active layer is announced ("permanent", "temporary")
//   - ignore: glob patterns of files that are never cached
//
// # Layers
//
// Layers are defined as an ordered array of tables; the order is the order
// "bb swap" cycles through:
//
//	[[layers]]
//	name = "bug"
//	icon = "●"
//	scope = "red"
//
// In a .bb.toml, a layer with the name of a global layer overrides its icon
// and scope, and enabled = false removes it for that project.
//
// # Ignore Patterns
//
// Patterns without a "/" match the file name ("*.log"); patterns with a "/"
// match the absolute path, where "*" stays within one directory and "**"
// crosses directories ("/tmp/**").
package config
