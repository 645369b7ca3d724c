package config

import "slices"

// MergeLocal merges a local per-project config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	// Shallow copy global; fields not in LocalConfig (CacheDir, Verbose,
	// LayerStatus) are inherited as-is.
	merged := *global

	merged.Layers = mergeLayers(global.Layers, local.Layers)

	if local.DefaultLayer != "" {
		merged.DefaultLayer = local.DefaultLayer
	}
	if local.ToggleMode != "" {
		merged.ToggleMode = local.ToggleMode
	}

	mergeBool(&merged.Autoload, local.Autoload)
	mergeBool(&merged.Autosave, local.Autosave)
	mergeBool(&merged.CacheOnClose, local.CacheOnClose)
	mergeBool(&merged.CleanupOnClose, local.CleanupOnClose)
	mergeBool(&merged.SaveEmptyLayers, local.SaveEmptyLayers)

	if len(local.Ignore) > 0 {
		merged.Ignore = appendUnique(global.Ignore, local.Ignore)
	}

	return &merged
}

func mergeBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// mergeLayers merges local layers into global layers by name.
// A local layer with a global name overrides its non-empty fields in place,
// enabled=false removes it, and new names are appended in local order.
func mergeLayers(global, local []Layer) []Layer {
	merged := slices.Clone(global)

	for _, l := range local {
		i := slices.IndexFunc(merged, func(g Layer) bool { return g.Name == l.Name })
		switch {
		case !l.IsEnabled():
			if i >= 0 {
				merged = slices.Delete(merged, i, i+1)
			}
		case i >= 0:
			if l.Icon != "" {
				merged[i].Icon = l.Icon
			}
			if l.Scope != "" {
				merged[i].Scope = l.Scope
			}
		default:
			merged = append(merged, l)
		}
	}

	return merged
}

// appendUnique appends items from extra to base, skipping duplicates.
// Returns a new slice (never mutates base).
func appendUnique(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v] = true
	}

	result := make([]string, len(base))
	copy(result, base)

	for _, v := range extra {
		if !seen[v] {
			result = append(result, v)
			seen[v] = true
		}
	}

	return result
}
