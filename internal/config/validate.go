package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Valid enum values for configuration fields.
var (
	ValidToggleModes = []string{"by_line", "by_region"}
	ValidLayerStatus = []string{StatusPermanent, StatusTemporary}
	ValidFormats     = []string{"text", "json", "yaml"}
)

// ValidateFormat validates an output format value against ValidFormats.
// Exported for use in CLI flag validation.
func ValidateFormat(format string) error {
	return validateEnum(format, "format", ValidFormats)
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validateLayers checks that every layer has a unique, non-empty name.
func validateLayers(layers []Layer, contextInfo string) error {
	seen := make(map[string]bool, len(layers))
	for i, l := range layers {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return withContext(fmt.Errorf("layers[%d] has no name", i), contextInfo)
		}
		if seen[name] {
			return withContext(fmt.Errorf("duplicate layer %q", name), contextInfo)
		}
		seen[name] = true
	}
	return nil
}

// validateIgnorePatterns checks that all patterns compile as globs.
func validateIgnorePatterns(patterns []string, contextInfo string) error {
	for i, pat := range patterns {
		if _, err := glob.Compile(pat, '/'); err != nil {
			return withContext(fmt.Errorf("invalid ignore[%d] %q: %w", i, pat, err), contextInfo)
		}
	}
	return nil
}

func withContext(err error, contextInfo string) error {
	if contextInfo == "" {
		return err
	}
	return fmt.Errorf("%w in %s", err, contextInfo)
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
