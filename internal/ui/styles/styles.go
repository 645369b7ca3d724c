// Package styles provides shared lipgloss styles for UI components.
//
// Layer scopes from the config (colour names, ANSI numbers or hex values)
// are resolved here so the gutter renderer, tables and the picker agree on
// a layer's colour.
package styles

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Primary colors used throughout the UI
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Accent is the highlight color for selected/active items (pink)
	Accent color.Color = lipgloss.Color("212")

	// Success is used for positive outcomes (green)
	Success color.Color = lipgloss.Color("82")

	// Error is used for error messages (red)
	Error color.Color = lipgloss.Color("196")

	// Muted is used for line numbers and inactive text (gray)
	Muted color.Color = lipgloss.Color("240")

	// Normal is the standard text color (light gray)
	Normal color.Color = lipgloss.Color("252")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	NormalStyle  = lipgloss.NewStyle().Foreground(Normal)

	// StatusStyle renders the active layer indicator
	StatusStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// scopeColors maps colour names accepted in layer scopes to ANSI colours.
var scopeColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
	"orange":  "214",
	"pink":    "212",
	"purple":  "99",
}

// ScopeNames returns the colour names accepted as layer scopes.
func ScopeNames() []string {
	return []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white", "gray", "orange", "pink", "purple"}
}

// ScopeColor resolves a layer scope to a colour. Names are looked up in the
// table above; anything else (ANSI numbers, #rrggbb) goes to lipgloss.
// An empty scope uses the accent colour.
func ScopeColor(scope string) color.Color {
	scope = strings.ToLower(strings.TrimSpace(scope))
	if scope == "" {
		return Accent
	}
	if c, ok := scopeColors[scope]; ok {
		return lipgloss.Color(c)
	}
	return lipgloss.Color(scope)
}

// LayerStyle renders a layer's icon and name in its scope colour.
func LayerStyle(scope string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ScopeColor(scope)).Bold(true)
}

// MarkStyle highlights marked text in its layer's scope colour.
func MarkStyle(scope string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ScopeColor(scope)).Underline(true)
}
