// Package static provides non-interactive terminal output components.
//
// This package contains components for rendering formatted output
// that does not require user interaction, such as the cache record and
// layer tables.
package static

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/bb/internal/cache"
	"github.com/raphi011/bb/internal/config"
)

// RecordHeaders are the columns produced by RecordTableRow.
var RecordHeaders = []string{"FILE", "CURRENT", "MARKS", "LAYERS", "SAVED"}

// LayerHeaders are the columns produced by LayerTableRow.
var LayerHeaders = []string{"", "LAYER", "ICON", "SCOPE", "MARKS"}

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// RecordTableRow formats a cache entry for bb list.
func RecordTableRow(e cache.Entry, now time.Time) []string {
	if errors.Is(e.Err, cache.ErrNewerVersion) {
		return []string{e.Path, "-", "-", "newer version", "-"}
	}
	if e.Err != nil {
		return []string{e.Path, "-", "-", "unreadable", "-"}
	}

	current := e.Current
	if current == "" {
		current = "-"
	}

	return []string{
		e.Filename,
		current,
		strconv.Itoa(e.Total),
		FormatCounts(e.Counts),
		FormatAge(e.SavedAt, now),
	}
}

// LayerTableRow formats a layer for bb layers and bb show.
func LayerTableRow(l config.Layer, active bool, marks int) []string {
	marker := ""
	if active {
		marker = "*"
	}
	return []string{marker, l.Name, l.Icon, l.Scope, strconv.Itoa(marks)}
}

// FormatCounts renders per-layer counts as "bug:2 todo:1", sorted by layer.
// Empty layers are left out.
func FormatCounts(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name, n := range counts {
		if n > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%d", name, counts[name])
	}
	return strings.Join(parts, " ")
}

// FormatAge renders the time since t in the largest whole unit.
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
