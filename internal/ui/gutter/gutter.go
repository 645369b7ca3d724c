// Package gutter renders a file with bookmark icons in a gutter column.
//
// Renderer implements bookmark.Renderer. It keeps the marks it was last
// given per layer, so a host can print the current view at any time, and
// it tracks the active layer indicator the way the config asks for it.
package gutter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/raphi011/bb/internal/bookmark"
	"github.com/raphi011/bb/internal/config"
	"github.com/raphi011/bb/internal/ui/styles"
)

// StatusPrefix starts the active layer indicator.
const StatusPrefix = "Bookmark Layer: "

// defaultIcon is used for layers without a configured icon.
const defaultIcon = "●"

// Renderer remembers rendered marks per layer and produces a gutter view.
type Renderer struct {
	cfg     *config.Config
	shown   map[string][]bookmark.Interval
	layer   string // last rendered layer
	status  string // active layer for the permanent indicator
	message string // pending temporary message
}

// New creates a renderer using the icons, scopes and layer_status of cfg.
// A nil cfg uses the defaults.
func New(cfg *config.Config) *Renderer {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return &Renderer{
		cfg:   cfg,
		shown: make(map[string][]bookmark.Interval),
	}
}

// Render shows marks for layer.
func (r *Renderer) Render(layer string, marks []bookmark.Interval) {
	r.shown[layer] = slices.Clone(marks)
	r.layer = layer
}

// Rendered returns the marks currently shown for layer.
func (r *Renderer) Rendered(layer string) []bookmark.Interval {
	return slices.Clone(r.shown[layer])
}

// Edit replaces what is shown for layer without going through a store,
// the way an editor moves regions when text is inserted.
func (r *Renderer) Edit(layer string, marks []bookmark.Interval) {
	r.shown[layer] = slices.Clone(marks)
}

// Status announces the active layer.
func (r *Renderer) Status(layer string) {
	if r.cfg.HasStatus(config.StatusPermanent) {
		r.status = layer
	}
	if r.cfg.HasStatus(config.StatusTemporary) {
		r.message = StatusPrefix + layer
	}
}

// Layer returns the last rendered layer.
func (r *Renderer) Layer() string {
	return r.layer
}

// StatusLine returns the permanent indicator, or "" if it is disabled or no
// layer was announced yet.
func (r *Renderer) StatusLine() string {
	if r.status == "" {
		return ""
	}
	return StatusPrefix + r.status
}

// Flash returns the pending temporary message once.
func (r *Renderer) Flash() string {
	msg := r.message
	r.message = ""
	return msg
}

// View prints text with line numbers, the layer icon next to every line a
// mark of the last rendered layer touches, and marked text highlighted.
// The permanent status line is appended when enabled.
func (r *Renderer) View(text []byte, lines *bookmark.LineIndex) string {
	layer, _ := r.cfg.Layer(r.layer)
	icon := layer.Icon
	if icon == "" {
		icon = defaultIcon
	}
	iconStyle := styles.LayerStyle(layer.Scope)
	markStyle := styles.MarkStyle(layer.Scope)

	if lines == nil {
		lines = bookmark.NewLineIndex(text)
	}
	marks := r.shown[r.layer]
	count := lines.LineCount()
	if count > 1 && lines.LineSpan(count-1).IsEmpty() && strings.HasSuffix(string(text), "\n") {
		// no line after the final newline
		count--
	}

	iconWidth := ansi.StringWidth(icon)
	numWidth := len(strconv.Itoa(count))

	var b strings.Builder
	for line := range count {
		span := lines.LineSpan(line)
		hits := clip(marks, span)

		gutter := strings.Repeat(" ", iconWidth)
		if touches(marks, span) {
			gutter = iconStyle.Render(icon)
		}
		num := styles.MutedStyle.Render(fmt.Sprintf("%*d", numWidth, line+1))

		fmt.Fprintf(&b, "%s %s │ %s\n", gutter, num, highlight(text, span, hits, markStyle.Render))
	}

	if status := r.StatusLine(); status != "" {
		b.WriteString(styles.StatusStyle.Render(status))
		b.WriteString("\n")
	}
	return b.String()
}

// touches reports whether any mark lies on or across the line span.
// Empty marks count when they sit inside the line.
func touches(marks []bookmark.Interval, span bookmark.Interval) bool {
	for _, m := range marks {
		if m.Start <= span.End && m.End >= span.Start {
			return true
		}
	}
	return false
}

// clip returns the non-empty parts of marks inside span, sorted and merged.
func clip(marks []bookmark.Interval, span bookmark.Interval) []bookmark.Interval {
	var out []bookmark.Interval
	for _, m := range marks {
		iv := bookmark.Interval{Start: max(m.Start, span.Start), End: min(m.End, span.End)}
		if iv.Len() > 0 {
			out = append(out, iv)
		}
	}
	slices.SortFunc(out, func(a, b bookmark.Interval) int { return a.Start - b.Start })

	merged := out[:0]
	for _, iv := range out {
		if n := len(merged); n > 0 && iv.Start <= merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, iv.End)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// highlight returns the text of span with hits styled by mark.
func highlight(text []byte, span bookmark.Interval, hits []bookmark.Interval, mark func(...string) string) string {
	end := min(span.End, len(text))
	pos := min(span.Start, end)

	var b strings.Builder
	for _, h := range hits {
		hs, he := min(h.Start, end), min(h.End, end)
		b.Write(text[pos:hs])
		b.WriteString(mark(string(text[hs:he])))
		pos = he
	}
	b.Write(text[pos:end])
	return b.String()
}
