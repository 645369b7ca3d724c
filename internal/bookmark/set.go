package bookmark

import (
	"fmt"
	"slices"
)

// ToggleMode decides when a new mark counts as "already marked".
type ToggleMode string

const (
	// ByLine treats marks starting on the same line as the same mark.
	ByLine ToggleMode = "by_line"
	// ByRegion treats marks with identical normalized offsets as the same mark.
	ByRegion ToggleMode = "by_region"
)

// ToggleModes lists the valid toggle modes.
var ToggleModes = []ToggleMode{ByLine, ByRegion}

// ParseToggleMode converts a config value into a ToggleMode.
// An empty string selects ByLine.
func ParseToggleMode(s string) (ToggleMode, error) {
	switch ToggleMode(s) {
	case "", ByLine:
		return ByLine, nil
	case ByRegion:
		return ByRegion, nil
	}
	return "", fmt.Errorf("invalid toggle mode %q: must be %q or %q", s, ByLine, ByRegion)
}

// IntervalSet is the ordered collection of marks for one layer.
// Iteration follows insertion order.
type IntervalSet struct {
	marks []Interval
}

// NewIntervalSet creates a set holding the given intervals, normalized.
func NewIntervalSet(ivs ...Interval) *IntervalSet {
	s := &IntervalSet{}
	s.Replace(ivs)
	return s
}

// Toggle adds iv, or removes the mark it collides with under mode.
// Returns true if iv was added, false if an existing mark was removed.
func (s *IntervalSet) Toggle(iv Interval, mode ToggleMode, lines *LineIndex) bool {
	iv = iv.Normalize()

	var idx int
	switch mode {
	case ByRegion:
		idx = slices.Index(s.marks, iv)
	default:
		line := lines.LineOf(iv.Start)
		idx = slices.IndexFunc(s.marks, func(m Interval) bool {
			return lines.LineOf(m.Start) == line
		})
	}

	if idx >= 0 {
		s.marks = slices.Delete(s.marks, idx, idx+1)
		return false
	}

	s.marks = append(s.marks, iv)
	return true
}

// Clear removes every mark. Safe to call on an empty set.
func (s *IntervalSet) Clear() {
	s.marks = nil
}

// ContainsLine returns true if any mark lies within the line span.
func (s *IntervalSet) ContainsLine(line Interval) bool {
	return slices.ContainsFunc(s.marks, line.Contains)
}

// Intervals returns a copy of the marks in insertion order.
func (s *IntervalSet) Intervals() []Interval {
	return slices.Clone(s.marks)
}

// Replace swaps the contents for ivs, normalizing each one.
func (s *IntervalSet) Replace(ivs []Interval) {
	s.marks = make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		s.marks = append(s.marks, iv.Normalize())
	}
}

// Len returns the number of marks.
func (s *IntervalSet) Len() int {
	return len(s.marks)
}

// IsEmpty returns true when the set holds no marks.
func (s *IntervalSet) IsEmpty() bool {
	return len(s.marks) == 0
}
