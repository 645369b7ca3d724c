package bookmark

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is a span of byte offsets within a file.
// Start <= End always holds for values built with NewInterval.
type Interval struct {
	Start int
	End   int
}

// NewInterval creates an interval from two offsets in either order.
func NewInterval(a, b int) Interval {
	if a > b {
		a, b = b, a
	}
	return Interval{Start: a, End: b}
}

// Normalize returns the interval with Start and End in ascending order.
func (iv Interval) Normalize() Interval {
	return NewInterval(iv.Start, iv.End)
}

// String returns a human-readable representation of the interval.
func (iv Interval) String() string {
	return fmt.Sprintf("[%d:%d]", iv.Start, iv.End)
}

// Len returns the number of bytes covered by the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// IsEmpty returns true for a point interval.
func (iv Interval) IsEmpty() bool {
	return iv.Start == iv.End
}

// Contains returns true if other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	iv, other = iv.Normalize(), other.Normalize()
	return other.Start >= iv.Start && other.End <= iv.End
}

// Overlaps returns true if the two intervals share at least one offset.
// Point intervals overlap anything that contains them.
func (iv Interval) Overlaps(other Interval) bool {
	iv, other = iv.Normalize(), other.Normalize()
	if iv.IsEmpty() || other.IsEmpty() {
		return iv.Contains(other) || other.Contains(iv)
	}
	return iv.Start < other.End && other.Start < iv.End
}

// ParseInterval parses "start:end" or a single offset "n" (a point).
// Negative offsets are rejected; reversed pairs are normalized.
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	startStr, endStr, found := strings.Cut(s, ":")
	if !found {
		endStr = startStr
	}

	start, err := parseOffset(startStr)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	end, err := parseOffset(endStr)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}

	return NewInterval(start, end), nil
}

func parseOffset(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("offset %d is negative", n)
	}
	return n, nil
}
