package bookmark

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultLayer is used when neither the config nor the caller names one.
const DefaultLayer = "bookmarks"

// ErrInvalidDirection is returned by Swap for anything but Prev or Next.
var ErrInvalidDirection = errors.New("invalid layer swap direction")

// Direction selects which neighbour Swap moves to.
type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// ParseDirection validates a user-supplied swap direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Prev, Next:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q (must be %q or %q)", ErrInvalidDirection, s, Prev, Next)
}

// Ring is a cyclic list of distinct layer names with a current position.
// It is never empty.
type Ring struct {
	names   []string
	current int
}

// NewRing creates a ring positioned on def. If def is not among names it is
// not added; the ring starts on the first name instead.
func NewRing(names []string, def string) *Ring {
	r := &Ring{}
	r.Rebuild(names, def)
	return r
}

// Current returns the active layer name.
func (r *Ring) Current() string {
	return r.names[r.current]
}

// Names returns the layer names in ring order.
func (r *Ring) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of layers in the ring.
func (r *Ring) Len() int {
	return len(r.names)
}

// Has reports whether name is part of the ring.
func (r *Ring) Has(name string) bool {
	return slices.Contains(r.names, name)
}

// Swap moves the current position one step in dir, wrapping around.
func (r *Ring) Swap(dir Direction) (string, error) {
	switch dir {
	case Next:
		r.current = (r.current + 1) % len(r.names)
	case Prev:
		r.current = (r.current - 1 + len(r.names)) % len(r.names)
	default:
		return r.Current(), fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	return r.Current(), nil
}

// Set makes name current, appending it to the ring if unknown.
// Returns true if the name had to be added.
func (r *Ring) Set(name string) bool {
	if i := slices.Index(r.names, name); i >= 0 {
		r.current = i
		return false
	}
	r.names = append(r.names, name)
	r.current = len(r.names) - 1
	return true
}

// Rebuild replaces the layer names. The current layer is kept if it is still
// present; otherwise the ring resets to def, or to the first name when def
// is not present either.
func (r *Ring) Rebuild(names []string, def string) {
	var prev string
	if len(r.names) > 0 {
		prev = r.Current()
	}

	r.names = dedup(names)
	if len(r.names) == 0 {
		if def == "" {
			def = DefaultLayer
		}
		r.names = []string{def}
	}

	for _, want := range []string{prev, def} {
		if want == "" {
			continue
		}
		if i := slices.Index(r.names, want); i >= 0 {
			r.current = i
			return
		}
	}
	r.current = 0
}

// dedup drops empty and repeated names, keeping first occurrences.
func dedup(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
