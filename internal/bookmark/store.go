package bookmark

import "slices"

// Renderer displays a layer's marks and the active layer name.
// Rendered returns what is currently shown for a layer, which may differ
// from the store if the marks were edited outside of it.
type Renderer interface {
	Render(layer string, marks []Interval)
	Rendered(layer string) []Interval
	Status(layer string)
}

// Store holds every layer's marks for a single file.
// A Store is not safe for concurrent use; each file owns its own.
type Store struct {
	layers   map[string]*IntervalSet
	ring     *Ring
	mode     ToggleMode
	lines    *LineIndex
	renderer Renderer
}

// Options configures a new Store.
type Options struct {
	Layers       []string   // ring order
	DefaultLayer string     // starting layer
	Mode         ToggleMode // empty means ByLine
	Lines        *LineIndex // nil puts everything on line 0
	Renderer     Renderer   // optional
}

// NewStore creates an empty store with one empty set per configured layer.
func NewStore(opts Options) *Store {
	s := &Store{
		layers:   make(map[string]*IntervalSet),
		ring:     NewRing(opts.Layers, opts.DefaultLayer),
		mode:     opts.Mode,
		lines:    opts.Lines,
		renderer: opts.Renderer,
	}
	if s.mode == "" {
		s.mode = ByLine
	}
	for _, name := range s.ring.Names() {
		s.layers[name] = &IntervalSet{}
	}
	return s
}

// SetRenderer attaches r and renders the active layer on it.
func (s *Store) SetRenderer(r Renderer) {
	s.renderer = r
	s.render(s.Current())
}

// SetLines replaces the line index, e.g. after the file was re-read.
func (s *Store) SetLines(lines *LineIndex) {
	s.lines = lines
}

// Mode returns the toggle mode in use.
func (s *Store) Mode() ToggleMode {
	return s.mode
}

// Lines returns the line index in use.
func (s *Store) Lines() *LineIndex {
	return s.lines
}

// Current returns the active layer name.
func (s *Store) Current() string {
	return s.ring.Current()
}

// Ring returns the layer ring.
func (s *Store) Ring() *Ring {
	return s.ring
}

// Layer returns the set for name, creating an empty one if needed.
func (s *Store) Layer(name string) *IntervalSet {
	if name == "" {
		name = s.Current()
	}
	set, ok := s.layers[name]
	if !ok {
		set = &IntervalSet{}
		s.layers[name] = set
	}
	return set
}

// HasLayer reports whether the store knows about name, either from the ring
// or because marks were loaded or added for it.
func (s *Store) HasLayer(name string) bool {
	_, ok := s.layers[name]
	return ok || s.ring.Has(name)
}

// Layers returns every layer name: ring order first, then any extra layers
// (loaded or marked without being configured) sorted by name.
func (s *Store) Layers() []string {
	names := s.ring.Names()
	var extra []string
	for name := range s.layers {
		if !slices.Contains(names, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

// Mark toggles iv on layer (the current layer if empty).
// Returns true if the mark was added, false if it removed an existing one.
func (s *Store) Mark(iv Interval, layer string) bool {
	if layer == "" {
		layer = s.Current()
	}
	added := s.Layer(layer).Toggle(iv, s.mode, s.lines)
	s.render(layer)
	return added
}

// MarkLine toggles the span of a 0-based line on layer.
func (s *Store) MarkLine(line int, layer string) bool {
	return s.Mark(s.lines.LineSpan(line), layer)
}

// ContainsLine reports whether layer has a mark inside the given line.
func (s *Store) ContainsLine(layer string, line int) bool {
	return s.Layer(layer).ContainsLine(s.lines.LineSpan(line))
}

// Clear removes every mark from layer (the current layer if empty).
func (s *Store) Clear(layer string) {
	if layer == "" {
		layer = s.Current()
	}
	s.Layer(layer).Clear()
	s.render(layer)
}

// ClearAll removes every mark from every layer. The active layer is
// unchanged and rendered empty.
func (s *Store) ClearAll() {
	active := s.Current()
	for _, set := range s.layers {
		set.Clear()
	}
	s.ChangeLayer(active)
}

// ChangeLayer makes name the active layer, rendering its marks and updating
// the status indicator. Unknown layers are created empty.
func (s *Store) ChangeLayer(name string) {
	if name == "" {
		name = s.Current()
	}
	s.ring.Set(name)
	s.Layer(name)
	if s.renderer != nil {
		s.renderer.Status(name)
	}
	s.render(name)
}

// Swap moves to the previous or next layer in the ring.
func (s *Store) Swap(dir Direction) (string, error) {
	name, err := s.ring.Swap(dir)
	if err != nil {
		return name, err
	}
	s.ChangeLayer(name)
	return name, nil
}

// IsEmpty returns true if no layer holds any marks.
func (s *Store) IsEmpty() bool {
	for _, set := range s.layers {
		if !set.IsEmpty() {
			return false
		}
	}
	return true
}

// Count returns the total number of marks across layers.
func (s *Store) Count() int {
	n := 0
	for _, set := range s.layers {
		n += set.Len()
	}
	return n
}

// Load replaces the contents of every layer named in marks. Layers not in
// the ring are accepted as-is. Layers absent from marks are cleared.
func (s *Store) Load(marks map[string][]Interval) {
	for _, set := range s.layers {
		set.Clear()
	}
	for name, ivs := range marks {
		s.Layer(name).Replace(ivs)
	}
	s.render(s.Current())
}

// Save returns a snapshot of the marks keyed by layer. Empty layers are
// only included when includeEmpty is set.
func (s *Store) Save(includeEmpty bool) map[string][]Interval {
	out := make(map[string][]Interval, len(s.layers))
	for _, name := range s.Layers() {
		set := s.Layer(name)
		if set.IsEmpty() && !includeEmpty {
			continue
		}
		out[name] = set.Intervals()
		if out[name] == nil {
			out[name] = []Interval{}
		}
	}
	return out
}

// Reconcile adopts the marks the renderer currently shows for layer.
// Does nothing without a renderer.
func (s *Store) Reconcile(layer string) {
	if s.renderer == nil {
		return
	}
	if layer == "" {
		layer = s.Current()
	}
	s.Layer(layer).Replace(s.renderer.Rendered(layer))
}

// ReloadConfig applies a changed layer list, default layer and toggle mode.
// The active layer survives if it is still configured. Marks on layers that
// were removed from the config are kept so they are not lost on save.
func (s *Store) ReloadConfig(names []string, def string, mode ToggleMode) {
	s.ring.Rebuild(names, def)
	if mode != "" {
		s.mode = mode
	}
	for _, name := range s.ring.Names() {
		s.Layer(name)
	}
	s.ChangeLayer(s.Current())
}

func (s *Store) render(layer string) {
	if s.renderer == nil || layer != s.Current() {
		return
	}
	s.renderer.Render(layer, s.Layer(layer).Intervals())
}
