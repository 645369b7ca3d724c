package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/bb/internal/bookmark"
	"github.com/raphi011/bb/internal/cache"
	"github.com/raphi011/bb/internal/config"
	"github.com/raphi011/bb/internal/log"
)

// Options configures Open.
type Options struct {
	// CacheDir overrides the directory resolved from config.
	CacheDir string
	// Renderer receives the active layer's marks. Optional.
	Renderer bookmark.Renderer
	// Text is the file content. Read from disk when nil; a missing file is
	// treated as an empty buffer.
	Text []byte
}

// Session holds the bookmark state of one source file.
type Session struct {
	path     string
	cfg      *config.Config
	cacheDir string
	text     []byte
	store    *bookmark.Store
	log      *log.Logger
}

// Open creates a session for path. Marks are not loaded; call OnLoad or Load.
func Open(ctx context.Context, cfg *config.Config, path string, opts Options) (*Session, error) {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	abs, err := cache.NormalizePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	text := opts.Text
	if text == nil {
		text, err = readSource(abs)
		if err != nil {
			return nil, err
		}
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir, err = cfg.ResolveCacheDir()
		if err != nil {
			return nil, err
		}
	}

	lines := bookmark.NewLineIndex(text)
	s := &Session{
		path:     abs,
		cfg:      cfg,
		cacheDir: cacheDir,
		text:     text,
		log:      log.FromContext(ctx),
		store: bookmark.NewStore(bookmark.Options{
			Layers:       cfg.LayerNames(),
			DefaultLayer: cfg.DefaultLayer,
			Mode:         cfg.Mode(),
			Lines:        lines,
		}),
	}
	if opts.Renderer != nil {
		s.store.SetRenderer(opts.Renderer)
	}
	return s, nil
}

func readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return os.ReadFile(path)
}

// Path returns the absolute source path.
func (s *Session) Path() string { return s.path }

// Config returns the effective configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// CacheDir returns the directory records are stored in.
func (s *Session) CacheDir() string { return s.cacheDir }

// Text returns the file content the session was opened with.
func (s *Session) Text() []byte { return s.text }

// Store returns the underlying store.
func (s *Session) Store() *bookmark.Store { return s.store }

// Lines returns the line index of the file.
func (s *Session) Lines() *bookmark.LineIndex { return s.store.Lines() }

// Current returns the active layer.
func (s *Session) Current() string { return s.store.Current() }

// Ignored reports whether the file matches an ignore pattern and is never
// cached.
func (s *Session) Ignored() bool { return s.cfg.IsIgnored(s.path) }

// MarkLine toggles a mark over a 0-based line on layer (current if empty).
// Returns true if a mark was added.
func (s *Session) MarkLine(line int, layer string) bool {
	return s.store.MarkLine(line, s.resolveLayer(layer))
}

// MarkRegion toggles iv on layer (current if empty).
func (s *Session) MarkRegion(iv bookmark.Interval, layer string) bool {
	return s.store.Mark(iv, s.resolveLayer(layer))
}

// ClearMarks empties layer (current if empty).
func (s *Session) ClearMarks(layer string) {
	s.store.Clear(s.resolveLayer(layer))
}

// ClearAll empties every layer.
func (s *Session) ClearAll() {
	s.store.ClearAll()
}

// SwapLayer moves to the "next" or "prev" layer. Any other direction
// returns an error wrapping bookmark.ErrInvalidDirection and leaves the
// active layer unchanged.
func (s *Session) SwapLayer(direction string) (string, error) {
	dir, err := bookmark.ParseDirection(direction)
	if err != nil {
		return s.store.Current(), err
	}
	name, err := s.store.Swap(dir)
	if err != nil {
		return name, err
	}
	s.log.Debugf("Swapped to layer %s for %s", name, s.path)
	return name, nil
}

// ChangeLayer activates name. Unknown layers are created.
func (s *Session) ChangeLayer(name string) {
	s.store.ChangeLayer(s.resolveLayer(name))
}

// ReloadConfig applies a changed configuration to the open session.
func (s *Session) ReloadConfig(cfg *config.Config) {
	s.cfg = cfg
	s.store.ReloadConfig(cfg.LayerNames(), cfg.DefaultLayer, cfg.Mode())
}

// resolveLayer returns name, noting in verbose mode when it is not a
// configured layer and which configured layer it resembles.
func (s *Session) resolveLayer(name string) string {
	if name == "" || s.store.HasLayer(name) {
		return name
	}
	s.log.Debugf("Creating layer %s for %s", name, s.path)
	if hint := suggestLayer(name, s.cfg.LayerNames()); hint != "" {
		s.log.Debugf("Did you mean %s?", hint)
	}
	return name
}

// suggestLayer returns the configured name that best matches name.
func suggestLayer(name string, names []string) string {
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
