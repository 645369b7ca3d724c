package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/bb/internal/bookmark"
	"github.com/raphi011/bb/internal/cache"
	"github.com/raphi011/bb/internal/config"
	"github.com/raphi011/bb/internal/log"
)

// Line 0 is [0:10], line 1 is [11:23], line 2 is [24:32].
const source = "package bb\n// a comment\nfunc f()\n"

type fixture struct {
	cfg      *config.Config
	cacheDir string
	path     string
	logs     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Layers = []config.Layer{{Name: "bug"}, {Name: "todo"}}
	cfg.DefaultLayer = "bug"
	return &fixture{
		cfg:      &cfg,
		cacheDir: t.TempDir(),
		path:     filepath.Join(t.TempDir(), "main.go"),
		logs:     &bytes.Buffer{},
	}
}

func (f *fixture) open(t *testing.T) *Session {
	t.Helper()
	ctx := log.WithLogger(context.Background(), log.New(f.logs, true, false))
	s, err := Open(ctx, f.cfg, f.path, Options{CacheDir: f.cacheDir, Text: []byte(source)})
	require.NoError(t, err)
	return s
}

func TestOpen(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	assert.Equal(t, f.path, s.Path())
	assert.Equal(t, "bug", s.Current())
	assert.Equal(t, 4, s.Lines().LineCount())
	assert.True(t, s.Store().IsEmpty())
}

func TestOpen_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	cfg := config.Default()
	s, err := Open(context.Background(), &cfg, path, Options{CacheDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(s.Text()))

	missing, err := Open(context.Background(), &cfg, filepath.Join(dir, "new.txt"), Options{CacheDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, missing.Text())

	_, err = Open(context.Background(), &cfg, dir, Options{CacheDir: t.TempDir()})
	assert.Error(t, err)
}

func TestPersistAndLoad_RoundTrip(t *testing.T) {
	f := newFixture(t)

	s := f.open(t)
	assert.True(t, s.MarkLine(1, ""))
	s.MarkRegion(bookmark.NewInterval(33, 28), "todo")
	_, err := s.SwapLayer("next")
	require.NoError(t, err)
	s.Persist()
	require.True(t, cache.Exists(f.cacheDir, f.path))

	reopened := f.open(t)
	reopened.Load()

	assert.Equal(t, "todo", reopened.Current())
	assert.Equal(t, []bookmark.Interval{{Start: 11, End: 23}}, reopened.Store().Layer("bug").Intervals())
	assert.Equal(t, []bookmark.Interval{{Start: 28, End: 33}}, reopened.Store().Layer("todo").Intervals())
	assert.Contains(t, f.logs.String(), "[bb] Loading BBFile for "+f.path)
}

func TestLoad_RestoresUnconfiguredLayer(t *testing.T) {
	f := newFixture(t)
	rec := cache.NewRecord(f.path, "scratch", map[string][]bookmark.Interval{
		"scratch": {{Start: 0, End: 3}},
	})
	require.NoError(t, cache.Save(f.cacheDir, rec))

	s := f.open(t)
	s.Load()

	assert.Equal(t, "scratch", s.Current())
	assert.Equal(t, []string{"bug", "todo", "scratch"}, s.Store().Ring().Names())
	assert.Equal(t, []bookmark.Interval{{Start: 0, End: 3}}, s.Store().Layer("scratch").Intervals())
}

func TestLoad_EmptyCurrentUsesDefault(t *testing.T) {
	f := newFixture(t)
	rec := cache.NewRecord(f.path, "", map[string][]bookmark.Interval{
		"todo": {{Start: 0, End: 3}},
	})
	require.NoError(t, cache.Save(f.cacheDir, rec))

	s := f.open(t)
	s.Load()

	assert.Equal(t, "bug", s.Current())
}

func TestLoad_UnreadableIsEmptyState(t *testing.T) {
	f := newFixture(t)
	path, err := cache.Path(f.cacheDir, f.path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := f.open(t)
	s.MarkLine(0, "")
	s.Load()

	assert.True(t, s.Store().IsEmpty())
	assert.Equal(t, "bug", s.Current())
	assert.Contains(t, f.logs.String(), "[bb] No marks for")
	assert.NotContains(t, f.logs.String(), "warning:")
}

func TestLoad_LegacyRecord(t *testing.T) {
	f := newFixture(t)
	path, err := cache.Path(f.cacheDir, f.path)
	require.NoError(t, err)
	legacy := `{"bug": [[15, 12]], "todo": [{"__type__": "region", "a": 28, "b": 36}], "filename": "` + f.path + `"}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s := f.open(t)
	s.Load()

	assert.Equal(t, []bookmark.Interval{{Start: 12, End: 15}}, s.Store().Layer("bug").Intervals())
	assert.Equal(t, []bookmark.Interval{{Start: 28, End: 36}}, s.Store().Layer("todo").Intervals())
}

func TestOnLoad_Autoload(t *testing.T) {
	f := newFixture(t)
	seed := f.open(t)
	seed.MarkLine(0, "")
	require.NoError(t, seed.Save())

	f.cfg.Autoload = false
	s := f.open(t)
	s.OnLoad()
	assert.True(t, s.Store().IsEmpty())

	f.cfg.Autoload = true
	s = f.open(t)
	s.OnLoad()
	assert.Equal(t, 1, s.Store().Count())
}

func TestOnSave(t *testing.T) {
	tests := []struct {
		name     string
		autosave bool
		mark     bool
		want     bool
	}{
		{"autosave with marks", true, true, true},
		{"autosave without marks", true, false, false},
		{"autosave disabled", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cfg.Autosave = tt.autosave

			s := f.open(t)
			if tt.mark {
				s.MarkLine(2, "")
			}
			s.OnSave()

			assert.Equal(t, tt.want, cache.Exists(f.cacheDir, f.path))
		})
	}
}

func TestOnClose(t *testing.T) {
	t.Run("cleanup removes record once empty", func(t *testing.T) {
		f := newFixture(t)
		s := f.open(t)
		s.MarkLine(0, "")
		require.NoError(t, s.Save())

		s.ClearAll()
		s.OnClose()

		assert.False(t, cache.Exists(f.cacheDir, f.path))
		assert.Contains(t, f.logs.String(), "[bb] Removing BBFile for")
	})

	t.Run("cleanup keeps record with marks", func(t *testing.T) {
		f := newFixture(t)
		s := f.open(t)
		s.MarkLine(0, "")
		require.NoError(t, s.Save())

		s.OnClose()

		assert.True(t, cache.Exists(f.cacheDir, f.path))
	})

	t.Run("cache on close writes marks", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.CacheOnClose = true
		s := f.open(t)
		s.MarkLine(0, "todo")

		s.OnClose()

		rec, err := cache.Load(f.cacheDir, f.path)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"todo": 1}, rec.Counts())
	})

	t.Run("no cleanup leaves record", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.CleanupOnClose = false
		s := f.open(t)
		s.MarkLine(0, "")
		require.NoError(t, s.Save())

		s.ClearAll()
		s.OnClose()

		assert.True(t, cache.Exists(f.cacheDir, f.path))
	})
}

func TestPersist_ClearedMarksStayCleared(t *testing.T) {
	f := newFixture(t)
	f.cfg.CleanupOnClose = false

	s := f.open(t)
	s.MarkLine(0, "")
	s.Persist()

	s = f.open(t)
	s.Load()
	s.ClearMarks("")
	s.Persist()

	reopened := f.open(t)
	reopened.Load()
	assert.True(t, reopened.Store().IsEmpty())
}

func TestPersist_KeepsLayerWithoutMarks(t *testing.T) {
	f := newFixture(t)

	// mark twice, swap, save: the active layer outlives the marks
	s := f.open(t)
	s.Load()
	assert.True(t, s.MarkRegion(bookmark.NewInterval(10, 15), ""))
	assert.False(t, s.MarkRegion(bookmark.NewInterval(10, 15), ""))
	_, err := s.SwapLayer("next")
	require.NoError(t, err)
	s.Persist()

	reopened := f.open(t)
	reopened.Load()
	assert.Equal(t, "todo", reopened.Current())
	assert.True(t, reopened.Store().IsEmpty())

	// back on the default layer the empty record is cleaned up
	_, err = reopened.SwapLayer("prev")
	require.NoError(t, err)
	reopened.Persist()
	assert.False(t, cache.Exists(f.cacheDir, f.path))
}

func TestSave_Unwritable(t *testing.T) {
	f := newFixture(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	f.cacheDir = filepath.Join(blocker, "cache")

	s := f.open(t)
	s.MarkLine(0, "")

	err := s.Save()
	require.ErrorIs(t, err, cache.ErrUnwritable)

	// hooks log instead of failing
	s.OnSave()
	assert.Contains(t, f.logs.String(), "warning:")
}

func TestIgnoredFilesAreNotCached(t *testing.T) {
	f := newFixture(t)
	f.cfg.Ignore = []string{"*.go"}

	s := f.open(t)
	s.MarkLine(0, "")
	require.NoError(t, s.Save())
	s.OnSave()

	assert.False(t, cache.Exists(f.cacheDir, f.path))
	assert.Contains(t, f.logs.String(), "[bb] Ignoring")
}

func TestSwapLayer(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	name, err := s.SwapLayer("next")
	require.NoError(t, err)
	assert.Equal(t, "todo", name)

	name, err = s.SwapLayer("prev")
	require.NoError(t, err)
	assert.Equal(t, "bug", name)

	name, err = s.SwapLayer("sideways")
	require.ErrorIs(t, err, bookmark.ErrInvalidDirection)
	assert.Equal(t, "bug", name)
	assert.Equal(t, "bug", s.Current())
}

func TestUnknownLayerIsCreatedWithHint(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)

	s.ChangeLayer("tod")

	assert.Equal(t, "tod", s.Current())
	assert.Equal(t, []string{"bug", "todo", "tod"}, s.Store().Ring().Names())
	assert.Contains(t, f.logs.String(), "[bb] Did you mean todo?")
}

func TestClearMarks(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)
	s.MarkLine(0, "bug")
	s.MarkLine(1, "todo")

	s.ClearMarks("todo")
	assert.Equal(t, 1, s.Store().Count())

	s.ClearAll()
	assert.True(t, s.Store().IsEmpty())
	assert.Equal(t, "bug", s.Current())
}

func TestReloadConfig(t *testing.T) {
	f := newFixture(t)
	s := f.open(t)
	s.ChangeLayer("todo")

	cfg := config.Default()
	cfg.Layers = []config.Layer{{Name: "todo"}, {Name: "review"}}
	cfg.DefaultLayer = "review"
	cfg.ToggleMode = string(bookmark.ByRegion)
	s.ReloadConfig(&cfg)

	assert.Equal(t, "todo", s.Current())
	assert.Equal(t, bookmark.ByRegion, s.Store().Mode())
	assert.Equal(t, []string{"todo", "review"}, s.Store().Ring().Names())
	assert.Same(t, &cfg, s.Config())
}

func TestSuggestLayer(t *testing.T) {
	names := []string{"bookmarks", "todo", "bug"}

	assert.Equal(t, "todo", suggestLayer("tdo", names))
	assert.Equal(t, "bookmarks", suggestLayer("bkm", names))
	assert.Empty(t, suggestLayer("xyz", names))
}
