package session

import (
	"errors"

	"github.com/raphi011/bb/internal/cache"
)

// OnLoad restores cached marks when autoload is enabled.
func (s *Session) OnLoad() {
	if !s.cfg.Autoload {
		return
	}
	s.Load()
}

// OnSave writes the record when autosave is enabled and there are marks.
func (s *Session) OnSave() {
	if !s.cfg.Autosave {
		return
	}
	s.saveIfMarked()
}

// OnClose writes the record when cache_on_close is enabled and removes it
// when cleanup_on_close is enabled and no marks are left.
func (s *Session) OnClose() {
	if s.cfg.CacheOnClose {
		s.saveIfMarked()
	}
	if s.cfg.CleanupOnClose && s.store.IsEmpty() {
		s.Remove()
	}
}

// Load replaces the marks with the cached record. A missing or unreadable
// record leaves the store empty on the default layer. The saved active layer
// is restored even when it is not configured; ChangeLayer adds it to the ring.
func (s *Session) Load() {
	if s.Ignored() {
		s.log.Debugf("Ignoring %s", s.path)
		return
	}

	s.log.Debugf("Loading BBFile for %s", s.path)
	rec, err := cache.Load(s.cacheDir, s.path)
	if err != nil {
		if !errors.Is(err, cache.ErrUnreadable) {
			s.log.Warnf("load marks for %s: %v", s.path, err)
		} else {
			s.log.Debugf("No marks for %s: %v", s.path, err)
		}
		s.store.Load(nil)
		s.store.ChangeLayer(s.cfg.DefaultLayer)
		return
	}

	s.store.Load(rec.Intervals())
	layer := s.cfg.DefaultLayer
	if rec.Current != "" {
		layer = rec.Current
	}
	s.store.ChangeLayer(layer)
}

// Record returns the current state as a cache record.
func (s *Session) Record() *cache.Record {
	return cache.NewRecord(s.path, s.store.Current(), s.store.Save(s.cfg.SaveEmptyLayers))
}

// Save writes the record unconditionally. Failures wrap cache.ErrUnwritable.
func (s *Session) Save() error {
	if s.Ignored() {
		s.log.Debugf("Ignoring %s", s.path)
		return nil
	}
	s.log.Debugf("Saving BBFile for %s", s.path)
	return cache.Save(s.cacheDir, s.Record())
}

// Remove deletes the record. Failures are logged.
func (s *Session) Remove() {
	if !cache.Exists(s.cacheDir, s.path) {
		return
	}
	s.log.Debugf("Removing BBFile for %s", s.path)
	if err := cache.Remove(s.cacheDir, s.path); err != nil {
		s.log.Warnf("%v", err)
	}
}

// Persist stores the result of a command. The record is written when there
// are marks or the active layer is not the default one, so a layer change
// survives on an unmarked file. An empty record on the default layer is
// removed if cleanup_on_close is set, and otherwise an existing record is
// overwritten so cleared marks stay cleared.
func (s *Session) Persist() {
	switch {
	case !s.store.IsEmpty() || !s.onDefaultLayer():
		s.save()
	case s.cfg.CleanupOnClose:
		s.Remove()
	case cache.Exists(s.cacheDir, s.path):
		s.save()
	}
}

// onDefaultLayer reports whether the active layer is the one a load without
// a record would activate.
func (s *Session) onDefaultLayer() bool {
	def := s.cfg.DefaultLayer
	if def == "" {
		if names := s.cfg.LayerNames(); len(names) > 0 {
			def = names[0]
		}
	}
	return def == "" || s.store.Current() == def
}

func (s *Session) save() {
	if err := s.Save(); err != nil {
		s.log.Warnf("%v", err)
	}
}

func (s *Session) saveIfMarked() {
	if s.store.IsEmpty() {
		return
	}
	s.save()
}
