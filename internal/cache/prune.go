package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// pruneWorkers bounds the concurrent stat calls made by Prune.
const pruneWorkers = 8

// Entry describes one record file in the cache directory.
type Entry struct {
	Key      string         `json:"key" yaml:"key"`
	Path     string         `json:"path" yaml:"path"`                             // record file
	Filename string         `json:"filename,omitempty" yaml:"filename,omitempty"` // source file
	Current  string         `json:"current,omitempty" yaml:"current,omitempty"`
	SavedAt  time.Time      `json:"saved_at,omitzero" yaml:"saved_at,omitempty"`
	Counts   map[string]int `json:"counts,omitempty" yaml:"counts,omitempty"`
	Total    int            `json:"total" yaml:"total"`
	Err      error          `json:"-" yaml:"-"` // set when the record is unreadable
}

// List returns every record in dir sorted by source filename. Unreadable
// records are included with Err set. A missing dir yields no entries.
func List(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache dir: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, Ext) {
			continue
		}

		entry := Entry{
			Key:  strings.TrimSuffix(name, Ext),
			Path: filepath.Join(dir, name),
		}
		rec, err := readFile(entry.Path)
		if err != nil {
			entry.Err = err
		} else {
			entry.Filename = rec.Filename
			entry.Current = rec.Current
			entry.SavedAt = rec.SavedAt
			entry.Counts = rec.Counts()
			entry.Total = rec.Total()
		}
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := strings.Compare(a.Filename, b.Filename); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return entries, nil
}

// Stale reports whether an entry should be pruned: its record is unreadable
// or its absolute source file no longer exists. Records from a newer bb and
// records whose source is not an absolute path cannot be checked and are kept.
func (e Entry) Stale() (bool, error) {
	if errors.Is(e.Err, ErrNewerVersion) {
		return false, nil
	}
	if e.Err != nil {
		return true, nil
	}
	if !filepath.IsAbs(e.Filename) {
		return false, nil
	}
	if _, err := os.Stat(e.Filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// Prune removes stale records from dir and returns them.
// With dryRun set nothing is removed.
func Prune(ctx context.Context, dir string, dryRun bool) ([]Entry, error) {
	entries, err := List(dir)
	if err != nil {
		return nil, err
	}

	stale := make([]bool, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pruneWorkers)

	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			isStale, err := e.Stale()
			if err != nil {
				return fmt.Errorf("check %s: %w", e.Filename, err)
			}
			stale[i] = isStale
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pruned []Entry
	for i, e := range entries {
		if !stale[i] {
			continue
		}
		if !dryRun {
			if err := os.Remove(e.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return pruned, fmt.Errorf("%w: %w", ErrUnwritable, err)
			}
		}
		pruned = append(pruned, e)
	}
	return pruned, nil
}
