package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"github.com/raphi011/bb/internal/bookmark"
	"github.com/raphi011/bb/internal/storage"
)

// Version is the record schema written by this package.
const Version = 1

// Ext is the file extension of cache records.
const Ext = ".json"

var (
	// ErrUnreadable means there is no usable record: the file is missing,
	// malformed, from a newer schema, or belongs to another source file.
	ErrUnreadable = errors.New("cache record unreadable")

	// ErrUnwritable means a record could not be saved or removed.
	ErrUnwritable = errors.New("cache record unwritable")

	// ErrNewerVersion means a record was written by a newer bb. It is
	// unreadable here but must not be treated as garbage.
	ErrNewerVersion = errors.New("record version is newer than supported")
)

// Pair is an interval encoded as [start, end].
type Pair [2]int

// Record is the on-disk form of one file's bookmarks.
type Record struct {
	Version  int               `json:"version" yaml:"version"`
	Filename string            `json:"filename,omitempty" yaml:"filename,omitempty"` // absolute source path
	Current  string            `json:"current,omitempty" yaml:"current,omitempty"`   // active layer when saved
	SavedAt  time.Time         `json:"saved_at,omitzero" yaml:"saved_at,omitempty"`
	Marks    map[string][]Pair `json:"marks" yaml:"marks"`
}

// NewRecord builds a record from a store snapshot.
func NewRecord(filename, current string, marks map[string][]bookmark.Interval) *Record {
	rec := &Record{
		Version:  Version,
		Filename: filename,
		Current:  current,
		Marks:    make(map[string][]Pair, len(marks)),
	}
	for layer, ivs := range marks {
		pairs := make([]Pair, 0, len(ivs))
		for _, iv := range ivs {
			iv = iv.Normalize()
			pairs = append(pairs, Pair{iv.Start, iv.End})
		}
		rec.Marks[layer] = pairs
	}
	return rec
}

// Intervals converts the record's marks back into normalized intervals.
func (r *Record) Intervals() map[string][]bookmark.Interval {
	out := make(map[string][]bookmark.Interval, len(r.Marks))
	for layer, pairs := range r.Marks {
		ivs := make([]bookmark.Interval, 0, len(pairs))
		for _, p := range pairs {
			ivs = append(ivs, bookmark.NewInterval(p[0], p[1]))
		}
		out[layer] = ivs
	}
	return out
}

// Counts returns the number of marks per layer.
func (r *Record) Counts() map[string]int {
	out := make(map[string]int, len(r.Marks))
	for layer, pairs := range r.Marks {
		out[layer] = len(pairs)
	}
	return out
}

// Total returns the number of marks across all layers.
func (r *Record) Total() int {
	n := 0
	for _, pairs := range r.Marks {
		n += len(pairs)
	}
	return n
}

// NormalizePath returns the cleaned absolute form of path, the identity a
// record is keyed on.
func NormalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// Key returns the record key for a source file: the hex SHA-256 of its
// normalized absolute path.
func Key(path string) (string, error) {
	norm, err := NormalizePath(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:]), nil
}

// Path returns the record file for a source file inside dir.
func Path(dir, source string) (string, error) {
	key, err := Key(source)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, key+Ext), nil
}

// Load reads the record for source from dir.
// Every failure to produce a record for source wraps ErrUnreadable.
func Load(dir, source string) (*Record, error) {
	norm, err := NormalizePath(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	path, err := Path(dir, norm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	rec, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if filepath.IsAbs(rec.Filename) && rec.Filename != norm {
		return nil, fmt.Errorf("%w: %s belongs to %s", ErrUnreadable, path, rec.Filename)
	}
	if rec.Filename == "" {
		rec.Filename = norm
	}

	return rec, nil
}

func readFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	rec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	return rec, nil
}

// Decode parses a record in either the versioned or the legacy layout.
func Decode(data []byte) (*Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}

	if !gjson.GetBytes(data, "version").Exists() {
		return decodeLegacy(data)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Version > Version {
		return nil, fmt.Errorf("%w: %d > %d", ErrNewerVersion, rec.Version, Version)
	}
	if rec.Marks == nil {
		rec.Marks = make(map[string][]Pair)
	}
	for layer, pairs := range rec.Marks {
		for i, p := range pairs {
			iv := bookmark.NewInterval(p[0], p[1])
			rec.Marks[layer][i] = Pair{iv.Start, iv.End}
		}
	}
	return &rec, nil
}

// decodeLegacy reads the unversioned {"layer": [...], "filename": "..."}
// layout. Marks are [a, b] arrays or tagged objects carrying "a" and "b".
func decodeLegacy(data []byte) (*Record, error) {
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("record is not an object")
	}

	rec := &Record{Marks: make(map[string][]Pair)}
	var decodeErr error

	root.ForEach(func(key, value gjson.Result) bool {
		layer := key.String()
		if layer == "filename" {
			rec.Filename = value.String()
			return true
		}
		if !value.IsArray() {
			decodeErr = fmt.Errorf("layer %q: expected an array", layer)
			return false
		}

		pairs := []Pair{}
		for i, elem := range value.Array() {
			a, b, ok := legacyBounds(elem)
			if !ok {
				decodeErr = fmt.Errorf("layer %q: mark %d is not a region", layer, i)
				return false
			}
			iv := bookmark.NewInterval(a, b)
			pairs = append(pairs, Pair{iv.Start, iv.End})
		}
		rec.Marks[layer] = pairs
		return true
	})

	if decodeErr != nil {
		return nil, decodeErr
	}
	return rec, nil
}

func legacyBounds(elem gjson.Result) (int, int, bool) {
	var a, b gjson.Result
	switch {
	case elem.IsArray():
		parts := elem.Array()
		if len(parts) != 2 {
			return 0, 0, false
		}
		a, b = parts[0], parts[1]
	case elem.IsObject():
		a, b = elem.Get("a"), elem.Get("b")
	default:
		return 0, 0, false
	}
	if a.Type != gjson.Number || b.Type != gjson.Number {
		return 0, 0, false
	}
	return int(a.Int()), int(b.Int()), true
}

// Save writes rec atomically into dir, keyed by rec.Filename.
// Failures wrap ErrUnwritable.
func Save(dir string, rec *Record) error {
	if rec.Filename == "" {
		return fmt.Errorf("%w: record has no filename", ErrUnwritable)
	}
	path, err := Path(dir, rec.Filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnwritable, err)
	}

	rec.Version = Version
	rec.SavedAt = time.Now().UTC()
	if rec.Marks == nil {
		rec.Marks = make(map[string][]Pair)
	}

	if err := storage.SaveJSON(path, rec); err != nil {
		return fmt.Errorf("%w: %w", ErrUnwritable, err)
	}
	return nil
}

// Remove deletes the record for source. A missing record is not an error.
func Remove(dir, source string) error {
	path, err := Path(dir, source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnwritable, err)
	}
	if err := storage.Remove(path); err != nil {
		return fmt.Errorf("%w: %w", ErrUnwritable, err)
	}
	return nil
}

// Exists reports whether a record file is present for source.
func Exists(dir, source string) bool {
	path, err := Path(dir, source)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
