// Package cache persists bookmark records, one JSON file per source file.
//
// Records live in the cache directory (default ~/.bb/cache) and are named
// after a SHA-256 hash of the source file's absolute path, so special
// characters and path separators never leak into file names:
//
//	~/.bb/cache/3f1c…e9.json
//
// # Record Format
//
//	{
//	  "version": 1,
//	  "filename": "/home/me/src/main.go",
//	  "current": "bug",
//	  "saved_at": "2026-10-19T09:12:44Z",
//	  "marks": {
//	    "bug":  [[10, 15], [120, 144]],
//	    "todo": []
//	  }
//	}
//
// Each mark is a [start, end] pair of byte offsets. The order of marks in a
// layer is preserved.
//
// Records without a "version" key are read as the legacy flat layout
// ({"layer": [[a, b], ...], "filename": "..."}) where marks may also be
// tagged region objects ({"__type__": "...", "a": 1, "b": 2}).
//
// # Failure Handling
//
// A missing, malformed or foreign record yields [ErrUnreadable]. Callers
// treat it as "no prior state". Write failures wrap [ErrUnwritable] so the
// caller can log them without aborting. A record from a newer schema
// version also wraps [ErrNewerVersion]; [Prune] keeps such records.
//
// # Concurrency
//
// Use [Lock] around read-modify-write cycles. The lock is a flock on
// .bb-cache.lock inside the cache directory.
package cache
