// Package bookmark holds the in-memory bookmark model for a single file.
//
// A [Store] maps layer names to an [IntervalSet] of marked spans. Layers are
// cycled through a [Ring], and marks are toggled rather than added: marking
// an already marked line (or region, depending on [ToggleMode]) removes it.
//
// # Toggle Modes
//
//   - ByLine: two marks are the same if they start on the same line.
//   - ByRegion: two marks are the same if their normalized offsets match.
//
// Intervals are normalized on construction, so a reversed selection (5,2)
// is the same mark as (2,5).
//
// # Rendering
//
// The store pushes the active layer's marks to a [Renderer] after every
// change to that layer, and can read back what the renderer shows via
// [Store.Reconcile] when marks were edited outside the store.
//
// The package does no I/O. Persistence lives in the cache package and
// lifecycle handling in the session package.
package bookmark
