// Package session binds a bookmark store to one source file for the length
// of a host interaction.
//
// A Session plays the part of the editor view: it owns the file's marks,
// its effective configuration and its cache directory. The lifecycle hooks
// (OnLoad, OnSave, OnClose) apply the autoload, autosave, cache_on_close and
// cleanup_on_close policies. Cache failures never abort a hook: unreadable
// records become empty state and unwritable ones are logged as warnings.
package session
