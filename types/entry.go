package types

import "time"

// View is an opaque handle to the externally rendered content of a route.
// The cache never inspects or copies it; it only keeps or drops the reference.
type View any

/*
TabEntry is the cached record for one CacheKey.

An entry is created the first time its key becomes active under an enabled policy
and lives until it is evicted (TTL, capacity, explicit close or range close).
Navigating away does NOT remove it, which is the whole point of the cache.
*/
type TabEntry struct {
	// Key is the canonical cache key (lower-cased path, optionally with query).
	Key string

	// Path is the display path of the tab. It equals Key.
	Path string

	// Title and Icon are presentation metadata, refreshed on every revisit.
	Title string
	Icon  string

	// Content is the retained render of this route. It is only replaced while
	// the entry is the active one.
	Content View

	// Generation is bumped by an explicit refresh so the presentation layer can
	// remount Content without losing the cache slot. Starts at 1.
	Generation int

	// Visits counts navigations to this entry. Used by the LFU strategy.
	Visits int

	CreatedAt     time.Time
	LastVisitedAt time.Time
	ExpireAt      time.Time // zero => no TTL
}

// Lifecycle returns the payload reported to open/close callbacks.
func (e *TabEntry) Lifecycle() Lifecycle {
	return Lifecycle{Path: e.Path, Title: e.Title}
}
