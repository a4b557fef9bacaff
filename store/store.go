// Package store holds the cached tab entries and the order sequence that defines
// display and persistence order.
package store

import (
	"slices"
	"sort"
	"time"

	"github.com/krisalay/keepalive-tabs/expiration"
	"github.com/krisalay/keepalive-tabs/types"
)

// Meta is the presentation metadata written on every visit.
type Meta struct {
	Title string
	Icon  string
}

/*
Store is the in-memory table of tab entries (key -> entry) plus the ordered key
sequence.

Invariants kept by every method:
  - the order sequence has no duplicates
  - every key in the order sequence has an entry

An entry may exist without being in the order sequence (a reorder can drop it
from display while its cached state survives).

Store is not safe for concurrent use. All transitions of a tab manager run on one
logical thread.
*/
type Store struct {
	entries map[string]*types.TabEntry
	order   []string
	active  string
}

func New() *Store {
	return &Store{entries: make(map[string]*types.TabEntry)}
}

// Get retrieves an entry by key.
func (s *Store) Get(key string) (*types.TabEntry, bool) {
	ent, ok := s.entries[key]
	return ent, ok
}

/*
Upsert creates or refreshes the entry for key.

Create: CreatedAt = LastVisitedAt = now, Generation = 1.
Update: Title, Icon, LastVisitedAt and the deadline are refreshed; Generation and
Content are preserved.

Both paths run the expiration strategy's OnVisit. Upsert does not touch the order.
*/
func (s *Store) Upsert(key string, meta Meta, now time.Time, exp expiration.Strategy) (ent *types.TabEntry, created bool) {
	ent, ok := s.entries[key]
	if !ok {
		ent = &types.TabEntry{
			Key:        key,
			Path:       key,
			Generation: 1,
			CreatedAt:  now,
		}
		s.entries[key] = ent
		created = true
	}

	ent.Title = meta.Title
	ent.Icon = meta.Icon
	ent.LastVisitedAt = now
	ent.Visits++
	if exp != nil {
		exp.OnVisit(ent, now)
	}
	return ent, created
}

// Remove deletes the entry and its order position. The content reference is
// released with the entry.
func (s *Store) Remove(key string) (*types.TabEntry, bool) {
	ent, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	delete(s.entries, key)
	if i := s.IndexOf(key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	ent.Content = nil
	return ent, true
}

// SetActive records which key is live. Only the active entry accepts content.
func (s *Store) SetActive(key string) {
	s.active = key
}

// Active returns the live key.
func (s *Store) Active() string {
	return s.active
}

// TouchContent stores the current render for key. It is ignored unless key is
// the active key and has an entry.
func (s *Store) TouchContent(key string, v types.View) bool {
	if key != s.active {
		return false
	}
	ent, ok := s.entries[key]
	if !ok {
		return false
	}
	ent.Content = v
	return true
}

// BumpGeneration increments the cache-bust counter and returns the new value.
func (s *Store) BumpGeneration(key string) (int, bool) {
	ent, ok := s.entries[key]
	if !ok {
		return 0, false
	}
	ent.Generation++
	return ent.Generation, true
}

// Order returns a copy of the order sequence.
func (s *Store) Order() []string {
	return slices.Clone(s.order)
}

// Len is the length of the order sequence.
func (s *Store) Len() int {
	return len(s.order)
}

// Size is the number of entries, including entries not in the order.
func (s *Store) Size() int {
	return len(s.entries)
}

// IndexOf returns the order position of key, or -1.
func (s *Store) IndexOf(key string) int {
	return slices.Index(s.order, key)
}

// Contains reports whether key is in the order sequence.
func (s *Store) Contains(key string) bool {
	return s.IndexOf(key) >= 0
}

// Append adds key to the end of the order. It is a no-op when key is already
// ordered or has no entry.
func (s *Store) Append(key string) bool {
	if s.Contains(key) {
		return false
	}
	if _, ok := s.entries[key]; !ok {
		return false
	}
	s.order = append(s.order, key)
	return true
}

// SetOrder replaces the order sequence. Duplicates keep their first occurrence and
// keys without an entry are dropped. The resulting order is returned.
func (s *Store) SetOrder(keys []string) []string {
	next := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		if _, ok := s.entries[k]; !ok {
			continue
		}
		seen[k] = struct{}{}
		next = append(next, k)
	}
	s.order = next
	return slices.Clone(next)
}

// Entries returns every entry: ordered keys first in order, then unordered entries
// sorted by key. The result is deterministic.
func (s *Store) Entries() []*types.TabEntry {
	out := make([]*types.TabEntry, 0, len(s.entries))
	inOrder := make(map[string]struct{}, len(s.order))
	for _, k := range s.order {
		inOrder[k] = struct{}{}
		out = append(out, s.entries[k])
	}

	var rest []string
	for k := range s.entries {
		if _, ok := inOrder[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, s.entries[k])
	}
	return out
}

// Lookup adapts Get for the eviction package.
func (s *Store) Lookup(key string) (*types.TabEntry, bool) {
	return s.Get(key)
}
