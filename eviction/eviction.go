package eviction

import (
	"slices"

	"github.com/krisalay/keepalive-tabs/types"
)

/*
This file defines how the tab manager decides which tabs to drop when a route's
capacity is exceeded.
*/

/*
Policy ranks entries for eviction. The capacity sweep does not care how a policy
orders entries; it only asks which of two entries should go first.
*/
type Policy interface {

	// Less reports whether a should be evicted before b.
	Less(a, b *types.TabEntry) bool
}

// NewEvictionPolicy is a small factory function.
// Unknown strategies fall back to LRU, matching the policy normalizer.
func NewEvictionPolicy(s types.Strategy) Policy {
	switch s {
	case types.FIFO:
		return fifo{}
	case types.LFU:
		return lfu{}
	default:
		return lru{}
	}
}

// Lookup returns the entry cached under a key.
type Lookup func(key string) (*types.TabEntry, bool)

/*
SelectVictims returns the keys the capacity sweep must remove, oldest first.

Steps:
------
1. Nothing to do unless the order holds more than capacity keys (capacity <= 0 is unbounded)
2. Candidates are the order keys except the active one
3. Candidates are stably sorted by the policy, so equal ranks keep order position
4. The first len(order)-capacity candidates are returned

The active key is never a candidate: a tab is never evicted by its own arrival,
even when that leaves the order over capacity.
*/
func SelectVictims(order []string, active string, capacity int, lookup Lookup, p Policy) []string {
	if capacity <= 0 || len(order) <= capacity {
		return nil
	}
	removeCount := len(order) - capacity

	type candidate struct {
		key string
		ent *types.TabEntry
	}
	candidates := make([]candidate, 0, len(order))
	for _, k := range order {
		if k == active {
			continue
		}
		ent, ok := lookup(k)
		if !ok {
			// Ranked as the oldest possible entry.
			ent = &types.TabEntry{Key: k}
		}
		candidates = append(candidates, candidate{key: k, ent: ent})
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case p.Less(a.ent, b.ent):
			return -1
		case p.Less(b.ent, a.ent):
			return 1
		default:
			return 0
		}
	})

	if removeCount > len(candidates) {
		removeCount = len(candidates)
	}
	victims := make([]string, 0, removeCount)
	for _, c := range candidates[:removeCount] {
		victims = append(victims, c.key)
	}
	return victims
}
