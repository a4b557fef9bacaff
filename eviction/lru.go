// This file implements LRU ranking.

package eviction

import "github.com/krisalay/keepalive-tabs/types"

// lru evicts the tab that has not been visited for the longest time.
type lru struct{}

func (lru) Less(a, b *types.TabEntry) bool {
	return a.LastVisitedAt.Before(b.LastVisitedAt)
}
