// This file implements LFU ranking.

package eviction

import "github.com/krisalay/keepalive-tabs/types"

// lfu evicts the tab visited the fewest times. Tabs with the same visit count
// fall back to LRU.
type lfu struct{}

func (lfu) Less(a, b *types.TabEntry) bool {
	if a.Visits != b.Visits {
		return a.Visits < b.Visits
	}
	return lru{}.Less(a, b)
}
