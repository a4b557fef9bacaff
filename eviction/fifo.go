// This file implements FIFO ranking.

package eviction

import "github.com/krisalay/keepalive-tabs/types"

// fifo evicts the tab created first. Visits don't matter.
type fifo struct{}

func (fifo) Less(a, b *types.TabEntry) bool {
	return a.CreatedAt.Before(b.CreatedAt)
}
