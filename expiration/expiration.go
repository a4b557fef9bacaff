// This file defines how tab entries expire over time.

package expiration

import (
	"time"

	"github.com/krisalay/keepalive-tabs/types"
)

/*
Strategy is the interface that all expiration rules must follow. The tab store calls
OnVisit on every navigation to an entry; the TTL sweep asks IsExpired.
*/
type Strategy interface {

	// IsExpired checks if the entry is expired at now.
	IsExpired(*types.TabEntry, time.Time) bool

	// OnVisit is called whenever navigation lands on the entry, new or cached.
	OnVisit(*types.TabEntry, time.Time)
}

// For returns the strategy for a policy TTL. Zero means entries never expire.
func For(ttl time.Duration) Strategy {
	if ttl <= 0 {
		return Never{}
	}
	return &ExpireAfterVisit{TTL: ttl}
}

// Expired returns, in input order, the entries whose deadline is set and has passed.
func Expired(entries []*types.TabEntry, now time.Time) []*types.TabEntry {
	var out []*types.TabEntry
	for _, ent := range entries {
		if isPastDeadline(ent, now) {
			out = append(out, ent)
		}
	}
	return out
}

// A deadline equal to now counts as expired.
func isPastDeadline(ent *types.TabEntry, now time.Time) bool {
	return !ent.ExpireAt.IsZero() && !now.Before(ent.ExpireAt)
}
