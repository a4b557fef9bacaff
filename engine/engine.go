package engine

import (
	"time"

	"github.com/krisalay/keepalive-tabs/eviction"
	"github.com/krisalay/keepalive-tabs/expiration"
	"github.com/krisalay/keepalive-tabs/store"
	"github.com/krisalay/keepalive-tabs/types"
)

/*
Engine is the eviction engine of the tab manager.
It decides which entries leave the cache and removes them from the store. It does
NOT decide when a sweep runs; the manager orders the sweeps.

The capacity sweep spares the store's active key. The TTL sweep spares only the key
its caller names.
*/
type Engine struct {
	// Metrics counts expirations and evictions. Never nil.
	Metrics types.Metrics
}

// NewEngine creates an Engine.
func NewEngine(metrics types.Metrics) *Engine {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	return &Engine{Metrics: metrics}
}

/*
SweepTTL removes every entry whose deadline is set and not after now, from both the
order and the table, except spare. Entries that are not in the order sequence are
swept too. An empty spare spares nothing.

The removed entries are returned in store order so notifications are deterministic.
*/
func (e *Engine) SweepTTL(st *store.Store, now time.Time, spare string) []*types.TabEntry {
	stale := expiration.Expired(st.Entries(), now)

	var removed []*types.TabEntry
	for _, ent := range stale {
		if spare != "" && ent.Key == spare {
			continue
		}
		if r, ok := st.Remove(ent.Key); ok {
			e.Metrics.Expire()
			removed = append(removed, r)
		}
	}
	return removed
}

/*
SweepCapacity enforces the policy's capacity on the order sequence using the
policy's strategy. It runs after the active key has been upserted and appended.
When only the active key could be removed, nothing is removed.
*/
func (e *Engine) SweepCapacity(st *store.Store, p types.Policy) []*types.TabEntry {
	if !p.Bounded() {
		return nil
	}

	victims := eviction.SelectVictims(
		st.Order(),
		st.Active(),
		p.Capacity,
		st.Lookup,
		eviction.NewEvictionPolicy(p.Strategy),
	)

	var removed []*types.TabEntry
	for _, k := range victims {
		if r, ok := st.Remove(k); ok {
			e.Metrics.Eviction()
			removed = append(removed, r)
		}
	}
	return removed
}
