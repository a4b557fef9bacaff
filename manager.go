package keepalive

import (
	"slices"
	"time"

	"github.com/krisalay/keepalive-tabs/engine"
	"github.com/krisalay/keepalive-tabs/expiration"
	"github.com/krisalay/keepalive-tabs/policy"
	"github.com/krisalay/keepalive-tabs/route"
	"github.com/krisalay/keepalive-tabs/store"
	"github.com/krisalay/keepalive-tabs/types"
)

// DefaultRootPath is where the shell goes when no tab is left to show.
const DefaultRootPath = "/"

/*
Manager is the tab/cache lifecycle state machine.
It connects:
- the route resolver and the policy normalizer (which policy governs a path)
- the tab store (entries + order sequence)
- the eviction engine (TTL and capacity sweeps)

Every event method runs one transition to completion and returns its Effects.
Manager performs no I/O: persistence, navigation and callbacks are the caller's
job (see Shell). Operations on unknown keys are no-ops, never errors.

Manager is not safe for concurrent use.
*/
type Manager struct {
	resolver *route.Resolver
	store    *store.Store
	engine   *engine.Engine
	metrics  types.Metrics
	now      func() time.Time
	rootPath string

	location types.Location
	policy   types.Policy
	active   string

	// current is the latest render of the active location. Entries only keep
	// the content they had when they stopped being active.
	current types.View
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerClock replaces time.Now.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithManagerMetrics sets the metrics sink.
func WithManagerMetrics(metrics types.Metrics) ManagerOption {
	return func(m *Manager) { m.metrics = metrics }
}

// WithManagerRootPath sets the fallback redirect target.
func WithManagerRootPath(p string) ManagerOption {
	return func(m *Manager) { m.rootPath = p }
}

// NewManager creates a Manager. A nil resolver treats every path as unmatched.
func NewManager(resolver *route.Resolver, opts ...ManagerOption) *Manager {
	m := &Manager{
		resolver: resolver,
		store:    store.New(),
		now:      time.Now,
		rootPath: DefaultRootPath,
		policy:   types.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = types.NoopMetrics{}
	}
	m.engine = engine.NewEngine(m.metrics)
	return m
}

/*
Restore seeds the manager from a saved order and lands on the initial location.
It must run once, before any other event.

Saved keys are lower-cased, de-duplicated and stripped of empties. Keys whose route
has keep-alive disabled are dropped. The resulting order (saved keys, then the
initial key when new) is always persisted.
*/
func (m *Manager) Restore(saved []string, loc types.Location, view types.View) Effects {
	now := m.now()

	seen := make(map[string]struct{}, len(saved))
	for _, raw := range saved {
		key := route.Normalize(raw)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		desc := m.resolve(route.ParseLocation(key).Path)
		if !policy.For(desc).Enabled {
			continue
		}
		m.store.Upsert(key, meta(desc, key), now, expiration.Never{})
		m.store.Append(key)
	}

	fx := m.navigate(loc, view, now)
	fx.Persist = m.store.Order()
	return fx
}

// Navigate is the navigation event.
func (m *Manager) Navigate(loc types.Location, view types.View) Effects {
	return m.navigate(loc, view, m.now())
}

/*
navigate runs one navigation tick.

Steps:
------
1. Resolve the policy. A disabled policy bypasses the cache entirely
2. TTL sweep over every entry, the outgoing one included
3. Upsert the entry of the new key and append it to the order
4. Capacity sweep (spares the new active key)
5. Attach the current render to the active entry
6. Report the final order if it changed
*/
func (m *Manager) navigate(loc types.Location, view types.View, now time.Time) Effects {
	desc := m.resolve(loc.Path)
	pol := policy.For(desc)
	key := route.CacheKey(loc, pol.ReuseKey)

	m.location = loc
	m.policy = pol
	m.current = view

	if !pol.Enabled {
		m.active = key
		m.store.SetActive(key)
		return Effects{}
	}

	var fx Effects
	before := m.store.Order()

	for _, ent := range m.engine.SweepTTL(m.store, now, "") {
		fx.close(ent, ReasonTTL)
	}

	m.active = key
	m.store.SetActive(key)

	ent, created := m.store.Upsert(key, meta(desc, key), now, expiration.For(pol.TTL))
	if created {
		m.metrics.Miss()
		fx.open(ent)
	} else {
		m.metrics.Hit()
	}
	m.store.Append(key)

	for _, ent := range m.engine.SweepCapacity(m.store, pol) {
		fx.close(ent, ReasonCapacity)
	}

	m.store.TouchContent(key, view)

	if order := m.store.Order(); !slices.Equal(before, order) {
		fx.Persist = order
	}
	return fx
}

// Render replaces the current render of the active location without navigating.
func (m *Manager) Render(view types.View) {
	m.current = view
	m.store.TouchContent(m.active, view)
}

// Expire is the lazy or periodic TTL check. Only the TTL sweep runs, and the
// displayed tab is spared.
func (m *Manager) Expire() Effects {
	var fx Effects
	before := m.store.Order()
	for _, ent := range m.engine.SweepTTL(m.store, m.now(), m.store.Active()) {
		fx.close(ent, ReasonTTL)
	}
	if order := m.store.Order(); !slices.Equal(before, order) {
		fx.Persist = order
	}
	return fx
}

/*
CloseTab removes one tab.

It is refused when the tab is not in the order or is the only tab left. When the
closed tab was active the shell is redirected to the new last tab.
*/
func (m *Manager) CloseTab(path string) Effects {
	target := route.Normalize(path)
	if !m.store.Contains(target) || m.store.Len() <= 1 {
		return Effects{}
	}

	var fx Effects
	ent, _ := m.store.Remove(target)
	m.metrics.Close()
	fx.close(ent, ReasonClosed)
	fx.Persist = m.store.Order()

	if target == m.active {
		fx.Redirect = &Redirect{Path: m.lastOrRoot(fx.Persist), Replace: true}
	}
	return fx
}

// RefreshTab bumps the generation of a tab. Order, membership and persistence are
// untouched.
func (m *Manager) RefreshTab(path string) Effects {
	target := route.Normalize(path)
	gen, ok := m.store.BumpGeneration(target)
	if !ok {
		return Effects{}
	}
	m.metrics.Refresh()
	return Effects{Refresh: &Refresh{Path: target, Generation: gen}}
}

/*
ReorderTabs replaces the order sequence.

Keys are lower-cased and de-duplicated (first occurrence wins); keys without an entry
are dropped. An empty result is a no-op. Keys left out of the new order keep their
entries; they just stop being displayed.
*/
func (m *Manager) ReorderTabs(keys []string) Effects {
	next := m.existing(keys)
	if len(next) == 0 {
		return Effects{}
	}
	return Effects{Persist: m.store.SetOrder(next)}
}

// DropOtherTabs keeps only the target tab.
func (m *Manager) DropOtherTabs(path string) Effects {
	target := route.Normalize(path)
	if _, ok := m.store.Get(target); !ok {
		return Effects{}
	}
	return m.keepOnly([]string{target}, target)
}

// DropLeftTabs closes every tab before the target.
func (m *Manager) DropLeftTabs(path string) Effects {
	target := route.Normalize(path)
	idx := m.store.IndexOf(target)
	if idx < 0 {
		return Effects{}
	}
	return m.keepOnly(m.store.Order()[idx:], target)
}

// DropRightTabs closes every tab after the target.
func (m *Manager) DropRightTabs(path string) Effects {
	target := route.Normalize(path)
	idx := m.store.IndexOf(target)
	if idx < 0 {
		return Effects{}
	}
	return m.keepOnly(m.store.Order()[:idx+1], target)
}

/*
keepOnly is the shared range close. Every entry outside keep is removed, including
entries that were no longer displayed. If that would leave nothing, the active tab
is kept. When the active tab had an entry and is gone afterwards, the shell is
redirected to target, even if a reorder had already hidden it.
*/
func (m *Manager) keepOnly(keep []string, target string) Effects {
	final := m.existing(keep)
	if len(final) == 0 {
		if _, ok := m.store.Get(m.active); !ok {
			return Effects{}
		}
		final = []string{m.active}
	}

	_, hadEntry := m.store.Get(m.active)
	kept := make(map[string]struct{}, len(final))
	for _, k := range final {
		kept[k] = struct{}{}
	}

	var fx Effects
	for _, ent := range m.store.Entries() {
		if _, ok := kept[ent.Key]; ok {
			continue
		}
		removed, _ := m.store.Remove(ent.Key)
		m.metrics.Close()
		fx.close(removed, ReasonDropped)
	}
	fx.Persist = m.store.SetOrder(final)

	if hadEntry && !slices.Contains(fx.Persist, m.active) {
		next := target
		if !slices.Contains(fx.Persist, next) {
			next = m.lastOrRoot(fx.Persist)
		}
		fx.Redirect = &Redirect{Path: next, Replace: true}
	}
	return fx
}

// existing normalizes keys, de-duplicates them and drops keys without an entry.
func (m *Manager) existing(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, raw := range keys {
		k := route.Normalize(raw)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := m.store.Get(k); ok {
			out = append(out, k)
		}
	}
	return out
}

func (m *Manager) lastOrRoot(order []string) string {
	if n := len(order); n > 0 {
		return order[n-1]
	}
	return m.rootPath
}

func (m *Manager) resolve(path string) *types.RouteDescriptor {
	if m.resolver == nil {
		return nil
	}
	desc, ok := m.resolver.Resolve(path)
	if !ok {
		return nil
	}
	return desc
}

// meta picks the display metadata; unmatched paths are titled with their key.
func meta(desc *types.RouteDescriptor, key string) store.Meta {
	if desc == nil || desc.Name == "" {
		var icon string
		if desc != nil {
			icon = desc.Icon
		}
		return store.Meta{Title: key, Icon: icon}
	}
	return store.Meta{Title: desc.Name, Icon: desc.Icon}
}
