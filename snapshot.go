package keepalive

import (
	"github.com/krisalay/keepalive-tabs/route"
	"github.com/krisalay/keepalive-tabs/types"
)

// Tab is the display-only view of an entry: no content, safe to hand to a tab strip.
type Tab struct {
	Path       string
	TabKey     string
	Title      string
	Icon       string
	Closable   bool
	Generation int
}

// CachedView is what the presentation layer renders for one ordered key. Every
// cached view stays mounted; only the active one is visible. Generation is the
// remount key.
type CachedView struct {
	Key        string
	Path       string
	Generation int
	Content    types.View
	Active     bool
}

// ActivePath is the normalized path of the current location, without query.
func (m *Manager) ActivePath() string {
	return route.Normalize(m.location.Path)
}

// ActiveKey is the cache key of the current location.
func (m *Manager) ActiveKey() string {
	return m.active
}

// ActiveTabKey is the DOM-safe identifier of the active key.
func (m *Manager) ActiveTabKey() string {
	return route.TabKey(m.active)
}

// Enabled reports whether the current location is cached. When false the
// presentation layer renders the location directly.
func (m *Manager) Enabled() bool {
	return m.policy.Enabled
}

// Policy returns the policy of the current location.
func (m *Manager) Policy() types.Policy {
	return m.policy
}

// Order returns the order sequence.
func (m *Manager) Order() []string {
	return m.store.Order()
}

// Tabs returns the ordered tabs with content stripped.
func (m *Manager) Tabs() []Tab {
	order := m.store.Order()
	closable := len(order) > 1
	tabs := make([]Tab, 0, len(order))
	for _, k := range order {
		ent, ok := m.store.Get(k)
		if !ok {
			continue
		}
		tabs = append(tabs, Tab{
			Path:       ent.Path,
			TabKey:     route.TabKey(ent.Key),
			Title:      ent.Title,
			Icon:       ent.Icon,
			Closable:   closable,
			Generation: ent.Generation,
		})
	}
	return tabs
}

// Views returns the cached views in order. The active view carries the current
// render; the others carry what they retained.
func (m *Manager) Views() []CachedView {
	order := m.store.Order()
	views := make([]CachedView, 0, len(order))
	for _, k := range order {
		ent, ok := m.store.Get(k)
		if !ok {
			continue
		}
		v := CachedView{
			Key:        k,
			Path:       ent.Path,
			Generation: ent.Generation,
			Content:    ent.Content,
		}
		if k == m.active {
			v.Active = true
			v.Content = m.current
		}
		views = append(views, v)
	}
	return views
}

// Entry returns a copy of the cached entry for key.
func (m *Manager) Entry(key string) (types.TabEntry, bool) {
	ent, ok := m.store.Get(route.Normalize(key))
	if !ok {
		return types.TabEntry{}, false
	}
	return *ent, true
}

// Cached reports how many entries are held, including entries not displayed.
func (m *Manager) Cached() int {
	return m.store.Size()
}
