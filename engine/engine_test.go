package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/keepalive-tabs/expiration"
	"github.com/krisalay/keepalive-tabs/store"
	"github.com/krisalay/keepalive-tabs/types"
)

var t0 = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

type countingMetrics struct {
	types.NoopMetrics
	expired, evicted int
}

func (m *countingMetrics) Expire()   { m.expired++ }
func (m *countingMetrics) Eviction() { m.evicted++ }

func keys(entries []*types.TabEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}

func visit(st *store.Store, key string, now time.Time, ttl time.Duration) {
	st.Upsert(key, store.Meta{Title: key}, now, expiration.For(ttl))
	st.Append(key)
}

func TestSweepTTL(t *testing.T) {
	m := &countingMetrics{}
	e := NewEngine(m)
	st := store.New()

	visit(st, "/a", t0, time.Second)
	visit(st, "/b", t0, 0)
	visit(st, "/c", t0, time.Second)
	visit(st, "/d", t0, time.Hour)
	st.SetActive("/c")

	removed := e.SweepTTL(st, t0.Add(time.Second), "/c")

	assert.Equal(t, []string{"/a"}, keys(removed), "/c is spared")
	assert.Equal(t, []string{"/b", "/c", "/d"}, st.Order())
	assert.Equal(t, 1, m.expired)
}

func TestSweepTTL_SparesNothing(t *testing.T) {
	e := NewEngine(nil)
	st := store.New()

	visit(st, "/a", t0, time.Second)
	visit(st, "/b", t0, time.Hour)
	st.SetActive("/a")

	removed := e.SweepTTL(st, t0.Add(time.Minute), "")
	assert.Equal(t, []string{"/a"}, keys(removed), "the active key is not exempt")
	assert.Equal(t, []string{"/b"}, st.Order())
}

func TestSweepTTL_IncludesUnorderedEntries(t *testing.T) {
	e := NewEngine(nil)
	st := store.New()

	visit(st, "/a", t0, time.Second)
	visit(st, "/b", t0, 0)
	st.SetOrder([]string{"/b"})
	st.SetActive("/b")

	removed := e.SweepTTL(st, t0.Add(time.Minute), st.Active())
	assert.Equal(t, []string{"/a"}, keys(removed))
	assert.Equal(t, 1, st.Size())
}

func TestSweepCapacity(t *testing.T) {
	m := &countingMetrics{}
	e := NewEngine(m)
	st := store.New()

	visit(st, "/a", t0, 0)
	visit(st, "/b", t0.Add(time.Second), 0)
	visit(st, "/c", t0.Add(2*time.Second), 0)
	// Revisit /a so LRU and FIFO disagree.
	visit(st, "/a", t0.Add(3*time.Second), 0)
	st.SetActive("/c")

	removed := e.SweepCapacity(st, types.Policy{Enabled: true, Capacity: 2, Strategy: types.LRU})
	require.Equal(t, []string{"/b"}, keys(removed))
	assert.Equal(t, []string{"/a", "/c"}, st.Order())
	assert.Equal(t, 1, m.evicted)
}

func TestSweepCapacity_Unbounded(t *testing.T) {
	e := NewEngine(nil)
	st := store.New()
	visit(st, "/a", t0, 0)
	visit(st, "/b", t0, 0)
	st.SetActive("/b")

	assert.Nil(t, e.SweepCapacity(st, types.DefaultPolicy()))
	assert.Equal(t, 2, st.Len())
}

func TestSweepCapacity_ActiveSurvivesCapacityOne(t *testing.T) {
	e := NewEngine(nil)
	st := store.New()
	visit(st, "/only", t0, 0)
	st.SetActive("/only")

	removed := e.SweepCapacity(st, types.Policy{Enabled: true, Capacity: 1, Strategy: types.FIFO})
	assert.Empty(t, removed)
	assert.Equal(t, []string{"/only"}, st.Order())
}
