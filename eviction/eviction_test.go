package eviction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/krisalay/keepalive-tabs/types"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return base.Add(time.Duration(sec) * time.Second) }

func lookupFrom(entries ...*types.TabEntry) Lookup {
	m := make(map[string]*types.TabEntry, len(entries))
	for _, e := range entries {
		m[e.Key] = e
	}
	return func(k string) (*types.TabEntry, bool) {
		e, ok := m[k]
		return e, ok
	}
}

func TestNewEvictionPolicy(t *testing.T) {
	assert.IsType(t, lru{}, NewEvictionPolicy(types.LRU))
	assert.IsType(t, fifo{}, NewEvictionPolicy(types.FIFO))
	assert.IsType(t, lfu{}, NewEvictionPolicy(types.LFU))
	assert.IsType(t, lru{}, NewEvictionPolicy("unknown"))
}

func TestSelectVictims(t *testing.T) {
	// a: created first, visited last. b: created second, visited first. c: active.
	a := &types.TabEntry{Key: "a", CreatedAt: at(0), LastVisitedAt: at(30), Visits: 5}
	b := &types.TabEntry{Key: "b", CreatedAt: at(10), LastVisitedAt: at(10), Visits: 2}
	c := &types.TabEntry{Key: "c", CreatedAt: at(20), LastVisitedAt: at(40), Visits: 1}
	lookup := lookupFrom(a, b, c)
	order := []string{"a", "b", "c"}

	tests := []struct {
		name     string
		strategy types.Strategy
		capacity int
		expected []string
	}{
		{name: "within capacity", strategy: types.LRU, capacity: 3, expected: nil},
		{name: "unbounded", strategy: types.LRU, capacity: 0, expected: nil},
		{name: "lru drops least recently visited", strategy: types.LRU, capacity: 2, expected: []string{"b"}},
		{name: "fifo drops oldest created", strategy: types.FIFO, capacity: 2, expected: []string{"a"}},
		{name: "lfu drops least visited non-active", strategy: types.LFU, capacity: 2, expected: []string{"b"}},
		{name: "capacity one keeps only active", strategy: types.FIFO, capacity: 1, expected: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectVictims(order, "c", tt.capacity, lookup, NewEvictionPolicy(tt.strategy))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSelectVictims_NeverEvictsActive(t *testing.T) {
	a := &types.TabEntry{Key: "a", CreatedAt: at(0), LastVisitedAt: at(0)}
	got := SelectVictims([]string{"a"}, "a", 1, lookupFrom(a), NewEvictionPolicy(types.LRU))
	assert.Nil(t, got)

	// Over capacity with only the active key as member: nothing to remove.
	got = SelectVictims([]string{"a", "a"}, "a", 1, lookupFrom(a), NewEvictionPolicy(types.LRU))
	assert.Empty(t, got)
}

func TestSelectVictims_TiesKeepOrderPosition(t *testing.T) {
	x := &types.TabEntry{Key: "x", CreatedAt: at(0), LastVisitedAt: at(0)}
	y := &types.TabEntry{Key: "y", CreatedAt: at(0), LastVisitedAt: at(0)}
	z := &types.TabEntry{Key: "z", CreatedAt: at(0), LastVisitedAt: at(0)}
	lookup := lookupFrom(x, y, z)

	got := SelectVictims([]string{"y", "x", "z", "active"}, "active", 2, lookup, NewEvictionPolicy(types.FIFO))
	assert.Equal(t, []string{"y", "x"}, got)
}

func TestSelectVictims_MissingEntryRanksFirst(t *testing.T) {
	x := &types.TabEntry{Key: "x", CreatedAt: at(5), LastVisitedAt: at(5)}
	got := SelectVictims([]string{"x", "ghost", "active"}, "active", 2, lookupFrom(x), NewEvictionPolicy(types.LRU))
	assert.Equal(t, []string{"ghost"}, got)
}

func TestLFU_TieFallsBackToLRU(t *testing.T) {
	older := &types.TabEntry{Visits: 3, LastVisitedAt: at(1)}
	newer := &types.TabEntry{Visits: 3, LastVisitedAt: at(2)}
	assert.True(t, lfu{}.Less(older, newer))
	assert.False(t, lfu{}.Less(newer, older))
}
