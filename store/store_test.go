package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/keepalive-tabs/expiration"
)

var t0 = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func TestUpsert_CreateThenUpdate(t *testing.T) {
	s := New()

	ent, created := s.Upsert("/a", Meta{Title: "A", Icon: "i"}, t0, expiration.For(time.Minute))
	require.True(t, created)
	assert.Equal(t, "/a", ent.Key)
	assert.Equal(t, "/a", ent.Path)
	assert.Equal(t, 1, ent.Generation)
	assert.Equal(t, t0, ent.CreatedAt)
	assert.Equal(t, t0, ent.LastVisitedAt)
	assert.Equal(t, t0.Add(time.Minute), ent.ExpireAt)
	assert.Equal(t, 0, s.Len(), "upsert does not touch the order")

	s.SetActive("/a")
	require.True(t, s.TouchContent("/a", "view-1"))
	_, _ = s.BumpGeneration("/a")

	later := t0.Add(time.Second)
	again, created := s.Upsert("/a", Meta{Title: "A2"}, later, expiration.For(0))
	require.False(t, created)
	assert.Same(t, ent, again)
	assert.Equal(t, "A2", again.Title)
	assert.Equal(t, "", again.Icon)
	assert.Equal(t, later, again.LastVisitedAt)
	assert.Equal(t, t0, again.CreatedAt)
	assert.True(t, again.ExpireAt.IsZero())
	assert.Equal(t, 2, again.Generation)
	assert.Equal(t, "view-1", again.Content)
	assert.Equal(t, 2, again.Visits)
}

func TestTouchContent_OnlyActive(t *testing.T) {
	s := New()
	s.Upsert("/a", Meta{}, t0, nil)
	s.Upsert("/b", Meta{}, t0, nil)
	s.SetActive("/b")

	assert.False(t, s.TouchContent("/a", "x"))
	assert.True(t, s.TouchContent("/b", "y"))
	assert.False(t, s.TouchContent("/missing", "z"))

	a, _ := s.Get("/a")
	assert.Nil(t, a.Content)
}

func TestRemove(t *testing.T) {
	s := New()
	s.Upsert("/a", Meta{}, t0, nil)
	s.Upsert("/b", Meta{}, t0, nil)
	s.Append("/a")
	s.Append("/b")
	s.SetActive("/a")
	s.TouchContent("/a", "content")

	ent, ok := s.Remove("/a")
	require.True(t, ok)
	assert.Nil(t, ent.Content, "content reference is released")
	assert.Equal(t, []string{"/b"}, s.Order())
	assert.Equal(t, 1, s.Size())

	_, ok = s.Remove("/a")
	assert.False(t, ok)
}

func TestAppend(t *testing.T) {
	s := New()
	s.Upsert("/a", Meta{}, t0, nil)

	assert.True(t, s.Append("/a"))
	assert.False(t, s.Append("/a"), "no duplicates")
	assert.False(t, s.Append("/ghost"), "no keys without entries")
	assert.Equal(t, []string{"/a"}, s.Order())
}

func TestSetOrder(t *testing.T) {
	s := New()
	for _, k := range []string{"/a", "/b", "/c"} {
		s.Upsert(k, Meta{}, t0, nil)
		s.Append(k)
	}

	got := s.SetOrder([]string{"/c", "/ghost", "/a", "/c"})
	assert.Equal(t, []string{"/c", "/a"}, got)
	assert.Equal(t, []string{"/c", "/a"}, s.Order())
	assert.Equal(t, 3, s.Size(), "entries are untouched")
	assert.Equal(t, -1, s.IndexOf("/b"))
}

func TestEntries_Deterministic(t *testing.T) {
	s := New()
	for _, k := range []string{"/z", "/y", "/b", "/a"} {
		s.Upsert(k, Meta{}, t0, nil)
	}
	s.Append("/y")
	s.Append("/z")

	var keys []string
	for _, e := range s.Entries() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"/y", "/z", "/a", "/b"}, keys)
}

func TestBumpGeneration(t *testing.T) {
	s := New()
	_, ok := s.BumpGeneration("/nope")
	assert.False(t, ok)

	s.Upsert("/a", Meta{}, t0, nil)
	gen, ok := s.BumpGeneration("/a")
	require.True(t, ok)
	assert.Equal(t, 2, gen)
}
