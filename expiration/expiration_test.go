package expiration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/krisalay/keepalive-tabs/types"
)

func TestFor(t *testing.T) {
	assert.IsType(t, Never{}, For(0))
	assert.IsType(t, Never{}, For(-time.Second))
	assert.Equal(t, &ExpireAfterVisit{TTL: time.Minute}, For(time.Minute))
}

func TestExpireAfterVisit_Slides(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := For(10 * time.Second)
	ent := &types.TabEntry{Key: "/a"}

	s.OnVisit(ent, now)
	assert.Equal(t, now.Add(10*time.Second), ent.ExpireAt)
	assert.False(t, s.IsExpired(ent, now.Add(9*time.Second)))
	assert.True(t, s.IsExpired(ent, now.Add(10*time.Second)), "deadline itself is expired")

	s.OnVisit(ent, now.Add(9*time.Second))
	assert.False(t, s.IsExpired(ent, now.Add(15*time.Second)))
}

func TestNever_ClearsDeadline(t *testing.T) {
	ent := &types.TabEntry{ExpireAt: time.Unix(100, 0)}
	Never{}.OnVisit(ent, time.Unix(50, 0))
	assert.True(t, ent.ExpireAt.IsZero())
	assert.False(t, Never{}.IsExpired(ent, time.Unix(1000, 0)))
}

func TestExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	a := &types.TabEntry{Key: "a", ExpireAt: now.Add(-time.Millisecond)}
	b := &types.TabEntry{Key: "b"}
	c := &types.TabEntry{Key: "c", ExpireAt: now}
	d := &types.TabEntry{Key: "d", ExpireAt: now.Add(time.Second)}

	got := Expired([]*types.TabEntry{a, b, c, d}, now)
	assert.Equal(t, []*types.TabEntry{a, c}, got)
	assert.Nil(t, Expired(nil, now))
}
