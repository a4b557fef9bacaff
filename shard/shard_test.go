package shard

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCOWStore(t *testing.T) {
	s := NewCOWStore[int]()

	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Put("a", 1)
	s.Put("b", 2)
	s.Put("a", 3)

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.EqualValues(t, 2, s.Size())

	old, ok := s.Delete("a")
	require.True(t, ok)
	assert.Equal(t, 3, old)
	assert.EqualValues(t, 1, s.Size())

	_, ok = s.Delete("missing")
	assert.False(t, ok)
	assert.EqualValues(t, 1, s.Size())
}

func TestCOWStore_Range(t *testing.T) {
	s := NewCOWStore[string]()
	for i := range 5 {
		s.Put(fmt.Sprintf("k%d", i), "v")
	}

	seen := 0
	s.Range(func(string, string) bool {
		seen++
		return true
	})
	assert.Equal(t, 5, seen)

	seen = 0
	s.Range(func(string, string) bool {
		seen++
		return seen < 2
	})
	assert.Equal(t, 2, seen)
}

func TestCOWStore_ConcurrentReaders(t *testing.T) {
	sh := NewShard[int]()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			sh.Mu.Lock()
			sh.Store.Put(key, i)
			sh.Mu.Unlock()
		}()
		go func() {
			defer wg.Done()
			sh.Store.Get(fmt.Sprintf("k%d", i))
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 8, sh.Store.Size())
}

func TestFNVSelector(t *testing.T) {
	sel := FNVSelector{}
	shards := NewShards[int](8)
	require.Len(t, shards, 8)

	assert.Same(t, Select(sel, "tenant-a", shards), Select(sel, "tenant-a", shards))

	for _, key := range []string{"", "a", "tenant-a", "tenant-b"} {
		idx := sel.Index(key, 8)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 8)
	}
	assert.Equal(t, 0, sel.Index("anything", 1))
	assert.Len(t, NewShards[int](0), 1)
}
