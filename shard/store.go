package shard

import "sync/atomic"

// Store is the key/value storage of a shard.
type Store[V any] interface {
	Get(string) (V, bool)

	// Put inserts or replaces a value.
	Put(string, V)

	// Delete removes a value and reports whether it was present.
	Delete(string) (V, bool)

	Size() int64

	// Range visits a snapshot of the store until fn returns false.
	Range(fn func(string, V) bool)
}

/*
cowStore is a copy-on-write Store.

- Readers always see an immutable snapshot
- Writers build a new map and swap it in atomically

Writers must be serialized by the caller (Shard.Mu).
*/
type cowStore[V any] struct {
	data atomic.Pointer[map[string]V]
	size atomic.Int64
}

func NewCOWStore[V any]() Store[V] {
	s := &cowStore[V]{}
	m := make(map[string]V)
	s.data.Store(&m)
	return s
}

func (s *cowStore[V]) load() map[string]V {
	return *s.data.Load()
}

func (s *cowStore[V]) Get(key string) (V, bool) {
	v, ok := s.load()[key]
	return v, ok
}

/*
Put copies the current map, adds the value and swaps the copy in.

1. Load the current map
2. Copy it with room for one more
3. Add / replace the value
4. Swap atomically and update the size
*/
func (s *cowStore[V]) Put(key string, v V) {
	old := s.load()
	n := make(map[string]V, len(old)+1)
	for k, val := range old {
		n[k] = val
	}
	n[key] = v

	s.data.Store(&n)
	s.size.Store(int64(len(n)))
}

func (s *cowStore[V]) Delete(key string) (V, bool) {
	old := s.load()
	v, ok := old[key]
	if !ok {
		return v, false
	}

	n := make(map[string]V, len(old))
	for k, val := range old {
		if k != key {
			n[k] = val
		}
	}

	s.data.Store(&n)
	s.size.Store(int64(len(n)))
	return v, true
}

func (s *cowStore[V]) Size() int64 {
	return s.size.Load()
}

func (s *cowStore[V]) Range(fn func(string, V) bool) {
	for k, v := range s.load() {
		if !fn(k, v) {
			return
		}
	}
}
