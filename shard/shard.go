package shard

import "sync"

/*
Shard is one independent slice of a registry. Each shard:
- holds some of the values in a copy-on-write store
- has its own lock for writes

Reads never take the lock.
*/
type Shard[V any] struct {
	Store Store[V]

	// Mu serializes writers of this shard.
	Mu sync.Mutex
}

func NewShard[V any]() *Shard[V] {
	return &Shard[V]{Store: NewCOWStore[V]()}
}

// NewShards creates n shards. n below one is raised to one.
func NewShards[V any](n int) []*Shard[V] {
	if n < 1 {
		n = 1
	}
	shards := make([]*Shard[V], n)
	for i := range shards {
		shards[i] = NewShard[V]()
	}
	return shards
}
