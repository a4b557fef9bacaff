package shard

import "hash/fnv"

/*
Selector decides which shard holds a namespace.
Spreading namespaces keeps a registry under heavy open/close traffic from
serializing on one lock.
*/
type Selector interface {
	Index(key string, n int) int
}

// FNVSelector places a key by its 32-bit FNV-1a hash.
type FNVSelector struct{}

func hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Index returns the shard index for key among n shards.
func (FNVSelector) Index(key string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(hash(key) % uint32(n))
}

// Select picks the shard for key.
func Select[V any](sel Selector, key string, shards []*Shard[V]) *Shard[V] {
	return shards[sel.Index(key, len(shards))]
}
