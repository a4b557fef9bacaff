// Package policy expands a route's keep-alive declaration into a canonical Policy.
package policy

import (
	"strings"

	"github.com/krisalay/keepalive-tabs/types"
)

// Normalize maps a keep-alive declaration onto a Policy. It is total: every
// declaration, including nil, yields a usable policy.
func Normalize(decl *types.KeepAlive) types.Policy {
	p := types.DefaultPolicy()
	if decl == nil {
		return p
	}

	p.Enabled = decl.Enabled == nil || *decl.Enabled
	p.Capacity = decl.Max
	p.TTL = decl.TTL
	p.ReuseKey = decl.Reuse == nil || *decl.Reuse
	p.Strategy = ParseStrategy(string(decl.Strategy))

	if p.Capacity < 0 {
		p.Capacity = 0
	}
	if p.TTL < 0 {
		p.TTL = 0
	}
	return p
}

// For resolves the policy of a possibly missing route descriptor.
func For(desc *types.RouteDescriptor) types.Policy {
	if desc == nil {
		return types.DefaultPolicy()
	}
	return Normalize(desc.KeepAlive)
}

// ParseStrategy is case-insensitive and falls back to LRU for anything unknown.
func ParseStrategy(s string) types.Strategy {
	switch types.Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case types.FIFO:
		return types.FIFO
	case types.LFU:
		return types.LFU
	default:
		return types.LRU
	}
}
