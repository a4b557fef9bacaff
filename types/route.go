package types

import "time"

// Strategy selects which entries the capacity sweep removes first.
type Strategy string

const (
	// LRU evicts the entry visited least recently.
	LRU Strategy = "lru"

	// FIFO evicts the entry created first, regardless of visits.
	FIFO Strategy = "fifo"

	// LFU evicts the entry visited the fewest times.
	LFU Strategy = "lfu"
)

/*
KeepAlive is the keep-alive declaration of a route.

The three declared forms map onto Go values as follows:
  - omitted: a nil *KeepAlive
  - true / false: KeepAliveOn() / KeepAliveOff()
  - object: a populated *KeepAlive

Enabled and Reuse are pointers because only an explicit false disables them.
*/
type KeepAlive struct {
	Enabled  *bool
	Max      int
	TTL      time.Duration
	Reuse    *bool
	Strategy Strategy
}

// KeepAliveOn is the boolean `true` declaration.
func KeepAliveOn() *KeepAlive { return &KeepAlive{} }

// KeepAliveOff is the boolean `false` declaration.
func KeepAliveOff() *KeepAlive {
	off := false
	return &KeepAlive{Enabled: &off}
}

// RouteDescriptor is the static metadata of one route pattern.
type RouteDescriptor struct {
	Name      string
	Icon      string
	KeepAlive *KeepAlive
}

// Route pairs a pattern with its descriptor. A route table is an ordered []Route.
type Route struct {
	Pattern    string
	Descriptor RouteDescriptor
}

// Policy is the canonical keep-alive policy derived from a RouteDescriptor.
type Policy struct {
	Enabled bool

	// Capacity is the maximum number of tabs. Zero means unbounded.
	Capacity int

	// TTL is the idle lifetime of an entry. Zero means no expiry.
	TTL time.Duration

	// ReuseKey drops the query string from the cache key when true.
	ReuseKey bool

	Strategy Strategy
}

// DefaultPolicy applies to routes without a declaration and to unmatched paths.
func DefaultPolicy() Policy {
	return Policy{Enabled: true, ReuseKey: true, Strategy: LRU}
}

// Bounded reports whether the capacity sweep applies.
func (p Policy) Bounded() bool {
	return p.Capacity > 0
}

// Location is the current URL of the shell, split the way the router reports it.
type Location struct {
	Path   string
	Search string // includes the leading "?" when present
}
