// Package route resolves a normalized path to the route descriptor that governs it.
package route

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jmgilman/go/errors"

	"github.com/krisalay/keepalive-tabs/types"
)

const defaultMemoSize = 256

// noMatch marks memoized misses.
const noMatch = -1

// Resolver maps paths to route descriptors: exact lookup first, then the first
// pattern in declaration order that matches.
type Resolver struct {
	routes   []types.Route
	matchers []Matcher
	exact    map[string]int

	// memo caches path -> route index (or noMatch). Safe for concurrent use.
	memo *lru.Cache[string, int]
}

// Option configures a Resolver.
type Option func(*resolverConfig)

type resolverConfig struct {
	memoSize int
	matchers map[string]Matcher
}

// WithMemoSize sets how many resolved paths are remembered. Zero disables memoization.
func WithMemoSize(n int) Option {
	return func(c *resolverConfig) { c.memoSize = n }
}

// WithMatcher overrides the compiled matcher for one pattern, for routers with
// their own matching rules.
func WithMatcher(pattern string, m Matcher) Option {
	return func(c *resolverConfig) { c.matchers[Normalize(pattern)] = m }
}

// NewResolver compiles every pattern of the route table. The table order is the
// match order and is preserved.
func NewResolver(routes []types.Route, opts ...Option) (*Resolver, error) {
	cfg := resolverConfig{memoSize: defaultMemoSize, matchers: map[string]Matcher{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Resolver{
		routes:   append([]types.Route(nil), routes...),
		matchers: make([]Matcher, len(routes)),
		exact:    make(map[string]int, len(routes)),
	}

	for i, rt := range r.routes {
		key := Normalize(rt.Pattern)
		if _, dup := r.exact[key]; !dup {
			r.exact[key] = i
		}

		if m, ok := cfg.matchers[key]; ok {
			r.matchers[i] = m
			continue
		}
		m, err := Compile(rt.Pattern)
		if err != nil {
			return nil, errors.WithContext(err, "route_index", i)
		}
		r.matchers[i] = m
	}

	if cfg.memoSize > 0 {
		memo, err := lru.New[string, int](cfg.memoSize)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create resolver memo")
		}
		r.memo = memo
	}
	return r, nil
}

// Resolve returns the descriptor governing path, or false when no route matches.
func (r *Resolver) Resolve(path string) (*types.RouteDescriptor, bool) {
	idx := r.lookup(Normalize(path))
	if idx == noMatch {
		return nil, false
	}
	desc := r.routes[idx].Descriptor
	return &desc, true
}

// Routes returns a copy of the route table.
func (r *Resolver) Routes() []types.Route {
	return append([]types.Route(nil), r.routes...)
}

func (r *Resolver) lookup(path string) int {
	if idx, ok := r.exact[path]; ok {
		return idx
	}
	if r.memo != nil {
		if idx, ok := r.memo.Get(path); ok {
			return idx
		}
	}

	idx := noMatch
	for i, m := range r.matchers {
		if m.Match(path) {
			idx = i
			break
		}
	}

	if r.memo != nil {
		r.memo.Add(path, idx)
	}
	return idx
}
