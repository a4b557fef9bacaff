package keepalive

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jmgilman/go/errors"
	"golang.org/x/sync/singleflight"

	"github.com/krisalay/keepalive-tabs/route"
	"github.com/krisalay/keepalive-tabs/shard"
	"github.com/krisalay/keepalive-tabs/types"
)

// DefaultShards is the shard count of a registry when none is given.
const DefaultShards = 16

/*
Registry holds one Shell per namespace (one per user session or browser window),
all sharing a route table and a set of shell options.

Namespaces are spread over shards, each with its own lock. Concurrent Opens of
the same namespace are collapsed so its saved order is read and restored once.
*/
type Registry struct {
	resolver *route.Resolver
	opts     []Option

	shards   []*shard.Shard[*Shell]
	selector shard.Selector
	group    singleflight.Group
	closed   atomic.Bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithShards sets the shard count.
func WithShards(n int) RegistryOption {
	return func(r *Registry) { r.shards = shard.NewShards[*Shell](n) }
}

// WithSelector replaces the FNV shard selector.
func WithSelector(sel shard.Selector) RegistryOption {
	return func(r *Registry) { r.selector = sel }
}

// WithShellOptions sets the options every opened shell starts from. The
// namespace option is always overridden by Open.
func WithShellOptions(opts ...Option) RegistryOption {
	return func(r *Registry) { r.opts = append(r.opts, opts...) }
}

func NewRegistry(resolver *route.Resolver, opts ...RegistryOption) (*Registry, error) {
	if resolver == nil {
		return nil, errors.New(errors.CodeInvalidConfig, "route resolver is required")
	}

	r := &Registry{
		resolver: resolver,
		selector: shard.FNVSelector{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.shards == nil {
		r.shards = shard.NewShards[*Shell](DefaultShards)
	}
	return r, nil
}

// NewNamespace returns a fresh random namespace.
func NewNamespace() string {
	return uuid.NewString()
}

/*
Open returns the shell of a namespace, restoring it on first use.

Steps:
------
1. Fast path: lock-free read of the owning shard
2. Collapse concurrent opens of the same namespace
3. Re-check under the shard lock, build the shell, publish it
4. Run the restore callbacks after the shard lock is released, so hooks may call
   back into the registry
*/
func (r *Registry) Open(ctx context.Context, ns string, initial types.Location, view types.View) (*Shell, error) {
	if r.closed.Load() {
		return nil, errors.New(errors.CodeUnavailable, "registry is closed")
	}
	if ns == "" {
		return nil, errors.New(errors.CodeInvalidInput, "namespace cannot be empty")
	}

	sh := shard.Select(r.selector, ns, r.shards)
	if s, ok := sh.Store.Get(ns); ok {
		return s, nil
	}

	v, err, _ := r.group.Do(ns, func() (any, error) {
		s, announce, err := r.publish(ctx, sh, ns, initial, view)
		if err != nil {
			return nil, err
		}
		if announce != nil {
			announce()
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Shell), nil
}

// publish builds and stores the shell under the shard lock. The announce func is
// nil when another caller already published it.
func (r *Registry) publish(ctx context.Context, sh *shard.Shard[*Shell], ns string, initial types.Location, view types.View) (*Shell, func(), error) {
	sh.Mu.Lock()
	defer sh.Mu.Unlock()

	if s, ok := sh.Store.Get(ns); ok {
		return s, nil, nil
	}

	opts := append(append([]Option(nil), r.opts...), WithNamespace(ns))
	s, announce, err := restore(ctx, r.resolver, initial, view, opts...)
	if err != nil {
		return nil, nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to open tab shell"),
			"namespace", ns,
		)
	}
	sh.Store.Put(ns, s)
	return s, announce, nil
}

// Get returns the shell of a namespace if it is open.
func (r *Registry) Get(ns string) (*Shell, bool) {
	return shard.Select(r.selector, ns, r.shards).Store.Get(ns)
}

// Forget closes and removes the shell of a namespace. Its persisted order stays in
// storage, so a later Open restores it.
func (r *Registry) Forget(ns string) bool {
	sh := shard.Select(r.selector, ns, r.shards)

	sh.Mu.Lock()
	s, ok := sh.Store.Delete(ns)
	sh.Mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

// Len returns the number of open shells.
func (r *Registry) Len() int {
	var n int64
	for _, sh := range r.shards {
		n += sh.Store.Size()
	}
	return int(n)
}

// Namespaces returns the open namespaces in no particular order.
func (r *Registry) Namespaces() []string {
	var out []string
	for _, sh := range r.shards {
		sh.Store.Range(func(ns string, _ *Shell) bool {
			out = append(out, ns)
			return true
		})
	}
	return out
}

// Close closes every shell and refuses further Opens.
func (r *Registry) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	for _, sh := range r.shards {
		sh.Mu.Lock()
		var shells []*Shell
		sh.Store.Range(func(_ string, s *Shell) bool {
			shells = append(shells, s)
			return true
		})
		for _, s := range shells {
			sh.Store.Delete(s.Namespace())
		}
		sh.Mu.Unlock()

		for _, s := range shells {
			s.Close()
		}
	}
}
