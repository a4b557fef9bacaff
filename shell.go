package keepalive

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmgilman/go/errors"

	"github.com/krisalay/keepalive-tabs/persist"
	"github.com/krisalay/keepalive-tabs/refresh"
	"github.com/krisalay/keepalive-tabs/route"
	"github.com/krisalay/keepalive-tabs/types"
	"github.com/krisalay/keepalive-tabs/writepolicy"
)

/*
Shell runs a Manager against its collaborators: it reads the saved order at
startup, serializes events, writes the final order of each event through the
write policy, and dispatches notifications, refresh signals and redirects.

Events are processed one at a time. Callbacks and redirects run after the event's
state has settled and outside the shell's lock, so a navigator may call back into
Navigate synchronously.
*/
type Shell struct {
	mu sync.Mutex
	m  *Manager

	namespace  string
	storageKey string
	writes     writepolicy.WritePolicy
	navigator  types.Navigator
	hooks      types.Hooks
	refresh    refresh.Hook
	logger     *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
	janitors  sync.WaitGroup
}

// New restores a shell for one namespace and lands it on the initial location.
func New(ctx context.Context, resolver *route.Resolver, initial types.Location, view types.View, opts ...Option) (*Shell, error) {
	s, announce, err := restore(ctx, resolver, initial, view, opts...)
	if err != nil {
		return nil, err
	}
	announce()
	return s, nil
}

/*
restore builds a shell and settles its restored state without running any callback.
The returned announce fires OnRestore and dispatches the restore effects; callers
that must publish the shell first (the Registry) run it once they hold no locks.
*/
func restore(ctx context.Context, resolver *route.Resolver, initial types.Location, view types.View, opts ...Option) (*Shell, func(), error) {
	if resolver == nil {
		return nil, nil, errors.New(errors.CodeInvalidConfig, "route resolver is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, nil, err
	}

	if o.storage == nil {
		o.storage = persist.NewMemoryStorage()
	}
	if o.navigator == nil {
		o.navigator = types.NavigatorFunc(func(string, bool) {})
	}
	if o.refreshHook == nil {
		o.refreshHook = refresh.Nop{}
	}
	if o.metrics == nil {
		o.metrics = types.NoopMetrics{}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	s := &Shell{
		m: NewManager(resolver,
			WithManagerClock(o.clock),
			WithManagerMetrics(o.metrics),
			WithManagerRootPath(o.rootPath),
		),
		namespace:  o.namespace,
		storageKey: persist.StorageKey(o.namespace),
		navigator:  o.navigator,
		hooks:      o.hooks,
		refresh:    o.refreshHook,
		logger:     o.logger.With("namespace", o.namespace),
		done:       make(chan struct{}),
	}

	switch {
	case o.writePolicy != nil:
		s.writes = o.writePolicy
	case o.writeBack:
		s.writes = writepolicy.NewWriteBackPolicy(o.storage, s.logWriteError)
	default:
		s.writes = writepolicy.NewWriteThroughPolicy(o.storage, s.logWriteError)
	}

	saved := s.readSaved(ctx, o.storage)
	fx := s.apply(ctx, "restore", func() Effects {
		return s.m.Restore(saved, initial, view)
	})

	announce := func() {
		if s.hooks.OnRestore != nil {
			s.hooks.OnRestore(append([]string(nil), saved...))
		}
		s.dispatch(ctx, fx)
	}
	return s, announce, nil
}

// readSaved loads the persisted order. Every failure degrades to a cold start.
func (s *Shell) readSaved(ctx context.Context, storage types.Storage) []string {
	raw, ok, err := storage.Read(s.storageKey)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read saved tabs, starting cold", "error", err)
		return []string{}
	}
	if !ok {
		return []string{}
	}

	saved, err := persist.DecodeOrder(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding malformed saved tabs", "error", err)
		return []string{}
	}
	return saved
}

func (s *Shell) logWriteError(key string, err error) {
	s.logger.Warn("failed to persist tabs", "key", key, "error", err)
}

/*
run executes one event:
 1. the transition and the persistence write happen under the lock, so writes
    leave in event order and always describe a settled order
 2. notifications, refresh and redirect are dispatched after unlocking
*/
func (s *Shell) run(ctx context.Context, event string, transition func() Effects) {
	s.dispatch(ctx, s.apply(ctx, event, transition))
}

// apply is the locked half of run.
func (s *Shell) apply(ctx context.Context, event string, transition func() Effects) Effects {
	s.mu.Lock()
	fx := transition()
	if fx.Persist != nil {
		s.writes.OnWrite(ctx, s.storageKey, persist.EncodeOrder(fx.Persist))
	}
	active := s.m.ActiveKey()
	s.mu.Unlock()

	if !fx.Empty() {
		s.logger.DebugContext(ctx, "tab event",
			"event", event,
			"active", active,
			"persisted", fx.Persist != nil,
			"notifications", len(fx.Events),
		)
	}
	return fx
}

func (s *Shell) dispatch(ctx context.Context, fx Effects) {
	for _, ev := range fx.Events {
		switch ev.Kind {
		case EventOpen:
			s.logger.InfoContext(ctx, "tab opened", "path", ev.Tab.Path, "title", ev.Tab.Title)
			if s.hooks.OnTabOpen != nil {
				s.hooks.OnTabOpen(ev.Tab)
			}
		case EventClose:
			s.logger.InfoContext(ctx, "tab closed", "path", ev.Tab.Path, "title", ev.Tab.Title, "reason", string(ev.Reason))
			if s.hooks.OnTabClose != nil {
				s.hooks.OnTabClose(ev.Tab)
			}
		}
	}

	if fx.Refresh != nil {
		s.refresh.OnRefresh(fx.Refresh.Path, fx.Refresh.Generation)
	}

	if fx.Redirect != nil {
		s.logger.DebugContext(ctx, "redirecting", "path", fx.Redirect.Path)
		s.navigator.Navigate(fx.Redirect.Path, fx.Redirect.Replace)
	}
}

func (s *Shell) Navigate(ctx context.Context, loc types.Location, view types.View) {
	s.run(ctx, "navigate", func() Effects { return s.m.Navigate(loc, view) })
}

// NavigateTo is Navigate for a raw "path?query" string.
func (s *Shell) NavigateTo(ctx context.Context, raw string, view types.View) {
	s.Navigate(ctx, route.ParseLocation(raw), view)
}

func (s *Shell) Render(view types.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Render(view)
}

func (s *Shell) Expire(ctx context.Context) {
	s.run(ctx, "expire", s.m.Expire)
}

func (s *Shell) CloseTab(ctx context.Context, path string) {
	s.run(ctx, "close", func() Effects { return s.m.CloseTab(path) })
}

func (s *Shell) RefreshTab(ctx context.Context, path string) {
	s.run(ctx, "refresh", func() Effects { return s.m.RefreshTab(path) })
}

func (s *Shell) ReorderTabs(ctx context.Context, keys []string) {
	s.run(ctx, "reorder", func() Effects { return s.m.ReorderTabs(keys) })
}

func (s *Shell) DropLeftTabs(ctx context.Context, path string) {
	s.run(ctx, "drop-left", func() Effects { return s.m.DropLeftTabs(path) })
}

func (s *Shell) DropRightTabs(ctx context.Context, path string) {
	s.run(ctx, "drop-right", func() Effects { return s.m.DropRightTabs(path) })
}

func (s *Shell) DropOtherTabs(ctx context.Context, path string) {
	s.run(ctx, "drop-others", func() Effects { return s.m.DropOtherTabs(path) })
}

func (s *Shell) ActivePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ActivePath()
}

func (s *Shell) ActiveKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ActiveKey()
}

func (s *Shell) ActiveTabKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.ActiveTabKey()
}

func (s *Shell) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Enabled()
}

func (s *Shell) Tabs() []Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Tabs()
}

func (s *Shell) Views() []CachedView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Views()
}

// Order returns the order sequence.
func (s *Shell) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Order()
}

// Namespace returns the namespace the shell persists under.
func (s *Shell) Namespace() string {
	return s.namespace
}

/*
StartJanitor runs Expire every interval until ctx is done or the shell is closed.
TTL is otherwise only enforced lazily, on navigation.
*/
func (s *Shell) StartJanitor(ctx context.Context, interval time.Duration) {
	s.janitors.Add(1)
	go func() {
		defer s.janitors.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.Expire(ctx)
			}
		}
	}()
}

// Close stops janitors and flushes pending writes. Safe to call more than once.
func (s *Shell) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.janitors.Wait()
		s.writes.Close()
	})
}
