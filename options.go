package keepalive

import (
	"log/slog"
	"strings"
	"time"

	"github.com/jmgilman/go/errors"

	"github.com/krisalay/keepalive-tabs/persist"
	"github.com/krisalay/keepalive-tabs/refresh"
	"github.com/krisalay/keepalive-tabs/types"
	"github.com/krisalay/keepalive-tabs/writepolicy"
)

// Option configures a Shell.
type Option func(*options)

type options struct {
	namespace   string
	storage     types.Storage
	navigator   types.Navigator
	hooks       types.Hooks
	writePolicy writepolicy.WritePolicy
	writeBack   bool
	refreshHook refresh.Hook
	metrics     types.Metrics
	logger      *slog.Logger
	clock       func() time.Time
	rootPath    string
}

func defaultOptions() options {
	return options{
		namespace: persist.DefaultNamespace,
		rootPath:  DefaultRootPath,
		clock:     time.Now,
	}
}

// WithNamespace keys the persisted order, so several shells can share one storage.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithStorage sets the persistence adapter. Defaults to an in-memory storage.
func WithStorage(s types.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithNavigator sets the navigation collaborator used for redirects.
func WithNavigator(n types.Navigator) Option {
	return func(o *options) { o.navigator = n }
}

// WithHooks sets the lifecycle callbacks.
func WithHooks(h types.Hooks) Option {
	return func(o *options) { o.hooks = h }
}

// WithWritePolicy overrides how persistence writes are issued. The caller owns
// error reporting of the given policy.
func WithWritePolicy(w writepolicy.WritePolicy) Option {
	return func(o *options) { o.writePolicy = w }
}

// WithWriteBack moves persistence writes to a background worker.
func WithWriteBack() Option {
	return func(o *options) { o.writeBack = true }
}

// WithRefreshHook sets the hook told about generation bumps.
func WithRefreshHook(h refresh.Hook) Option {
	return func(o *options) { o.refreshHook = h }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m types.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces time.Now for timestamps and TTL deadlines.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithRootPath sets where the shell goes when no tab is left. Defaults to "/".
func WithRootPath(p string) Option {
	return func(o *options) { o.rootPath = p }
}

func (o *options) validate() error {
	if o.namespace == "" {
		return errors.New(errors.CodeInvalidConfig, "namespace cannot be empty")
	}
	if !strings.HasPrefix(o.rootPath, "/") {
		return errors.WithContext(
			errors.New(errors.CodeInvalidConfig, "root path must be absolute"),
			"root_path", o.rootPath,
		)
	}
	if o.clock == nil {
		return errors.New(errors.CodeInvalidConfig, "clock cannot be nil")
	}
	if o.writePolicy != nil && o.writeBack {
		return errors.New(errors.CodeInvalidConfig, "write-back cannot be combined with a custom write policy")
	}
	return nil
}
