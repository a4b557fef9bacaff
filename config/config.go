/*
Package config loads a route table and shell settings from YAML or CUE.

Both formats describe the same document:

	namespace: default
	rootPath: /
	storage: ./tabs
	writeBack: true
	janitor: 30s
	routes:
	  /dashboard:
	    name: Dashboard
	    icon: home
	    keepAlive: true
	  /users/:id:
	    name: User
	    keepAlive:
	      max: 5
	      ttl: 10m
	      reuse: false
	      strategy: fifo

Routes are a mapping from pattern to descriptor. Declaration order is the match
order, so both loaders preserve it.
*/
package config

import (
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/errors"

	keepalive "github.com/krisalay/keepalive-tabs"
	"github.com/krisalay/keepalive-tabs/persist"
	"github.com/krisalay/keepalive-tabs/policy"
	"github.com/krisalay/keepalive-tabs/route"
	"github.com/krisalay/keepalive-tabs/types"
)

// Config is a loaded configuration document.
type Config struct {
	Namespace string
	RootPath  string

	// StorageDir is the directory the order is persisted to. Empty keeps it in memory.
	StorageDir string

	WriteBack bool

	// JanitorInterval enables a periodic TTL check when positive.
	JanitorInterval time.Duration

	Routes []types.Route
}

// LoadFile reads a configuration file and parses it by extension: ".cue" for CUE,
// ".yaml" or ".yml" for YAML.
func LoadFile(fs billy.Basic, name string) (*Config, error) {
	data, err := util.ReadFile(fs, name)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file"),
			"path", name,
		)
	}

	var c *Config
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".cue":
		c, err = LoadCUE(data)
	case ".yaml", ".yml":
		c, err = LoadYAML(data)
	default:
		return nil, errors.WithContext(
			errors.New(errors.CodeInvalidConfig, "unsupported config format"),
			"extension", ext,
		)
	}
	if err != nil {
		return nil, errors.WithContext(err, "path", name)
	}
	return c, nil
}

// Resolver builds a route resolver over the loaded table.
func (c *Config) Resolver(opts ...route.Option) (*route.Resolver, error) {
	return route.NewResolver(c.Routes, opts...)
}

// Options converts the shell settings into shell options.
func (c *Config) Options() []keepalive.Option {
	var opts []keepalive.Option
	if c.Namespace != "" {
		opts = append(opts, keepalive.WithNamespace(c.Namespace))
	}
	if c.RootPath != "" {
		opts = append(opts, keepalive.WithRootPath(c.RootPath))
	}
	if c.StorageDir != "" {
		opts = append(opts, keepalive.WithStorage(persist.NewLocalFileStorage(c.StorageDir)))
	}
	if c.WriteBack {
		opts = append(opts, keepalive.WithWriteBack())
	}
	return opts
}

// keepAliveDecl is the format-neutral form of a keepAlive value.
type keepAliveDecl struct {
	isBool  bool
	boolVal bool

	enabled  *bool
	max      int
	ttl      time.Duration
	reuse    *bool
	strategy string
}

func (d *keepAliveDecl) build() *types.KeepAlive {
	if d == nil {
		return nil
	}
	if d.isBool {
		if d.boolVal {
			return types.KeepAliveOn()
		}
		return types.KeepAliveOff()
	}

	ka := &types.KeepAlive{
		Enabled: d.enabled,
		Max:     d.max,
		TTL:     d.ttl,
		Reuse:   d.reuse,
	}
	if d.strategy != "" {
		ka.Strategy = policy.ParseStrategy(d.strategy)
	}
	return ka
}

// parseTTL accepts a Go duration string.
func parseTTL(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "invalid ttl"),
			"ttl", s,
		)
	}
	return d, nil
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func validate(c *Config) error {
	if len(c.Routes) == 0 {
		return nil
	}
	if _, err := c.Resolver(route.WithMemoSize(0)); err != nil {
		return err
	}
	return nil
}
