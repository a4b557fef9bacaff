package config

import (
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/jmgilman/go/errors"

	"github.com/krisalay/keepalive-tabs/types"
)

/*
LoadCUE evaluates a CUE configuration document. The document may use the whole
language (definitions, defaults, comprehensions) as long as it evaluates to
concrete values of the documented shape.

Steps:
------
1. Compile and validate to concrete values
2. Read the shell settings
3. Walk `routes` with Fields, which keeps declaration order
*/
func LoadCUE(data []byte) (*Config, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename("tabs.cue"))
	if err := v.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeCUELoadFailed, "failed to compile CUE config")
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, errors.Wrap(err, errors.CodeCUEValidationFailed, "CUE config is not concrete")
	}

	c := &Config{}
	var err error
	if c.Namespace, err = cueString(v, "namespace"); err != nil {
		return nil, err
	}
	if c.RootPath, err = cueString(v, "rootPath"); err != nil {
		return nil, err
	}
	if c.StorageDir, err = cueString(v, "storage"); err != nil {
		return nil, err
	}
	if c.WriteBack, err = cueBool(v, "writeBack"); err != nil {
		return nil, err
	}
	if c.JanitorInterval, err = cueDuration(v, "janitor"); err != nil {
		return nil, err
	}

	routes := v.LookupPath(cue.ParsePath("routes"))
	if routes.Exists() {
		if c.Routes, err = cueRoutes(routes); err != nil {
			return nil, err
		}
	}

	if err := validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func cueRoutes(v cue.Value) ([]types.Route, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCUEDecodeFailed, "routes must be a struct of pattern to route")
	}

	var routes []types.Route
	for iter.Next() {
		pattern := iter.Selector().Unquoted()
		rv := iter.Value()

		desc := types.RouteDescriptor{}
		if desc.Name, err = cueString(rv, "name"); err != nil {
			return nil, errors.WithContext(err, "pattern", pattern)
		}
		if desc.Icon, err = cueString(rv, "icon"); err != nil {
			return nil, errors.WithContext(err, "pattern", pattern)
		}

		ka := rv.LookupPath(cue.ParsePath("keepAlive"))
		if ka.Exists() {
			decl, err := cueKeepAlive(ka)
			if err != nil {
				return nil, errors.WithContext(err, "pattern", pattern)
			}
			desc.KeepAlive = decl.build()
		}
		routes = append(routes, types.Route{Pattern: pattern, Descriptor: desc})
	}
	return routes, nil
}

func cueKeepAlive(v cue.Value) (*keepAliveDecl, error) {
	switch v.Kind() {
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeCUEDecodeFailed, "invalid keepAlive")
		}
		return &keepAliveDecl{isBool: true, boolVal: b}, nil
	case cue.StructKind:
	default:
		return nil, errors.New(errors.CodeCUEDecodeFailed, "keepAlive must be a boolean or a struct")
	}

	decl := &keepAliveDecl{}
	if enabled := v.LookupPath(cue.ParsePath("enabled")); enabled.Exists() {
		b, err := cueBool(v, "enabled")
		if err != nil {
			return nil, err
		}
		decl.enabled = &b
	}
	if reuse := v.LookupPath(cue.ParsePath("reuse")); reuse.Exists() {
		b, err := cueBool(v, "reuse")
		if err != nil {
			return nil, err
		}
		decl.reuse = &b
	}

	limit, err := cueInt(v, "max")
	if err != nil {
		return nil, err
	}
	decl.max = int(limit)

	if decl.ttl, err = cueDuration(v, "ttl"); err != nil {
		return nil, err
	}
	if decl.strategy, err = cueString(v, "strategy"); err != nil {
		return nil, err
	}
	return decl, nil
}

func cueField(v cue.Value, name string) (cue.Value, bool) {
	f := v.LookupPath(cue.ParsePath(name))
	return f, f.Exists()
}

func cueString(v cue.Value, name string) (string, error) {
	f, ok := cueField(v, name)
	if !ok {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", errors.WithContext(
			errors.Wrap(err, errors.CodeCUEDecodeFailed, "expected a string"),
			"field", name,
		)
	}
	return s, nil
}

func cueBool(v cue.Value, name string) (bool, error) {
	f, ok := cueField(v, name)
	if !ok {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, errors.WithContext(
			errors.Wrap(err, errors.CodeCUEDecodeFailed, "expected a boolean"),
			"field", name,
		)
	}
	return b, nil
}

func cueInt(v cue.Value, name string) (int64, error) {
	f, ok := cueField(v, name)
	if !ok {
		return 0, nil
	}
	n, err := f.Int64()
	if err != nil {
		return 0, errors.WithContext(
			errors.Wrap(err, errors.CodeCUEDecodeFailed, "expected an integer"),
			"field", name,
		)
	}
	return n, nil
}

// cueDuration reads a duration string or integer milliseconds.
func cueDuration(v cue.Value, name string) (time.Duration, error) {
	f, ok := cueField(v, name)
	if !ok {
		return 0, nil
	}
	switch f.Kind() {
	case cue.IntKind:
		ms, err := cueInt(v, name)
		if err != nil {
			return 0, err
		}
		return millis(ms), nil
	case cue.StringKind:
		s, err := cueString(v, name)
		if err != nil {
			return 0, err
		}
		d, err := parseTTL(s)
		if err != nil {
			return 0, errors.WithContext(err, "field", name)
		}
		return d, nil
	default:
		return 0, errors.WithContext(
			errors.New(errors.CodeCUEDecodeFailed, "expected a duration string or milliseconds"),
			"field", name,
		)
	}
}
