package config

import (
	"time"

	"github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/krisalay/keepalive-tabs/types"
)

type yamlDocument struct {
	Namespace string `yaml:"namespace"`
	RootPath  string `yaml:"rootPath"`
	Storage   string `yaml:"storage"`
	WriteBack bool   `yaml:"writeBack"`
	Janitor   string `yaml:"janitor"`

	// Routes stays a node so the mapping order survives decoding.
	Routes yaml.Node `yaml:"routes"`
}

type yamlRoute struct {
	Name      string         `yaml:"name"`
	Icon      string         `yaml:"icon"`
	KeepAlive *yamlKeepAlive `yaml:"keepAlive"`
}

type yamlKeepAlive struct {
	decl keepAliveDecl
}

// UnmarshalYAML accepts `true`, `false` or an object.
func (k *yamlKeepAlive) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var b bool
		if err := n.Decode(&b); err != nil {
			return errors.WithContext(
				errors.New(errors.CodeInvalidConfig, "keepAlive must be a boolean or an object"),
				"line", n.Line,
			)
		}
		k.decl = keepAliveDecl{isBool: true, boolVal: b}
		return nil
	}

	var obj struct {
		Enabled  *bool     `yaml:"enabled"`
		Max      int       `yaml:"max"`
		TTL      yaml.Node `yaml:"ttl"`
		Reuse    *bool     `yaml:"reuse"`
		Strategy string    `yaml:"strategy"`
	}
	if err := n.Decode(&obj); err != nil {
		return err
	}

	ttl, err := yamlTTL(&obj.TTL)
	if err != nil {
		return err
	}
	k.decl = keepAliveDecl{
		enabled:  obj.Enabled,
		max:      obj.Max,
		ttl:      ttl,
		reuse:    obj.Reuse,
		strategy: obj.Strategy,
	}
	return nil
}

// LoadYAML parses a YAML configuration document.
func LoadYAML(data []byte) (*Config, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse YAML config")
	}

	c := &Config{
		Namespace:  doc.Namespace,
		RootPath:   doc.RootPath,
		StorageDir: doc.Storage,
		WriteBack:  doc.WriteBack,
	}
	if doc.Janitor != "" {
		d, err := parseTTL(doc.Janitor)
		if err != nil {
			return nil, errors.WithContext(err, "field", "janitor")
		}
		c.JanitorInterval = d
	}

	routes, err := yamlRoutes(&doc.Routes)
	if err != nil {
		return nil, err
	}
	c.Routes = routes

	if err := validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func yamlRoutes(n *yaml.Node) ([]types.Route, error) {
	if n.Kind == 0 || n.ShortTag() == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errors.WithContext(
			errors.New(errors.CodeInvalidConfig, "routes must be a mapping of pattern to route"),
			"line", n.Line,
		)
	}

	routes := make([]types.Route, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		pattern := n.Content[i].Value

		var r yamlRoute
		if err := n.Content[i+1].Decode(&r); err != nil {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "invalid route"),
				"pattern", pattern,
			)
		}

		desc := types.RouteDescriptor{Name: r.Name, Icon: r.Icon}
		if r.KeepAlive != nil {
			desc.KeepAlive = r.KeepAlive.decl.build()
		}
		routes = append(routes, types.Route{Pattern: pattern, Descriptor: desc})
	}
	return routes, nil
}

// yamlTTL reads a duration string or integer milliseconds.
func yamlTTL(n *yaml.Node) (time.Duration, error) {
	if n.Kind == 0 || n.ShortTag() == "!!null" {
		return 0, nil
	}
	if n.ShortTag() == "!!int" {
		var ms int64
		if err := n.Decode(&ms); err != nil {
			return 0, errors.Wrap(err, errors.CodeInvalidConfig, "invalid ttl")
		}
		return millis(ms), nil
	}
	return parseTTL(n.Value)
}
