// Package namespace resolves the field-name prefix ("plugin namespace") that
// isolates the arguments of one plugin from every other plugin rendered on
// the same page.
package namespace

import "strings"

// DefaultPrefix is prepended to generated plugin namespaces.
const DefaultPrefix = "tx_"

// Override pins the namespace of one extension/plugin pair.
type Override struct {
	Extension string `mapstructure:"extension" yaml:"extension"`
	Plugin    string `mapstructure:"plugin" yaml:"plugin"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// Resolver maps extension and plugin identities onto argument namespaces.
// The zero value resolves every pair with the generated convention.
type Resolver struct {
	overrides map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOverride pins the namespace for a single extension/plugin pair.
// Matching is case-insensitive.
func WithOverride(extension, plugin, namespace string) Option {
	return func(r *Resolver) {
		if r.overrides == nil {
			r.overrides = make(map[string]string)
		}
		r.overrides[overrideKey(extension, plugin)] = strings.TrimSpace(namespace)
	}
}

// WithOverrides applies a list of overrides, typically loaded from config.
func WithOverrides(overrides []Override) Option {
	return func(r *Resolver) {
		for _, o := range overrides {
			WithOverride(o.Extension, o.Plugin, o.Namespace)(r)
		}
	}
}

// New constructs a Resolver.
func New(options ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// PluginNamespace returns the namespace for the given pair, or "" when
// either identity is missing. Without an override the namespace is
// "tx_<extension>_<plugin>" in lower case, underscores included.
func (r *Resolver) PluginNamespace(extension, plugin string) string {
	extension = strings.TrimSpace(extension)
	plugin = strings.TrimSpace(plugin)
	if extension == "" || plugin == "" {
		return ""
	}
	if r != nil {
		if ns, ok := r.overrides[overrideKey(extension, plugin)]; ok && ns != "" {
			return ns
		}
	}
	return DefaultPrefix + strings.ToLower(extension+"_"+plugin)
}

func overrideKey(extension, plugin string) string {
	return strings.ToLower(strings.TrimSpace(extension)) + "\x00" + strings.ToLower(strings.TrimSpace(plugin))
}
