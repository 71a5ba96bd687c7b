package form

import "strings"

// Prefixer computes namespaced field names for one form context.
type Prefixer struct {
	ctx *Context
}

// NewPrefixer returns a Prefixer for ctx.
func NewPrefixer(ctx *Context) Prefixer {
	return Prefixer{ctx: ctx}
}

// Namespace returns the plugin namespace of the current request, or "" when
// the extension or plugin identity is unavailable.
func (p Prefixer) Namespace() string {
	resolver := p.ctx.Namespaces()
	if resolver == nil {
		return ""
	}
	extension := p.ctx.ExtensionName()
	plugin := p.ctx.PluginName()
	if extension == "" || plugin == "" {
		return ""
	}
	return resolver.PluginNamespace(extension, plugin)
}

// FieldName prefixes a plain field name.
func (p Prefixer) FieldName(name string) string {
	return PrefixFieldName(p.Namespace(), name)
}

// PropertyFieldName prefixes a property of the bound object.
func (p Prefixer) PropertyFieldName(property string) string {
	return PrefixPropertyFieldName(p.Namespace(), p.ctx.ObjectName(), property)
}

// PrefixFieldName nests name under prefix. Only the head before the first
// '[' is wrapped; the remaining bracket structure is kept verbatim:
//
//	PrefixFieldName("p", "foo[bar][]") == "p[foo][bar][]"
//
// An empty prefix returns name unchanged.
func PrefixFieldName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	head, rest, nested := strings.Cut(name, "[")
	out := prefix + "[" + head + "]"
	if nested {
		out += "[" + rest
	}
	return out
}

// PrefixPropertyFieldName returns "prefix[object][property]". Dots in the
// property path and brackets after it become nested segments:
//
//	PrefixPropertyFieldName("p", "post", "author.name") == "p[post][author][name]"
//	PrefixPropertyFieldName("p", "post", "tags[]") == "p[post][tags][]"
//
// Without an object name the property is prefixed like a plain field.
func PrefixPropertyFieldName(prefix, object, property string) string {
	if object == "" {
		return PrefixFieldName(prefix, property)
	}
	return PrefixFieldName(prefix, object+PropertyPath(property))
}

// PropertyPath renders a property path as bracketed segments.
func PropertyPath(property string) string {
	head, rest, nested := strings.Cut(property, "[")
	out := "[" + strings.ReplaceAll(head, ".", "][") + "]"
	if nested {
		out += "[" + rest
	}
	return out
}
