package form

import (
	"maps"

	"github.com/goliatone/go-formbind/internal/fieldpath"
	"github.com/goliatone/go-formbind/pkg/mvc"
)

// Field is a single form control. A plain field renders its name under the
// plugin namespace; a property field renders it under the namespace and the
// bound object's name.
type Field struct {
	ctx *Context

	name          string
	propertyField bool
	attributes    map[string]string

	value        any
	defaultValue *string

	respectSubmittedValue bool
}

// NewField returns a plain field named name that re-displays submitted
// values. Attach it to a form with Form.AddField.
func NewField(name string) *Field {
	return &Field{
		name:                  name,
		attributes:            map[string]string{},
		respectSubmittedValue: true,
	}
}

// SetFormContext binds the field to ctx. Form.AddField calls it; the last
// binding wins.
func (f *Field) SetFormContext(ctx *Context) *Field {
	f.ctx = ctx
	return f
}

func (f *Field) FormContext() *Context {
	return f.ctx
}

// SetProperty names the field after a property of the bound object and
// turns it into a property field.
func (f *Field) SetProperty(property string) *Field {
	f.name = property
	f.propertyField = true
	return f
}

// Name returns the unprefixed name. RenderName returns the wire name.
func (f *Field) Name() string {
	return f.name
}

func (f *Field) SetName(name string) *Field {
	f.name = name
	return f
}

func (f *Field) SetPropertyField(property bool) *Field {
	f.propertyField = property
	return f
}

func (f *Field) IsPropertyField() bool { return f.propertyField }
func (f *Field) IsPlainField() bool    { return !f.propertyField }

// SetValue pins the rendered value. It overrides submitted and default
// values; nil clears it.
func (f *Field) SetValue(value any) *Field {
	f.value = value
	return f
}

// Value returns the explicit value, nil when unset.
func (f *Field) Value() any {
	return f.value
}

func (f *Field) SetDefaultValue(value string) *Field {
	f.defaultValue = &value
	return f
}

// DefaultValue returns the default value and whether one was set.
func (f *Field) DefaultValue() (string, bool) {
	if f.defaultValue == nil {
		return "", false
	}
	return *f.defaultValue, true
}

// SetRespectSubmittedValue controls whether a re-displayed form shows the
// value submitted with the failed request.
func (f *Field) SetRespectSubmittedValue(respect bool) *Field {
	f.respectSubmittedValue = respect
	return f
}

func (f *Field) RespectsSubmittedValue() bool {
	return f.respectSubmittedValue
}

func (f *Field) SetAttribute(name, value string) *Field {
	f.attributes[name] = value
	return f
}

// SetMultipleAttributes merges attrs into the field attributes; later
// writes win.
func (f *Field) SetMultipleAttributes(attrs map[string]string) *Field {
	maps.Copy(f.attributes, attrs)
	return f
}

func (f *Field) RemoveAttribute(name string) *Field {
	delete(f.attributes, name)
	return f
}

// Attribute returns a single attribute value.
func (f *Field) Attribute(name string) (string, bool) {
	value, ok := f.attributes[name]
	return value, ok
}

// Attributes returns a copy of the field attributes.
func (f *Field) Attributes() map[string]string {
	return maps.Clone(f.attributes)
}

// FieldNamePrefix returns the plugin namespace of the field's request.
func (f *Field) FieldNamePrefix() string {
	return NewPrefixer(f.ctx).Namespace()
}

// RenderName returns the namespaced name sent over the wire.
func (f *Field) RenderName() string {
	prefixer := NewPrefixer(f.ctx)
	if f.propertyField {
		return prefixer.PropertyFieldName(f.name)
	}
	return prefixer.FieldName(f.name)
}

// RenderValue resolves the value to display: the explicit value, else the
// value submitted with a failed request (when respected), else the default
// value. A submitted argument that is missing resolves to nil.
func (f *Field) RenderValue() any {
	if f.value != nil {
		return f.value
	}

	if original := f.ctx.OriginalRequest(); original != nil && f.respectSubmittedValue {
		value, _ := fieldpath.Lookup(original.Arguments(), f.argumentPath()...)
		return value
	}

	if f.defaultValue != nil {
		return *f.defaultValue
	}
	return nil
}

// ValidationMessages returns the errors, warnings and notices recorded for
// this field on the failed request being re-displayed, in that order.
func (f *Field) ValidationMessages() []string {
	results := f.ctx.OriginalMappingResults()
	if results == nil {
		return []string{}
	}
	node := results.Get(f.argumentPath()...)
	if node == nil {
		return []string{}
	}

	messages := make([]string, 0, len(node.Errors())+len(node.Warnings())+len(node.Notices()))
	for _, group := range [][]mvc.Message{node.Errors(), node.Warnings(), node.Notices()} {
		for _, m := range group {
			messages = append(messages, m.Message())
		}
	}
	return messages
}

// Render returns the field attributes merged with its rendered name and
// value. name and value always win over attributes of the same name.
func (f *Field) Render() RenderedField {
	return RenderedField{
		Attributes: maps.Clone(f.attributes),
		Name:       f.RenderName(),
		Value:      f.RenderValue(),
	}
}

// argumentPath locates the field inside the request arguments, which are
// already stripped of the plugin namespace.
func (f *Field) argumentPath() []string {
	if f.propertyField && f.ctx.IsObjectForm() {
		return fieldpath.TrimAppend(fieldpath.Split(f.ctx.ObjectName() + PropertyPath(f.name)))
	}
	return fieldpath.TrimAppend(fieldpath.Split(f.name))
}
