package form

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// RenderedField is the render-ready form of one Field.
type RenderedField struct {
	Attributes map[string]string
	Name       string
	Value      any
}

// Map flattens the field into {...attributes, name, value}.
func (f RenderedField) Map() map[string]any {
	out := make(map[string]any, len(f.Attributes)+2)
	for key, value := range f.Attributes {
		out[key] = value
	}
	out["name"] = f.Name
	out["value"] = f.Value
	return out
}

// ValueString returns the value formatted for an HTML attribute; nil renders
// as an empty string.
func (f RenderedField) ValueString() string {
	if f.Value == nil {
		return ""
	}
	if s, ok := f.Value.(string); ok {
		return s
	}
	return fmt.Sprint(f.Value)
}

// MarshalJSON encodes the flattened map.
func (f RenderedField) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Map())
}

// Rendered is the payload handed to the view layer.
type Rendered struct {
	// Fields holds every registered field keyed by identifier.
	Fields map[string]RenderedField `json:"fields"`
	// Order lists the identifiers of Fields in registration order.
	Order []string `json:"order"`
	// HiddenFields lists registered hidden fields followed by the trusted
	// properties field and the five referrer fields.
	HiddenFields []RenderedField `json:"hiddenFields"`
	// Messages holds validation feedback per identifier when a failed
	// request is re-displayed. Fields without messages have no entry.
	Messages map[string][]string `json:"messages,omitempty"`
}

// OrderedFields returns Fields following Order.
func (r Rendered) OrderedFields() []RenderedField {
	out := make([]RenderedField, 0, len(r.Order))
	for _, id := range r.Order {
		out = append(out, r.Fields[id])
	}
	return out
}

// Hidden returns the hidden fields keyed by their rendered name.
func (r Rendered) Hidden() map[string]RenderedField {
	out := make(map[string]RenderedField, len(r.HiddenFields))
	for _, f := range r.HiddenFields {
		out[f.Name] = f
	}
	return out
}
