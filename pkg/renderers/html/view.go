package html

import (
	"net/http"
	"sort"
	"strings"

	"github.com/goliatone/go-formbind/pkg/form"
)

// Attributes consumed by the renderer instead of being emitted verbatim.
const (
	attrType  = "type"
	attrLabel = "label"
	attrHelp  = "help"
	attrID    = "id"
)

type attrView struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type fieldView struct {
	DOMID    string     `json:"dom_id"`
	Name     string     `json:"name"`
	Value    string     `json:"value"`
	Type     string     `json:"type"`
	Label    string     `json:"label,omitempty"`
	Help     string     `json:"help,omitempty"`
	Attrs    []attrView `json:"attrs"`
	Messages []string   `json:"messages,omitempty"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type formView struct {
	Action string       `json:"action"`
	Method string       `json:"method"`
	ID     string       `json:"id,omitempty"`
	Submit string       `json:"submit,omitempty"`
	Hidden []hiddenView `json:"hidden"`
	Fields []fieldView  `json:"fields"`
}

func buildView(rendered form.Rendered, opts Options) formView {
	method := strings.ToLower(strings.TrimSpace(opts.Method))
	if method == "" {
		method = strings.ToLower(http.MethodPost)
	}

	view := formView{
		Action: opts.Action,
		Method: method,
		ID:     opts.ID,
		Submit: opts.Submit,
		Hidden: make([]hiddenView, 0, len(rendered.HiddenFields)),
		Fields: make([]fieldView, 0, len(rendered.Order)),
	}
	hiddenNames := make(map[string]struct{}, len(rendered.HiddenFields))
	for _, hidden := range rendered.HiddenFields {
		hiddenNames[hidden.Name] = struct{}{}
		view.Hidden = append(view.Hidden, hiddenView{Name: hidden.Name, Value: hidden.ValueString()})
	}
	for _, id := range rendered.Order {
		// Registered hidden fields are listed in both collections.
		if _, ok := hiddenNames[rendered.Fields[id].Name]; ok {
			continue
		}
		view.Fields = append(view.Fields, buildField(id, rendered.Fields[id], rendered.Messages[id], opts.Labels))
	}
	return view
}

func buildField(id string, field form.RenderedField, messages []string, labels map[string]string) fieldView {
	view := fieldView{
		DOMID:    "field-" + domSafe(id),
		Name:     field.Name,
		Value:    field.ValueString(),
		Type:     "text",
		Label:    labels[id],
		Messages: messages,
		Attrs:    []attrView{},
	}

	keys := make([]string, 0, len(field.Attributes))
	for key := range field.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := field.Attributes[key]
		switch strings.ToLower(key) {
		case attrType:
			if value != "" {
				view.Type = strings.ToLower(value)
			}
		case attrLabel:
			if view.Label == "" {
				view.Label = value
			}
		case attrHelp:
			view.Help = sanitizeHelp(value)
		case attrID:
			if value != "" {
				view.DOMID = value
			}
		case "name", "value":
			// Name and value always come from the field itself.
		default:
			view.Attrs = append(view.Attrs, attrView{Key: key, Value: value})
		}
	}
	return view
}

func domSafe(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, id)
}
