// Package definition loads form definitions from YAML and builds forms from
// them.
//
// A definition names the object the form is bound to, the route whose
// request renders it, and the fields in display order:
//
//	object: post
//	route:
//	  extension: Blog
//	  plugin: Posts
//	  controller: Post
//	  action: new
//	render:
//	  action: /posts
//	  submit: Save
//	fields:
//	  - id: title
//	    attributes: {label: Title, maxlength: "80"}
//	  - id: uid
//	    hidden: true
//	  - id: q
//	    plain: true
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/httpform"
	"github.com/goliatone/go-formbind/pkg/mvc"
)

var (
	ErrMissingID       = errors.New("definition: field id is required")
	ErrDuplicateID     = errors.New("definition: duplicate field id")
	ErrConflictingKind = errors.New("definition: field cannot be both plain and a property")
)

// Definition describes one form.
type Definition struct {
	Object string         `yaml:"object" json:"object"`
	Route  httpform.Route `yaml:"route" json:"route"`
	Render Render         `yaml:"render" json:"render"`
	Fields []Field        `yaml:"fields" json:"fields"`
}

// Render carries the options of the surrounding form element.
type Render struct {
	Action string `yaml:"action" json:"action"`
	Method string `yaml:"method" json:"method"`
	ID     string `yaml:"id" json:"id"`
	Submit string `yaml:"submit" json:"submit"`
}

// Field describes one form field. Name is the plain field name or property
// path; it defaults to ID. Property binds the field to Property on the
// object and Plain keeps it outside the object. Without either the field is
// a property field when the definition names an object.
type Field struct {
	ID               string            `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name,omitempty"`
	Property         string            `yaml:"property" json:"property,omitempty"`
	Plain            bool              `yaml:"plain" json:"plain,omitempty"`
	Hidden           bool              `yaml:"hidden" json:"hidden,omitempty"`
	Default          *string           `yaml:"default" json:"default,omitempty"`
	Value            any               `yaml:"value" json:"value,omitempty"`
	Attributes       map[string]string `yaml:"attributes" json:"attributes,omitempty"`
	RespectSubmitted *bool             `yaml:"respect_submitted" json:"respect_submitted,omitempty"`
}

// Load reads the definition at path.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	def, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Definition{}, fmt.Errorf("%w (%s)", err, path)
	}
	return def, nil
}

// Parse decodes a definition. Unknown keys are rejected.
func Parse(r io.Reader) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return Definition{}, errors.New("definition: empty document")
		}
		return Definition{}, fmt.Errorf("definition: decode: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate checks field identifiers and kinds.
func (d Definition) Validate() error {
	seen := make(map[string]struct{}, len(d.Fields))
	for i, field := range d.Fields {
		id := strings.TrimSpace(field.ID)
		if id == "" {
			return fmt.Errorf("%w (field %d)", ErrMissingID, i)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		if field.Plain && field.Property != "" {
			return fmt.Errorf("%w: %q", ErrConflictingKind, id)
		}
	}
	return nil
}

// Request returns the request of the definition's route carrying args.
func (d Definition) Request(args map[string]any) *httpform.Request {
	return httpform.NewRequest(d.Route, args)
}

// Build creates the form described by def for req. A nil req renders for the
// definition's route without arguments. Options apply before the object name
// of the definition, which always wins.
func Build(def Definition, req mvc.Request, opts ...form.Option) (*form.Form, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if req == nil {
		req = def.Request(nil)
	}

	options := append(append([]form.Option{}, opts...), form.WithObjectName(def.Object))
	f := form.New(req, options...)
	for _, entry := range def.Fields {
		applyField(create(f, entry), entry)
	}
	return f, nil
}

func create(f *form.Form, entry Field) *form.Field {
	id := strings.TrimSpace(entry.ID)
	switch {
	case entry.Property != "":
		field := f.CreatePropertyField(id, entry.Property)
		if entry.Hidden {
			f.AddHiddenField(field, id)
		}
		return field
	case entry.Plain && entry.Hidden:
		return f.CreatePlainHiddenField(id, entry.Name)
	case entry.Plain:
		return f.CreatePlainField(id, entry.Name)
	case entry.Hidden:
		return f.CreateHiddenField(id, entry.Name)
	default:
		return f.CreateField(id, entry.Name)
	}
}

func applyField(field *form.Field, entry Field) {
	if len(entry.Attributes) > 0 {
		field.SetMultipleAttributes(entry.Attributes)
	}
	if entry.Default != nil {
		field.SetDefaultValue(*entry.Default)
	}
	if entry.Value != nil {
		field.SetValue(entry.Value)
	}
	if entry.RespectSubmitted != nil {
		field.SetRespectSubmittedValue(*entry.RespectSubmitted)
	}
}
