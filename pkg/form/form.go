package form

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbind/pkg/mvc"
	"github.com/goliatone/go-formbind/pkg/namespace"
	"github.com/goliatone/go-formbind/pkg/security"
	"github.com/goliatone/go-formbind/pkg/trust"
)

// Names of the generated hidden fields, before prefixing.
const (
	TrustedPropertiesField  = "__trustedProperties"
	ReferrerField           = "__referrer"
	ReferrerExtensionField  = ReferrerField + "[@extension]"
	ReferrerControllerField = ReferrerField + "[@controller]"
	ReferrerActionField     = ReferrerField + "[@action]"
	ReferrerArgumentsField  = ReferrerField + "[arguments]"
	ReferrerRequestField    = ReferrerField + "[@request]"
)

// ErrMissingSigner is returned by Render when the form has no signer or no
// trusted properties generator.
var ErrMissingSigner = errors.New("form: signer and token generator are required")

// Signer appends an HMAC to a string. *security.HashService satisfies it.
type Signer interface {
	AppendHMAC(value string) string
}

// TokenGenerator produces the trusted-properties token for the rendered
// field names of a form. *trust.Service satisfies it.
type TokenGenerator interface {
	GenerateTrustedPropertiesToken(fieldNames []string, prefix string) (string, error)
}

// ActionRequest identifies the action that rendered a form. It is signed
// into the __referrer[@request] field; the JSON keys keep this order.
type ActionRequest struct {
	Extension  string `json:"@extension"`
	Controller string `json:"@controller"`
	Action     string `json:"@action"`
}

// Option configures a Form.
type Option func(*Form)

// WithObjectName binds the form to an object; fields created afterwards
// default to property fields.
func WithObjectName(name string) Option {
	return func(f *Form) {
		f.ctx.objectName = name
	}
}

// WithNamespaceResolver replaces the default plugin namespace resolver.
func WithNamespaceResolver(resolver NamespaceResolver) Option {
	return func(f *Form) {
		if resolver != nil {
			f.ctx.namespaces = resolver
		}
	}
}

// WithHashService signs referrer fields with svc and derives the trusted
// properties generator from it.
func WithHashService(svc *security.HashService) Option {
	return func(f *Form) {
		if svc == nil {
			return
		}
		f.signer = svc
		f.tokens = trust.NewService(svc)
	}
}

// WithSigner overrides the referrer signer.
func WithSigner(signer Signer) Option {
	return func(f *Form) {
		f.signer = signer
	}
}

// WithTokenGenerator overrides the trusted properties generator.
func WithTokenGenerator(tokens TokenGenerator) Option {
	return func(f *Form) {
		f.tokens = tokens
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Form owns the fields of one rendered form and produces the render payload
// including the generated hidden fields.
type Form struct {
	ctx    *Context
	fields fieldSet
	hidden fieldSet

	signer Signer
	tokens TokenGenerator
	logger *slog.Logger
}

// New creates a form for req.
func New(req mvc.Request, options ...Option) *Form {
	f := &Form{
		ctx:    NewContext(req, "", namespace.New()),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Context returns the context shared by all fields of the form.
func (f *Form) Context() *Context {
	return f.ctx
}

// SetObjectName binds the form to an object. Existing fields keep their
// mode; only their rendered names follow the new object name.
func (f *Form) SetObjectName(name string) {
	f.ctx.SetObjectName(name)
}

// CreateField registers a field under identifier. An empty nameOrProperty
// defaults to identifier; the field is a property field when the form is
// bound to an object.
func (f *Form) CreateField(identifier, nameOrProperty string) *Field {
	return f.createField(identifier, nameOrProperty, f.ctx.IsObjectForm())
}

// CreatePlainField registers a field that is never bound to the object.
func (f *Form) CreatePlainField(identifier, name string) *Field {
	return f.createField(identifier, name, false)
}

// CreatePropertyField registers a field bound to a property of the object.
func (f *Form) CreatePropertyField(identifier, property string) *Field {
	return f.createField(identifier, property, true)
}

// CreateHiddenField is CreateField plus registration as a hidden field.
func (f *Form) CreateHiddenField(identifier, nameOrProperty string) *Field {
	field := f.CreateField(identifier, nameOrProperty)
	f.hidden.set(identifier, field)
	return field
}

// CreatePlainHiddenField is CreatePlainField plus registration as a hidden
// field.
func (f *Form) CreatePlainHiddenField(identifier, name string) *Field {
	field := f.CreatePlainField(identifier, name)
	f.hidden.set(identifier, field)
	return field
}

func (f *Form) createField(identifier, nameOrProperty string, property bool) *Field {
	if nameOrProperty == "" {
		nameOrProperty = identifier
	}
	field := NewField(nameOrProperty).
		SetFormContext(f.ctx).
		SetPropertyField(property)
	f.fields.set(identifier, field)
	return field
}

// AddField re-binds field to this form's context and registers it. An empty
// identifier defaults to the field name. A field added to several forms
// belongs to the form that added it last.
func (f *Form) AddField(field *Field, identifier string) {
	if identifier == "" {
		identifier = field.Name()
	}
	field.SetFormContext(f.ctx)
	f.fields.set(identifier, field)
}

// AddHiddenField is AddField plus registration as a hidden field.
func (f *Form) AddHiddenField(field *Field, identifier string) {
	if identifier == "" {
		identifier = field.Name()
	}
	f.AddField(field, identifier)
	f.hidden.set(identifier, field)
}

// Field returns the registered field for identifier.
func (f *Form) Field(identifier string) (*Field, bool) {
	return f.fields.get(identifier)
}

// Identifiers lists the registered field identifiers in order.
func (f *Form) Identifiers() []string {
	return append([]string(nil), f.fields.order...)
}

// FieldNames returns the rendered names of all registered fields in order.
// These names make up the trusted properties token.
func (f *Form) FieldNames() []string {
	names := make([]string, 0, f.fields.len())
	f.fields.each(func(_ string, field *Field) {
		names = append(names, field.RenderName())
	})
	return names
}

// Render produces the payload for the view layer. Registered hidden fields
// are followed by the trusted properties field and the referrer fields.
// Rendering does not modify the form.
func (f *Form) Render() (Rendered, error) {
	out := Rendered{
		Fields:       make(map[string]RenderedField, f.fields.len()),
		Order:        make([]string, 0, f.fields.len()),
		HiddenFields: make([]RenderedField, 0, f.hidden.len()+6),
	}

	f.fields.each(func(id string, field *Field) {
		out.Fields[id] = field.Render()
		out.Order = append(out.Order, id)
		if messages := field.ValidationMessages(); len(messages) > 0 {
			if out.Messages == nil {
				out.Messages = make(map[string][]string)
			}
			out.Messages[id] = messages
		}
	})

	f.hidden.each(func(_ string, field *Field) {
		out.HiddenFields = append(out.HiddenFields, field.Render())
	})

	generated, err := f.generatedFields()
	if err != nil {
		return Rendered{}, err
	}
	for _, field := range generated {
		out.HiddenFields = append(out.HiddenFields, field.Render())
	}

	f.logger.Debug("form rendered",
		"prefix", NewPrefixer(f.ctx).Namespace(),
		"object", f.ctx.ObjectName(),
		"fields", len(out.Fields),
		"hidden", len(out.HiddenFields),
	)
	return out, nil
}

func (f *Form) generatedFields() ([]*Field, error) {
	if f.signer == nil || f.tokens == nil {
		return nil, ErrMissingSigner
	}

	trusted := f.generatedField(TrustedPropertiesField)
	token, err := f.tokens.GenerateTrustedPropertiesToken(f.FieldNames(), trusted.FieldNamePrefix())
	if err != nil {
		return nil, fmt.Errorf("form: generate trusted properties token: %w", err)
	}
	trusted.SetValue(token)

	referrer, err := f.referrerFields()
	if err != nil {
		return nil, err
	}
	return append([]*Field{trusted}, referrer...), nil
}

func (f *Form) referrerFields() ([]*Field, error) {
	action := ActionRequest{
		Extension:  f.ctx.ExtensionName(),
		Controller: f.ctx.ControllerName(),
		Action:     f.ctx.ActionName(),
	}

	arguments, err := json.Marshal(f.ctx.Arguments())
	if err != nil {
		return nil, fmt.Errorf("form: encode referrer arguments: %w", err)
	}
	request, err := json.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("form: encode referrer request: %w", err)
	}

	return []*Field{
		f.generatedField(ReferrerExtensionField).SetValue(action.Extension),
		f.generatedField(ReferrerControllerField).SetValue(action.Controller),
		f.generatedField(ReferrerActionField).SetValue(action.Action),
		f.generatedField(ReferrerArgumentsField).SetValue(f.signer.AppendHMAC(base64.StdEncoding.EncodeToString(arguments))),
		f.generatedField(ReferrerRequestField).SetValue(f.signer.AppendHMAC(string(request))),
	}, nil
}

// generatedField builds a transient plain field that never re-displays a
// submitted value and is not registered with the form.
func (f *Form) generatedField(name string) *Field {
	return NewField(name).
		SetFormContext(f.ctx).
		SetRespectSubmittedValue(false)
}

type fieldSet struct {
	order []string
	byID  map[string]*Field
}

// set registers field under id; re-registering keeps the original position.
func (s *fieldSet) set(id string, field *Field) {
	if s.byID == nil {
		s.byID = make(map[string]*Field)
	}
	if _, exists := s.byID[id]; !exists {
		s.order = append(s.order, id)
	}
	s.byID[id] = field
}

func (s *fieldSet) get(id string) (*Field, bool) {
	field, ok := s.byID[id]
	return field, ok
}

func (s *fieldSet) len() int {
	return len(s.order)
}

func (s *fieldSet) each(fn func(id string, field *Field)) {
	for _, id := range s.order {
		fn(id, s.byID[id])
	}
}
