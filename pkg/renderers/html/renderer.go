package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-formbind/pkg/form"
	rendertemplate "github.com/goliatone/go-formbind/pkg/render/template"
	gotemplate "github.com/goliatone/go-formbind/pkg/render/template/gotemplate"
)

// formTemplate is resolved relative to the templates file system.
const formTemplate = "templates/form.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/form.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Options describe the surrounding <form> element.
type Options struct {
	Action string
	// Method defaults to post.
	Method string
	// ID is the DOM id of the form element; empty omits it.
	ID string
	// Labels maps field identifiers to label text. A "label" attribute on
	// the field is used when no entry exists.
	Labels map[string]string
	// Submit is the submit button text; empty omits the button.
	Submit string
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the markup of a rendered form.
func (r *Renderer) Render(_ context.Context, rendered form.Rendered, opts Options) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form": buildView(rendered, opts),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// Bound is a Renderer with fixed Options. It satisfies render.Renderer.
type Bound struct {
	*Renderer
	Options Options
}

// Bind fixes opts for every later Render call.
func (r *Renderer) Bind(opts Options) Bound {
	return Bound{Renderer: r, Options: opts}
}

func (b Bound) Render(ctx context.Context, rendered form.Rendered) ([]byte, error) {
	return b.Renderer.Render(ctx, rendered, b.Options)
}
