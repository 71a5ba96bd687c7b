package formbind

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-formbind/pkg/definition"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/httpform"
	"github.com/goliatone/go-formbind/pkg/mvc"
	"github.com/goliatone/go-formbind/pkg/renderers/html"
	"github.com/goliatone/go-formbind/pkg/security"
	"github.com/goliatone/go-formbind/pkg/submission"
)

// Form aliases form.Form for callers that only import the root package.
type Form = form.Form

// Rendered aliases the render payload handed to views.
type Rendered = form.Rendered

// Submission aliases the verified submission returned by Verify.
type Submission = submission.Submission

// Route aliases httpform.Route.
type Route = httpform.Route

// HTMLOptions aliases the per-render options of the HTML renderer.
type HTMLOptions = html.Options

// NewForm creates a form for req.
func NewForm(req mvc.Request, options ...form.Option) *form.Form {
	return form.New(req, options...)
}

// NewHashService returns the HMAC service for secret.
func NewHashService(secret string) (*security.HashService, error) {
	return security.NewHashService(secret)
}

// FormFromDefinition loads the YAML definition at path and builds its form
// for req. A nil req renders for the definition's route.
func FormFromDefinition(path string, req mvc.Request, options ...form.Option) (*form.Form, error) {
	def, err := definition.Load(path)
	if err != nil {
		return nil, err
	}
	return definition.Build(def, req, options...)
}

// RenderHTML renders f with the bundled HTML templates.
func RenderHTML(ctx context.Context, f *form.Form, opts html.Options) ([]byte, error) {
	rendered, err := f.Render()
	if err != nil {
		return nil, err
	}
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, rendered, opts)
}

// Verify checks the hidden fields submitted with r under namespace and
// returns the arguments the rendered form trusted.
func Verify(r *http.Request, hasher *security.HashService, namespace string) (*submission.Submission, error) {
	args, err := httpform.AllArguments(r)
	if err != nil {
		return nil, err
	}
	return submission.NewService(hasher).Verify(args, namespace)
}

// EmbeddedTemplates exposes the bundled HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
