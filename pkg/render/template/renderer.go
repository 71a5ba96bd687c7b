package template

import (
	"io"
)

// TemplateRenderer is the seam renderers draw templates through. Render
// accepts either a template name or inline template content; the optional
// writers receive a copy of the output.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
