// Package render names the renderers a rendered form can be handed to. The
// HTML, TUI and JSON renderers register under their Name.
package render

import (
	"context"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbind/pkg/form"
)

// Renderer turns a rendered form into bytes of ContentType.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, rendered form.Rendered) ([]byte, error)
}

// JSON renders the payload itself, indented and newline terminated.
type JSON struct{}

func (JSON) Name() string        { return "json" }
func (JSON) ContentType() string { return "application/json" }

func (JSON) Render(_ context.Context, rendered form.Rendered) ([]byte, error) {
	out, err := json.MarshalIndent(rendered, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
