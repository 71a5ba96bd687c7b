package render_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, form.Rendered) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	reg, err := render.NewRegistry(render.JSON{}, namedRenderer("text"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if diff := cmp.Diff([]string{"json", "text"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	got, err := reg.Get("text")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "text" {
		t.Fatalf("unexpected renderer %q", got.Name())
	}

	if _, err := reg.Get("xml"); !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
	if err := reg.Register(namedRenderer("text")); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected unnamed renderer to fail")
	}
	if _, err := render.NewRegistry(render.JSON{}, render.JSON{}); err == nil {
		t.Fatalf("expected duplicate constructor arguments to fail")
	}
}

func TestJSON(t *testing.T) {
	rendered := form.Rendered{
		Fields: map[string]form.RenderedField{
			"title": {Name: "p[post][title]", Value: "Hello", Attributes: map[string]string{"label": "Title"}},
		},
		Order:        []string{"title"},
		HiddenFields: []form.RenderedField{{Name: "p[__trustedProperties]", Value: "token"}},
	}

	out, err := render.JSON{}.Render(context.Background(), rendered)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`"name": "p[post][title]"`, `"label": "Title"`, `"order": [`, `"value": "token"`} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected %q in\n%s", want, out)
		}
	}
	if !strings.HasSuffix(string(out), "}\n") {
		t.Fatalf("expected trailing newline")
	}
}
