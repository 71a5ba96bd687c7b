package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/mvc"
	"github.com/goliatone/go-formbind/pkg/namespace"
)

func newContext(req mvc.Request, object string) *form.Context {
	return form.NewContext(req, object, namespace.New(
		namespace.WithOverride("Ext", "Plugin", "tx_ext_plugin"),
		namespace.WithOverride("Short", "P", "p"),
	))
}

func shortRequest() *mvc.StaticRequest {
	return &mvc.StaticRequest{Extension: "Short", Plugin: "P", Controller: "Post", Action: "new"}
}

func TestField_RenderName(t *testing.T) {
	cases := []struct {
		desc   string
		req    mvc.Request
		object string
		field  *form.Field
		want   string
	}{
		{
			desc:  "plain field",
			req:   &mvc.StaticRequest{Extension: "Ext", Plugin: "Plugin"},
			field: form.NewField("foo"),
			want:  "tx_ext_plugin[foo]",
		},
		{
			desc:  "plain field with brackets",
			req:   shortRequest(),
			field: form.NewField("foo[bar]"),
			want:  "p[foo][bar]",
		},
		{
			desc:  "plain field keeps trailing bracket structure",
			req:   shortRequest(),
			field: form.NewField("foo[bar][]"),
			want:  "p[foo][bar][]",
		},
		{
			desc:   "property field",
			req:    shortRequest(),
			object: "post",
			field:  form.NewField("").SetProperty("title"),
			want:   "p[post][title]",
		},
		{
			desc:   "property field without namespace",
			req:    &mvc.StaticRequest{Extension: "Short"},
			object: "post",
			field:  form.NewField("").SetProperty("title"),
			want:   "post[title]",
		},
		{
			desc:  "plain field without namespace",
			req:   &mvc.StaticRequest{},
			field: form.NewField("foo[bar]"),
			want:  "foo[bar]",
		},
		{
			desc:  "generated convention",
			req:   &mvc.StaticRequest{Extension: "BlogExample", Plugin: "Posts"},
			field: form.NewField("q"),
			want:  "tx_blogexample_posts[q]",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			tc.field.SetFormContext(newContext(tc.req, tc.object))
			if got := tc.field.RenderName(); got != tc.want {
				t.Fatalf("RenderName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestField_RenderValue(t *testing.T) {
	original := &mvc.StaticRequest{Args: map[string]any{
		"post":   map[string]any{"title": "Submitted title"},
		"search": "submitted search",
	}}
	resubmitted := shortRequest()
	resubmitted.Original = original

	t.Run("explicit value wins", func(t *testing.T) {
		field := form.NewField("search").
			SetFormContext(newContext(resubmitted, "")).
			SetDefaultValue("default").
			SetValue("explicit")
		if got := field.RenderValue(); got != "explicit" {
			t.Fatalf("RenderValue() = %v, want explicit", got)
		}
	})

	t.Run("fresh request uses default", func(t *testing.T) {
		field := form.NewField("search").
			SetFormContext(newContext(shortRequest(), "")).
			SetDefaultValue("default")
		if got := field.RenderValue(); got != "default" {
			t.Fatalf("RenderValue() = %v, want default", got)
		}
	})

	t.Run("fresh request without default", func(t *testing.T) {
		field := form.NewField("search").SetFormContext(newContext(shortRequest(), ""))
		if got := field.RenderValue(); got != nil {
			t.Fatalf("RenderValue() = %v, want nil", got)
		}
	})

	t.Run("resubmission returns submitted plain value", func(t *testing.T) {
		field := form.NewField("search").
			SetFormContext(newContext(resubmitted, "")).
			SetDefaultValue("default")
		if got := field.RenderValue(); got != "submitted search" {
			t.Fatalf("RenderValue() = %v, want submitted search", got)
		}
	})

	t.Run("resubmission returns submitted property value", func(t *testing.T) {
		field := form.NewField("").
			SetProperty("title").
			SetFormContext(newContext(resubmitted, "post")).
			SetDefaultValue("default")
		if got := field.RenderValue(); got != "Submitted title" {
			t.Fatalf("RenderValue() = %v, want Submitted title", got)
		}
	})

	t.Run("non-map object entry is absent", func(t *testing.T) {
		scalar := shortRequest()
		scalar.Original = &mvc.StaticRequest{Args: map[string]any{"post": "scalar"}}
		field := form.NewField("").
			SetProperty("title").
			SetFormContext(newContext(scalar, "post")).
			SetDefaultValue("default")
		if got := field.RenderValue(); got != nil {
			t.Fatalf("RenderValue() = %v, want nil", got)
		}
	})

	t.Run("resubmission returns submitted list", func(t *testing.T) {
		listed := shortRequest()
		listed.Original = &mvc.StaticRequest{Args: map[string]any{
			"post": map[string]any{"tags": []any{"go", "web"}},
		}}
		field := form.NewField("").
			SetProperty("tags[]").
			SetFormContext(newContext(listed, "post"))
		if diff := cmp.Diff([]any{"go", "web"}, field.RenderValue()); diff != "" {
			t.Fatalf("RenderValue() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing submitted argument is absent", func(t *testing.T) {
		field := form.NewField("").
			SetProperty("body").
			SetFormContext(newContext(resubmitted, "post")).
			SetDefaultValue("default")
		if got := field.RenderValue(); got != nil {
			t.Fatalf("RenderValue() = %v, want nil", got)
		}
	})

	t.Run("ignoring submitted values falls back to default", func(t *testing.T) {
		field := form.NewField("search").
			SetFormContext(newContext(resubmitted, "")).
			SetDefaultValue("default").
			SetRespectSubmittedValue(false)
		if got := field.RenderValue(); got != "default" {
			t.Fatalf("RenderValue() = %v, want default", got)
		}
	})
}

func TestField_ValidationMessages(t *testing.T) {
	results := mvc.NewResult()
	title := results.ForProperty("post.title")
	title.AddNotice(mvc.Message{Text: "notice"})
	title.AddWarning(mvc.Message{Text: "warning"})
	title.AddError(mvc.Message{Text: "error"})
	results.ForProperty("search").AddError(mvc.Message{Text: "search error"})

	req := shortRequest()
	req.Original = &mvc.StaticRequest{}
	req.OriginalResults = results

	property := form.NewField("").SetProperty("title").SetFormContext(newContext(req, "post"))
	if diff := cmp.Diff([]string{"error", "warning", "notice"}, property.ValidationMessages()); diff != "" {
		t.Fatalf("property messages mismatch (-want +got):\n%s", diff)
	}

	plain := form.NewField("search").SetFormContext(newContext(req, "post"))
	if diff := cmp.Diff([]string{"search error"}, plain.ValidationMessages()); diff != "" {
		t.Fatalf("plain messages mismatch (-want +got):\n%s", diff)
	}

	unknown := form.NewField("other").SetFormContext(newContext(req, ""))
	if got := unknown.ValidationMessages(); len(got) != 0 {
		t.Fatalf("expected no messages, got %v", got)
	}

	fresh := form.NewField("search").SetFormContext(newContext(shortRequest(), ""))
	if got := fresh.ValidationMessages(); got == nil || len(got) != 0 {
		t.Fatalf("expected an empty slice on a fresh request, got %#v", got)
	}
}

func TestField_RenderAttributes(t *testing.T) {
	field := form.NewField("title").
		SetFormContext(newContext(shortRequest(), "")).
		SetMultipleAttributes(map[string]string{
			"class": "input",
			"name":  "ignored",
			"value": "ignored",
		}).
		SetAttribute("placeholder", "Title").
		SetAttribute("class", "input wide").
		SetValue("Hello")
	field.RemoveAttribute("placeholder")

	want := map[string]any{
		"class": "input wide",
		"name":  "p[title]",
		"value": "Hello",
	}
	if diff := cmp.Diff(want, field.Render().Map()); diff != "" {
		t.Fatalf("rendered field mismatch (-want +got):\n%s", diff)
	}
}

func TestField_DefaultValue(t *testing.T) {
	field := form.NewField("x")
	if _, ok := field.DefaultValue(); ok {
		t.Fatalf("default value must be unset initially")
	}
	field.SetDefaultValue("")
	if value, ok := field.DefaultValue(); !ok || value != "" {
		t.Fatalf("expected empty default to be set, got %q (%v)", value, ok)
	}
}

func TestPrefixFieldName(t *testing.T) {
	cases := []struct{ prefix, name, want string }{
		{"tx_ext_plugin", "foo", "tx_ext_plugin[foo]"},
		{"p", "foo[bar]", "p[foo][bar]"},
		{"p", "foo[bar][baz]", "p[foo][bar][baz]"},
		{"", "foo[bar]", "foo[bar]"},
	}
	for _, tc := range cases {
		if got := form.PrefixFieldName(tc.prefix, tc.name); got != tc.want {
			t.Fatalf("PrefixFieldName(%q, %q) = %q, want %q", tc.prefix, tc.name, got, tc.want)
		}
	}
	propertyCases := []struct{ prefix, object, property, want string }{
		{"p", "post", "title", "p[post][title]"},
		{"p", "post", "author.name", "p[post][author][name]"},
		{"p", "post", "tags[]", "p[post][tags][]"},
		{"", "post", "title", "post[title]"},
	}
	for _, tc := range propertyCases {
		if got := form.PrefixPropertyFieldName(tc.prefix, tc.object, tc.property); got != tc.want {
			t.Fatalf("PrefixPropertyFieldName(%q, %q, %q) = %q, want %q", tc.prefix, tc.object, tc.property, got, tc.want)
		}
	}
	if got := form.PrefixPropertyFieldName("p", "", "title"); got != "p[title]" {
		t.Fatalf("property without object should prefix like a plain field, got %q", got)
	}
}
