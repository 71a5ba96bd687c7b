package mvc_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/mvc"
)

func messageTexts(messages []mvc.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Message())
	}
	return out
}

func TestResult_ForPropertyCreatesNestedNodes(t *testing.T) {
	result := mvc.NewResult()
	result.ForProperty("post.title").AddError(mvc.NewMessage("required", 1))
	result.ForProperty("post").ForProperty("title").AddWarning(mvc.NewMessage("short", 2))

	title := result.ForProperty("post").ForProperty("title")
	if diff := cmp.Diff([]string{"required"}, messageTexts(title.Errors())); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"short"}, messageTexts(title.Warnings())); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
	if !result.HasErrors() {
		t.Fatalf("expected root to report nested errors")
	}
	if diff := cmp.Diff([]string{"post"}, result.Properties()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestResult_Merge(t *testing.T) {
	a := mvc.NewResult()
	a.ForProperty("name").AddError(mvc.Message{Text: "a"})
	b := mvc.NewResult()
	b.ForProperty("name").AddError(mvc.Message{Text: "b"})
	b.AddNotice(mvc.Message{Text: "root"})

	a.Merge(b)

	flat := a.FlattenedErrors()
	if diff := cmp.Diff([]string{"a", "b"}, messageTexts(flat["name"])); diff != "" {
		t.Fatalf("merged errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"root"}, messageTexts(a.Notices())); diff != "" {
		t.Fatalf("merged notices mismatch (-want +got):\n%s", diff)
	}
}

func TestMessage_String(t *testing.T) {
	m := mvc.NewMessage("must be at least %d characters", 1221, 3)
	if got := m.String(); got != "must be at least 3 characters" {
		t.Fatalf("unexpected rendered message: %q", got)
	}
	if got := m.Message(); got != "must be at least %d characters" {
		t.Fatalf("unexpected raw message: %q", got)
	}
}

func TestResultFromPayload(t *testing.T) {
	payload := map[string][]string{
		"/body/post/title":   {"Title is required", " Title is required "},
		"post[tags][0]":      {"Tags must be unique"},
		"$.data.post.author": {"Author missing"},
		"non_field_errors":   {"Form level error"},
		"":                   {"  "},
	}

	result := mvc.ResultFromPayload(payload)

	got := map[string][]string{}
	for path, messages := range result.FlattenedErrors() {
		got[path] = messageTexts(messages)
	}
	want := map[string][]string{
		"":            {"Form level error"},
		"post.title":  {"Title is required"},
		"post.tags":   {"Tags must be unique"},
		"post.author": {"Author missing"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestStaticRequest_Resubmission(t *testing.T) {
	fresh := &mvc.StaticRequest{Extension: "Blog", Plugin: "Posts"}
	if mvc.IsResubmission(fresh) {
		t.Fatalf("fresh request must not be a resubmission")
	}
	if fresh.Arguments() == nil {
		t.Fatalf("arguments should never be nil")
	}
	if fresh.OriginalRequestMappingResults() == nil {
		t.Fatalf("mapping results should never be nil")
	}

	again := &mvc.StaticRequest{Original: fresh}
	if !mvc.IsResubmission(again) {
		t.Fatalf("expected resubmission")
	}
	if mvc.IsResubmission(nil) {
		t.Fatalf("nil request must not be a resubmission")
	}
}

func TestResult_GetDoesNotCreateNodes(t *testing.T) {
	result := mvc.NewResult()
	result.ForProperty("post.title").AddError(mvc.Message{Text: "required"})

	if got := result.Get("post", "title"); got == nil || len(got.Errors()) != 1 {
		t.Fatalf("expected existing node, got %#v", got)
	}
	if got := result.Get("post", "body"); got != nil {
		t.Fatalf("expected nil for a missing node, got %#v", got)
	}
	if diff := cmp.Diff([]string{"title"}, result.Get("post").Properties()); diff != "" {
		t.Fatalf("Get must not create nodes (-want +got):\n%s", diff)
	}
}
