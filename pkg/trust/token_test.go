package trust_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/security"
	"github.com/goliatone/go-formbind/pkg/trust"
)

func newService(t *testing.T) (*trust.Service, *security.HashService) {
	t.Helper()
	hasher, err := security.NewHashService("trust-secret")
	if err != nil {
		t.Fatalf("hash service: %v", err)
	}
	return trust.NewService(hasher), hasher
}

func TestBuildTree(t *testing.T) {
	tree, err := trust.BuildTree([]string{
		"tx_blog_posts[post][title]",
		"tx_blog_posts[post][tags][]",
		"tx_blog_posts[post][tags][]",
		"tx_blog_posts[search]",
	})
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}

	want := map[string]any{
		"tx_blog_posts": map[string]any{
			"post": map[string]any{
				"title": 1,
				"tags":  trust.ListLeaf,
			},
			"search": 1,
		},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTree_Collisions(t *testing.T) {
	cases := map[string][]string{
		"string overridden by array": {"a[b]", "a[b][c]"},
		"array overridden by string": {"a[b][c]", "a[b]"},
		"append in the middle":       {"a[][c]"},
		"string overridden by list":  {"a[b]", "a[b][]"},
		"list overridden by string":  {"a[b][]", "a[b]"},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := trust.BuildTree(fields)
			if !errors.Is(err, trust.ErrInvalidArgumentForHashGeneration) {
				t.Fatalf("expected ErrInvalidArgumentForHashGeneration, got %v", err)
			}
		})
	}
}

func TestBuildTree_ListCoversNestedFields(t *testing.T) {
	tree, err := trust.BuildTree([]string{"p[tags][]", "p[tags][0][label]", "p[refs][0]", "p[refs][]"})
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	want := map[string]any{"p": map[string]any{"tags": trust.ListLeaf, "refs": trust.ListLeaf}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestService_GenerateAndDecode(t *testing.T) {
	svc, _ := newService(t)

	names := []string{"p[post][title]", "p[post][body]", "other[x]"}
	token, err := svc.GenerateTrustedPropertiesToken(names, "p")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	again, err := svc.GenerateTrustedPropertiesToken(names, "p")
	if err != nil {
		t.Fatalf("generate again: %v", err)
	}
	if token != again {
		t.Fatalf("token generation must be deterministic:\n%s\n%s", token, again)
	}

	props, err := svc.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !props.Allows("post", "title") || !props.Allows("post", "body") {
		t.Fatalf("expected post properties to be trusted: %#v", props.Tree())
	}
	if props.Allows("x") || props.Allows("post", "author") {
		t.Fatalf("unexpected trusted property: %#v", props.Tree())
	}
}

func TestService_DecodeRejectsTampering(t *testing.T) {
	svc, _ := newService(t)
	token, err := svc.GenerateTrustedPropertiesToken([]string{"a[b]"}, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	tampered := `{"a":{"b":1,"admin":1}}` + token[len(token)-security.HMACLength:]
	if _, err := svc.Decode(tampered); !errors.Is(err, security.ErrInvalidHMAC) {
		t.Fatalf("expected hmac failure, got %v", err)
	}
}

func TestService_DecodeRejectsGarbage(t *testing.T) {
	svc, hasher := newService(t)
	if _, err := svc.Decode(hasher.AppendHMAC("not json")); !errors.Is(err, trust.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestProperties_FilterKeepsWholeList(t *testing.T) {
	svc, _ := newService(t)
	token, err := svc.GenerateTrustedPropertiesToken([]string{"p[post][tags][]", "p[post][title]"}, "p")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	props, err := svc.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	args := map[string]any{
		"post": map[string]any{"tags": []any{"go", "web", "api"}, "admin": "1"},
	}
	want := map[string]any{
		"post": map[string]any{"tags": []any{"go", "web", "api"}},
	}
	if diff := cmp.Diff(want, props.Filter(args)); diff != "" {
		t.Fatalf("filtered arguments mismatch (-want +got):\n%s", diff)
	}
	if !props.Allows("post", "tags", "2") {
		t.Fatalf("expected every list element to be trusted: %#v", props.Tree())
	}
}

func TestProperties_Filter(t *testing.T) {
	props := trust.NewProperties(map[string]any{
		"post": map[string]any{
			"title": 1,
			"tags":  map[string]any{"0": 1},
		},
	})

	args := map[string]any{
		"post": map[string]any{
			"title":  "Hello",
			"tags":   []any{"go", "sneaky"},
			"author": "mallory",
		},
		"admin": "1",
	}

	want := map[string]any{
		"post": map[string]any{
			"title": "Hello",
			"tags":  []any{"go"},
		},
	}
	if diff := cmp.Diff(want, props.Filter(args)); diff != "" {
		t.Fatalf("filtered arguments mismatch (-want +got):\n%s", diff)
	}
}
