package trust_test

import (
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbind/pkg/testsupport"
	"github.com/goliatone/go-formbind/pkg/trust"
)

func TestBuildTree_Golden(t *testing.T) {
	tree, err := trust.BuildTree([]string{
		"tx_blog_posts[post][title]",
		"tx_blog_posts[post][author][name]",
		"tx_blog_posts[post][tags][]",
		"tx_blog_posts[post][tags][]",
		"tx_blog_posts[q]",
	})
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}

	path := filepath.Join("testdata", "tree.golden.json")
	testsupport.WriteGolden(t, path, tree)

	// Compare decoded forms so leaf numbers and key order match.
	var want, got map[string]any
	if err := json.Unmarshal(testsupport.MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("decode golden: %v", err)
	}
	encoded, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("encode tree: %v", err)
	}
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}
