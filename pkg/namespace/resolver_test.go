package namespace_test

import (
	"testing"

	"github.com/goliatone/go-formbind/pkg/namespace"
)

func TestResolver_PluginNamespace(t *testing.T) {
	resolver := namespace.New(
		namespace.WithOverride("Shop", "Cart", "cart"),
		namespace.WithOverrides([]namespace.Override{
			{Extension: "News", Plugin: "List", Namespace: "news"},
		}),
	)

	cases := []struct {
		extension, plugin string
		want              string
	}{
		{"BlogExample", "Posts", "tx_blogexample_posts"},
		{"blog_example", "Post_List", "tx_blog_example_post_list"},
		{"shop", "CART", "cart"},
		{"News", "List", "news"},
		{"", "Posts", ""},
		{"Blog", " ", ""},
	}

	for _, tc := range cases {
		if got := resolver.PluginNamespace(tc.extension, tc.plugin); got != tc.want {
			t.Fatalf("PluginNamespace(%q, %q) = %q, want %q", tc.extension, tc.plugin, got, tc.want)
		}
	}
}

func TestResolver_NilUsesConvention(t *testing.T) {
	var resolver *namespace.Resolver
	if got := resolver.PluginNamespace("Ext", "Plugin"); got != "tx_ext_plugin" {
		t.Fatalf("unexpected namespace %q", got)
	}
}
