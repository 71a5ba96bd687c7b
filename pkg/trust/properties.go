package trust

import "strconv"

// Properties is a decoded trusted-properties tree.
type Properties struct {
	tree map[string]any
}

// NewProperties wraps an already built tree.
func NewProperties(tree map[string]any) Properties {
	return Properties{tree: tree}
}

// Tree returns the underlying nested map.
func (p Properties) Tree() map[string]any {
	return p.tree
}

// Allows reports whether the property path was rendered by the form. A path
// that reaches a leaf early is allowed: the leaf trusts everything below it.
func (p Properties) Allows(path ...string) bool {
	var current any = p.tree
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return current != nil
		}
		current, ok = node[key]
		if !ok {
			return false
		}
	}
	return current != nil
}

// Filter returns a copy of args reduced to the trusted properties. A
// ListLeaf keeps the whole list. Explicitly indexed lists are kept element
// by element.
func (p Properties) Filter(args map[string]any) map[string]any {
	return filterMap(args, p.tree)
}

func filterMap(args map[string]any, tree map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for key, value := range args {
		node, ok := tree[key]
		if !ok {
			continue
		}
		if filtered, keep := filterValue(value, node); keep {
			out[key] = filtered
		}
	}
	return out
}

func filterValue(value any, node any) (any, bool) {
	children, isMap := node.(map[string]any)
	if !isMap {
		return value, true
	}
	switch v := value.(type) {
	case map[string]any:
		return filterMap(v, children), true
	case []any:
		out := make([]any, 0, len(v))
		for i, item := range v {
			child, ok := children[strconv.Itoa(i)]
			if !ok {
				continue
			}
			if filtered, keep := filterValue(item, child); keep {
				out = append(out, filtered)
			}
		}
		return out, true
	default:
		// A scalar where the form rendered nested fields.
		return nil, false
	}
}
