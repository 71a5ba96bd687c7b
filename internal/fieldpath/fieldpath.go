// Package fieldpath parses bracket-notation form field names such as
// "tx_blog_posts[post][tags][]" into their segments.
package fieldpath

import (
	"strconv"
	"strings"
)

// Split returns the segments of a bracketed field name. The head precedes the
// first '[' and every following segment has its closing ']' removed. An empty
// segment marks an append position ("[]").
//
//	Split("a[b][]") == []string{"a", "b", ""}
func Split(name string) []string {
	parts := strings.Split(name, "[")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimRight(part, "]"))
	}
	return out
}

// Join renders segments back into bracket notation. The first segment is the
// head; an empty head yields a name starting at the first bracketed segment.
func Join(segments ...string) string {
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(segments[0])
	for i, segment := range segments[1:] {
		if i == 0 && segments[0] == "" {
			b.WriteString(segment)
			continue
		}
		b.WriteByte('[')
		b.WriteString(segment)
		b.WriteByte(']')
	}
	return b.String()
}

// Lookup walks nested maps and lists following path and reports the value
// found. List elements are addressed by their decimal index. A missing key,
// an out of range index or a scalar intermediate value yields (nil, false).
func Lookup(values map[string]any, path ...string) (any, bool) {
	var current any = values
	for _, key := range path {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			current = node[i]
		default:
			return nil, false
		}
	}
	return current, true
}

// TrimAppend drops a trailing append segment, so "tags[]" addresses the
// whole "tags" list.
func TrimAppend(segments []string) []string {
	if n := len(segments); n > 1 && segments[n-1] == "" {
		return segments[:n-1]
	}
	return segments
}
