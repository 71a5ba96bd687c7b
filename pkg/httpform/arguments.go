package httpform

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/goliatone/go-formbind/internal/fieldpath"
)

// ParseArguments turns bracket-notation form values into nested maps:
//
//	post[title]=Hi&post[tags][]=go&post[tags][]=web
//	=> {"post": {"title": "Hi", "tags": ["go", "web"]}}
//
// Keys are applied in sorted order. For repeated keys without a trailing
// "[]" the last value wins. Keys using "[]" before their last segment are
// ignored. A scalar is replaced when a later key needs a map at its place.
func ParseArguments(values url.Values) map[string]any {
	out := map[string]any{}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		segments := fieldpath.Split(key)
		if !valid(segments) {
			continue
		}
		for _, value := range values[key] {
			assign(out, segments, value)
		}
	}
	return out
}

func valid(segments []string) bool {
	if len(segments) == 0 || segments[0] == "" {
		return false
	}
	for i := 1; i < len(segments)-1; i++ {
		if segments[i] == "" {
			return false
		}
	}
	return true
}

func assign(root map[string]any, segments []string, value string) {
	current := root
	for i, segment := range segments {
		if i == len(segments)-1 {
			current[segment] = value
			return
		}
		if segments[i+1] == "" && i+1 == len(segments)-1 {
			list, _ := current[segment].([]any)
			current[segment] = append(list, value)
			return
		}
		child, ok := current[segment].(map[string]any)
		if !ok {
			child = map[string]any{}
			current[segment] = child
		}
		current = child
	}
}

// EncodeArguments is the inverse of ParseArguments for maps, lists and
// scalar values. Scalars are formatted with fmt semantics.
func EncodeArguments(args map[string]any) url.Values {
	values := url.Values{}
	for key, value := range args {
		encodeValue(values, key, value)
	}
	return values
}

func encodeValue(values url.Values, name string, value any) {
	switch v := value.(type) {
	case nil:
		values.Add(name, "")
	case map[string]any:
		for key, child := range v {
			encodeValue(values, name+"["+key+"]", child)
		}
	case []any:
		for _, child := range v {
			encodeValue(values, name+"[]", child)
		}
	case []string:
		for _, child := range v {
			values.Add(name+"[]", child)
		}
	default:
		values.Add(name, stringify(v))
	}
}

func stringify(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		if value {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(value)
	}
}
