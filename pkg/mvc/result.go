package mvc

import (
	"fmt"
	"strings"
)

// Message is a single validation message.
type Message struct {
	Text      string `json:"message"`
	Code      int    `json:"code,omitempty"`
	Arguments []any  `json:"arguments,omitempty"`
}

// NewMessage builds a message with optional format arguments.
func NewMessage(text string, code int, args ...any) Message {
	return Message{Text: text, Code: code, Arguments: args}
}

// Message returns the raw message text.
func (m Message) Message() string {
	return m.Text
}

// String renders the message with its arguments applied.
func (m Message) String() string {
	if len(m.Arguments) == 0 {
		return m.Text
	}
	return fmt.Sprintf(m.Text, m.Arguments...)
}

// Result is a tree of validation messages addressed by property path. The
// zero value is ready to use.
type Result struct {
	errors   []Message
	warnings []Message
	notices  []Message

	order      []string
	properties map[string]*Result
}

// NewResult returns an empty result tree.
func NewResult() *Result {
	return &Result{}
}

// ForProperty returns the sub-result for a dotted property path, creating
// intermediate nodes when they do not exist yet. An empty path returns r.
func (r *Result) ForProperty(path string) *Result {
	current := r
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			continue
		}
		current = current.child(segment)
	}
	return current
}

// Get returns the existing sub-result at the given path segments without
// creating nodes, or nil when any segment is missing.
func (r *Result) Get(segments ...string) *Result {
	current := r
	for _, segment := range segments {
		if current == nil || current.properties == nil {
			return nil
		}
		current = current.properties[segment]
	}
	return current
}

func (r *Result) child(name string) *Result {
	if r.properties == nil {
		r.properties = make(map[string]*Result)
	}
	sub, ok := r.properties[name]
	if !ok {
		sub = NewResult()
		r.properties[name] = sub
		r.order = append(r.order, name)
	}
	return sub
}

func (r *Result) AddError(m Message) *Result {
	r.errors = append(r.errors, m)
	return r
}

func (r *Result) AddWarning(m Message) *Result {
	r.warnings = append(r.warnings, m)
	return r
}

func (r *Result) AddNotice(m Message) *Result {
	r.notices = append(r.notices, m)
	return r
}

// Errors returns the errors attached directly to this node.
func (r *Result) Errors() []Message { return r.errors }

// Warnings returns the warnings attached directly to this node.
func (r *Result) Warnings() []Message { return r.warnings }

// Notices returns the notices attached directly to this node.
func (r *Result) Notices() []Message { return r.notices }

// Properties lists the child property names in insertion order.
func (r *Result) Properties() []string {
	return append([]string(nil), r.order...)
}

// HasErrors reports whether this node or any descendant carries an error.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	if len(r.errors) > 0 {
		return true
	}
	for _, name := range r.order {
		if r.properties[name].HasErrors() {
			return true
		}
	}
	return false
}

// Merge appends every message of other into r, recursing into properties.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.errors = append(r.errors, other.errors...)
	r.warnings = append(r.warnings, other.warnings...)
	r.notices = append(r.notices, other.notices...)
	for _, name := range other.order {
		r.child(name).Merge(other.properties[name])
	}
}

// FlattenedErrors maps dotted property paths to their error messages.
func (r *Result) FlattenedErrors() map[string][]Message {
	out := make(map[string][]Message)
	r.flattenErrors("", out)
	return out
}

func (r *Result) flattenErrors(prefix string, dest map[string][]Message) {
	if len(r.errors) > 0 {
		dest[prefix] = append(dest[prefix], r.errors...)
	}
	for _, name := range r.order {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		r.properties[name].flattenErrors(path, dest)
	}
}
