package httpform

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-formbind/pkg/mvc"
)

// Route names the MVC action a request is dispatched to.
type Route struct {
	Extension  string `json:"extension" yaml:"extension" mapstructure:"extension"`
	Plugin     string `json:"plugin" yaml:"plugin" mapstructure:"plugin"`
	Controller string `json:"controller" yaml:"controller" mapstructure:"controller"`
	Action     string `json:"action" yaml:"action" mapstructure:"action"`
}

// WithAction returns a copy of the route targeting another action.
func (r Route) WithAction(action string) Route {
	r.Action = action
	return r
}

// Request is an mvc.Request backed by a Route and parsed arguments.
type Request struct {
	route Route
	args  map[string]any

	original        mvc.Request
	originalResults *mvc.Result
}

var _ mvc.Request = (*Request)(nil)

// NewRequest returns a request for route with args. args are the plugin's
// own arguments, already taken out of the plugin namespace.
func NewRequest(route Route, args map[string]any) *Request {
	if args == nil {
		args = map[string]any{}
	}
	return &Request{route: route, args: args}
}

// FromHTTP parses r and returns the request of route. Only the arguments
// under namespace are kept when namespace is not empty.
func FromHTTP(r *http.Request, route Route, namespace string) (*Request, error) {
	args, err := Arguments(r, namespace)
	if err != nil {
		return nil, err
	}
	return NewRequest(route, args), nil
}

// Arguments parses the query and body of r and returns the arguments under
// namespace, or all of them when namespace is empty.
func Arguments(r *http.Request, namespace string) (map[string]any, error) {
	all, err := AllArguments(r)
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		return all, nil
	}
	scoped, _ := all[namespace].(map[string]any)
	if scoped == nil {
		scoped = map[string]any{}
	}
	return scoped, nil
}

// AllArguments parses the query and body of r without scoping.
func AllArguments(r *http.Request) (map[string]any, error) {
	if r == nil {
		return nil, fmt.Errorf("httpform: request is nil")
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("httpform: parse form: %w", err)
	}
	return ParseArguments(r.Form), nil
}

// Resubmission returns the request that re-displays the form of route after
// a submission failed validation. failed is that submission; its arguments
// re-populate the fields and results hold its validation messages.
func Resubmission(route Route, args map[string]any, failed mvc.Request, results *mvc.Result) *Request {
	req := NewRequest(route, args)
	req.original = failed
	req.originalResults = results
	return req
}

func (r *Request) Route() Route                    { return r.route }
func (r *Request) ControllerExtensionName() string { return r.route.Extension }
func (r *Request) PluginName() string              { return r.route.Plugin }
func (r *Request) ControllerName() string          { return r.route.Controller }
func (r *Request) ControllerActionName() string    { return r.route.Action }
func (r *Request) Arguments() map[string]any       { return r.args }
func (r *Request) OriginalRequest() mvc.Request    { return r.original }

func (r *Request) OriginalRequestMappingResults() *mvc.Result {
	if r.originalResults == nil {
		return mvc.NewResult()
	}
	return r.originalResults
}
