package mvc

// Request exposes the parts of an MVC request that form rendering reads.
// Implementations return empty strings for identities they do not know.
type Request interface {
	ControllerExtensionName() string
	PluginName() string
	ControllerName() string
	ControllerActionName() string
	Arguments() map[string]any
	// OriginalRequest returns the request whose validation failed when the
	// current request re-displays a form, nil otherwise.
	OriginalRequest() Request
	// OriginalRequestMappingResults returns the validation results of the
	// original request. It may be nil when OriginalRequest is nil.
	OriginalRequestMappingResults() *Result
}

// StaticRequest is an in-memory Request, useful for tests and for callers
// that already resolved the routing information themselves.
type StaticRequest struct {
	Extension  string
	Plugin     string
	Controller string
	Action     string
	Args       map[string]any

	Original        Request
	OriginalResults *Result
}

var _ Request = (*StaticRequest)(nil)

func (r *StaticRequest) ControllerExtensionName() string { return r.Extension }
func (r *StaticRequest) PluginName() string              { return r.Plugin }
func (r *StaticRequest) ControllerName() string          { return r.Controller }
func (r *StaticRequest) ControllerActionName() string    { return r.Action }

func (r *StaticRequest) Arguments() map[string]any {
	if r.Args == nil {
		return map[string]any{}
	}
	return r.Args
}

func (r *StaticRequest) OriginalRequest() Request { return r.Original }

func (r *StaticRequest) OriginalRequestMappingResults() *Result {
	if r.OriginalResults == nil {
		return NewResult()
	}
	return r.OriginalResults
}

// IsResubmission reports whether req re-displays a previously failed request.
func IsResubmission(req Request) bool {
	return req != nil && req.OriginalRequest() != nil
}
