package form

import "github.com/goliatone/go-formbind/pkg/mvc"

// NamespaceResolver maps an extension/plugin pair onto the prefix used for
// every field name of a form. *namespace.Resolver satisfies it.
type NamespaceResolver interface {
	PluginNamespace(extension, plugin string) string
}

// Context carries the request a form is rendered for and the name of the
// object its property fields are bound to. It is shared by reference by
// every field of a form. All accessors tolerate a nil request.
type Context struct {
	request    mvc.Request
	objectName string
	namespaces NamespaceResolver
}

// NewContext builds a context for req. objectName may be empty for forms
// that are not bound to an object.
func NewContext(req mvc.Request, objectName string, namespaces NamespaceResolver) *Context {
	return &Context{request: req, objectName: objectName, namespaces: namespaces}
}

func (c *Context) Request() mvc.Request {
	if c == nil {
		return nil
	}
	return c.request
}

func (c *Context) ObjectName() string {
	if c == nil {
		return ""
	}
	return c.objectName
}

func (c *Context) SetObjectName(name string) {
	c.objectName = name
}

// IsObjectForm reports whether the form is bound to a named object.
func (c *Context) IsObjectForm() bool {
	return c.ObjectName() != ""
}

// Namespaces returns the resolver used to prefix field names.
func (c *Context) Namespaces() NamespaceResolver {
	if c == nil {
		return nil
	}
	return c.namespaces
}

func (c *Context) ExtensionName() string {
	if req := c.Request(); req != nil {
		return req.ControllerExtensionName()
	}
	return ""
}

func (c *Context) PluginName() string {
	if req := c.Request(); req != nil {
		return req.PluginName()
	}
	return ""
}

func (c *Context) ControllerName() string {
	if req := c.Request(); req != nil {
		return req.ControllerName()
	}
	return ""
}

func (c *Context) ActionName() string {
	if req := c.Request(); req != nil {
		return req.ControllerActionName()
	}
	return ""
}

// Arguments returns the arguments of the current request, never nil.
func (c *Context) Arguments() map[string]any {
	if req := c.Request(); req != nil {
		if args := req.Arguments(); args != nil {
			return args
		}
	}
	return map[string]any{}
}

// OriginalRequest returns the failed request being re-displayed, if any.
func (c *Context) OriginalRequest() mvc.Request {
	if req := c.Request(); req != nil {
		return req.OriginalRequest()
	}
	return nil
}

// OriginalMappingResults returns the validation results of the original
// request, or nil when the current request is not a resubmission.
func (c *Context) OriginalMappingResults() *mvc.Result {
	if c.OriginalRequest() == nil {
		return nil
	}
	return c.request.OriginalRequestMappingResults()
}
