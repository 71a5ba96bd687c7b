package httpform

import (
	"log/slog"
	"net/http"

	"github.com/goliatone/go-formbind/pkg/namespace"
	"github.com/goliatone/go-formbind/pkg/submission"
)

// NamespaceResolver maps a route onto its argument namespace.
type NamespaceResolver interface {
	PluginNamespace(extension, plugin string) string
}

// ErrorHandlerFunc writes the response for a rejected submission.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Options configure the verification middleware.
type Options struct {
	Route        Route
	Verifier     *submission.Service
	Namespaces   NamespaceResolver
	Logger       *slog.Logger
	ErrorHandler ErrorHandlerFunc
	// Methods lists the HTTP methods whose requests are verified.
	Methods []string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Methods: []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = WriteError
	}
	if opts.Namespaces == nil {
		opts.Namespaces = namespace.New()
	}
	if len(opts.Methods) == 0 {
		opts.Methods = DefaultOptions().Methods
	}
	opts.Methods = append([]string{}, opts.Methods...)
	return opts
}

func WithRoute(route Route) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Route = route
	}
}

func WithVerifier(verifier *submission.Service) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Verifier = verifier
	}
}

func WithNamespaceResolver(resolver NamespaceResolver) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Namespaces = resolver
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithErrorHandler(handler ErrorHandlerFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ErrorHandler = handler
	}
}

func WithMethods(methods ...string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Methods = append([]string{}, methods...)
	}
}

func (o Options) namespace() string {
	if o.Namespaces == nil {
		return ""
	}
	return o.Namespaces.PluginNamespace(o.Route.Extension, o.Route.Plugin)
}

func (o Options) verifies(method string) bool {
	for _, m := range o.Methods {
		if m == method {
			return true
		}
	}
	return false
}
